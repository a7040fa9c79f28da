package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	DBMaxConns    int    `env:"DB_MAX_CONNS" envDefault:"10"`
	// SeedFile - JSON с начальными туристами, зонами и сотрудниками
	SeedFile string `env:"SEED_FILE"`

	// Redis Config
	RedisAddr          string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass          string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	RedisEventsChannel string `env:"REDIS_EVENTS_CHANNEL" envDefault:"safety:events"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// API Keys for authentication
	APIKeys      []string      `env:"API_KEYS"`
	AuthCacheTTL time.Duration `env:"AUTH_CACHE_TTL" envDefault:"1m"`

	// Rate limits в формате ulule/limiter, например "10-M"
	SOSRateLimit      string `env:"SOS_RATE_LIMIT" envDefault:"5-M"`
	LocationRateLimit string `env:"LOCATION_RATE_LIMIT" envDefault:"120-M"`

	// Safety Config
	Timezone                string        `env:"TIMEZONE" envDefault:"UTC"`
	Location                *time.Location
	EscalationInterval      time.Duration `env:"ESCALATION_INTERVAL" envDefault:"60s"`
	EscalationMaxLevel      int           `env:"ESCALATION_MAX_LEVEL" envDefault:"3"`
	DispatchTimeout         time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"10s"`
	InactivityThreshold     time.Duration `env:"INACTIVITY_THRESHOLD" envDefault:"6h"`
	ZoneContextRadiusMeters float64       `env:"ZONE_CONTEXT_RADIUS_METERS" envDefault:"1000"`
	ResponderRadiusMeters   float64       `env:"RESPONDER_RADIUS_METERS" envDefault:"5000"`

	// Twilio Config; пустой SID отключает SMS
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		StorageDriver:           getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		HTTPPort:                getEnv("HTTP_PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
		DBMaxConns:              getEnvAsInt("DB_MAX_CONNS", 10),
		SeedFile:                os.Getenv("SEED_FILE"),
		AuthCacheTTL:            getEnvAsDuration("AUTH_CACHE_TTL", time.Minute),
		SOSRateLimit:            getEnv("SOS_RATE_LIMIT", "5-M"),
		LocationRateLimit:       getEnv("LOCATION_RATE_LIMIT", "120-M"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		RedisEventsChannel:      getEnv("REDIS_EVENTS_CHANNEL", "safety:events"),
		WebhookURL:              os.Getenv("WEBHOOK_URL"),
		WebhookSecret:           os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:          getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:       getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:        getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		Timezone:                getEnv("TIMEZONE", "UTC"),
		EscalationInterval:      getEnvAsDuration("ESCALATION_INTERVAL", 60*time.Second),
		EscalationMaxLevel:      getEnvAsInt("ESCALATION_MAX_LEVEL", 3),
		DispatchTimeout:         getEnvAsDuration("DISPATCH_TIMEOUT", 10*time.Second),
		InactivityThreshold:     getEnvAsDuration("INACTIVITY_THRESHOLD", 6*time.Hour),
		ZoneContextRadiusMeters: getEnvAsFloat("ZONE_CONTEXT_RADIUS_METERS", 1000),
		ResponderRadiusMeters:   getEnvAsFloat("RESPONDER_RADIUS_METERS", 5000),
		TwilioAccountSID:        os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:         os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:        os.Getenv("TWILIO_FROM_NUMBER"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений и загружает часовой пояс
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if c.EscalationInterval <= 0 {
		return fmt.Errorf("ESCALATION_INTERVAL must be positive")
	}
	if c.EscalationMaxLevel < 1 {
		return fmt.Errorf("ESCALATION_MAX_LEVEL must be at least 1")
	}
	if c.DispatchTimeout <= 0 {
		return fmt.Errorf("DISPATCH_TIMEOUT must be positive")
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
