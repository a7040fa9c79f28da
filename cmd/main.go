package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	v1 "github.com/shenikar/tourist_safety_system/internal/handler/http/v1"
	"github.com/shenikar/tourist_safety_system/internal/metrics"
	"github.com/shenikar/tourist_safety_system/internal/notify"
	"github.com/shenikar/tourist_safety_system/internal/repository"
	"github.com/shenikar/tourist_safety_system/internal/repository/memory"
	"github.com/shenikar/tourist_safety_system/internal/scoring"
	"github.com/shenikar/tourist_safety_system/internal/service"
	"github.com/shenikar/tourist_safety_system/internal/webhook"
	"github.com/shenikar/tourist_safety_system/pkg/logger"
	"github.com/shenikar/tourist_safety_system/pkg/postgres"
	redisclient "github.com/shenikar/tourist_safety_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/tourist_safety_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// repositories - набор хранилищ выбранного драйвера
type repositories struct {
	alerts      service.AlertRepository
	tourists    service.TouristRepository
	zones       service.ZoneRepository
	authorities service.AuthorityRepository
}

// @title Tourist Safety System API
// @version 1.0
// @description Tourist safety monitoring: location tracking, risk zones, SOS and alert handling for authorities.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// openPostgres применяет миграции, подключается к базе и загружает seed, если он задан
func openPostgres(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*pgxpool.Pool, *repositories, error) {
	if err := runMigrations(cfg, log); err != nil {
		return nil, nil, err
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to PostgreSQL")

	if cfg.SeedFile != "" {
		f, err := os.Open(cfg.SeedFile)
		if err != nil {
			dbpool.Close()
			return nil, nil, fmt.Errorf("could not open seed file: %w", err)
		}
		defer f.Close()
		seed, err := repository.LoadSeed(ctx, dbpool, f)
		if err != nil {
			dbpool.Close()
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{
			"zones":       len(seed.Zones),
			"authorities": len(seed.Authorities),
			"tourists":    len(seed.Tourists),
		}).Info("Seed data loaded")
	}

	return dbpool, &repositories{
		alerts:      repository.NewAlertRepository(dbpool),
		tourists:    repository.NewTouristRepository(dbpool),
		zones:       repository.NewZoneRepository(dbpool),
		authorities: repository.NewAuthorityRepository(dbpool),
	}, nil
}

// openMemory создает хранилище в памяти; без seed оно пустое
func openMemory(cfg *config.Config, log *logrus.Logger) (*repositories, error) {
	store := memory.NewStore()
	if cfg.SeedFile != "" {
		f, err := os.Open(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("could not open seed file: %w", err)
		}
		defer f.Close()
		seed, err := store.LoadSeed(f)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"zones":       len(seed.Zones),
			"authorities": len(seed.Authorities),
			"tourists":    len(seed.Tourists),
		}).Info("Seed data loaded")
	}
	return &repositories{
		alerts:      memory.NewAlertRepository(store),
		tourists:    memory.NewTouristRepository(store),
		zones:       memory.NewZoneRepository(store),
		authorities: memory.NewAuthorityRepository(store),
	}, nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	m := metrics.New()

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация хранилища
	var repos *repositories
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		repos, err = openMemory(cfg, log)
		if err != nil {
			log.Fatalf("Failed to initialize memory storage: %v", err)
		}
		log.Info("Using in-memory storage")
	default:
		var dbpool *pgxpool.Pool
		dbpool, repos, err = openPostgres(ctx, cfg, log)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
		defer dbpool.Close()
	}

	// Инициализация Redis клиента; в режиме memory Redis необязателен
	var broadcaster service.Broadcaster
	var webhookWorker *webhook.WebhookWorker
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	switch {
	case err == nil:
		defer func(c *goredis.Client) { _ = c.Close() }(redisClient)
		log.Info("Successfully connected to Redis")

		broadcaster = webhook.NewRedisBroadcaster(redisClient, cfg.RedisEventsChannel, cfg.WebhookURL != "")
		if cfg.WebhookURL != "" {
			webhookWorker = webhook.NewWebhookWorker(redisClient, log, cfg)
			webhookWorker.Start(ctx)
		}
	case cfg.StorageDriver == config.StorageDriverMemory:
		log.WithError(err).Warn("Redis unavailable, broadcasting disabled")
	default:
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Индекс зон
	zoneIndex := geo.NewIndex(log, cfg.Location)
	if err := zoneIndex.Load(ctx, repos.zones); err != nil {
		log.Fatalf("Failed to load zone index: %v", err)
	}

	// Рассылка уведомлений
	var sms notify.SMSSender
	if cfg.TwilioAccountSID != "" {
		sms = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	} else {
		log.Warn("TWILIO_ACCOUNT_SID is not set, SMS notifications disabled")
	}
	dispatcher := notify.NewDispatcher(sms, repos.authorities, broadcaster, cfg.ResponderRadiusMeters, log)

	// Инициализация сервисов
	alertEngine := service.NewAlertEngine(repos.alerts, repos.tourists, repos.authorities, zoneIndex, dispatcher, m, log, cfg)
	locationProcessor := service.NewLocationProcessor(
		repos.tourists, zoneIndex, scoring.NewScorer(cfg.Location), alertEngine, broadcaster, m, log, cfg,
	)
	zoneService := service.NewZoneService(repos.zones, zoneIndex, log)
	authorityService := service.NewAuthorityService(repos.authorities, log)

	scheduler := service.NewEscalationScheduler(alertEngine, locationProcessor, m, log, cfg)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start escalation scheduler: %v", err)
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(alertEngine, locationProcessor, zoneService, authorityService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(m.Middleware())
	router.GET("/metrics", gin.WrapH(m.Handler()))
	api := router.Group("/api/v1")
	if err := handler.RegisterRoutes(api); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	scheduler.Stop(shutdownCtx)

	// Останавливаем воркер вебхуков и дожидаемся текущей доставки
	cancel()
	if webhookWorker != nil {
		webhookWorker.Wait()
	}

	log.Info("Server gracefully stopped")
}
