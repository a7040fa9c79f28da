package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	signatureHeader = "X-Webhook-Signature"
	eventTypeHeader = "X-Event-Type"
	popTimeout      = 5 * time.Second
	// minErrorBackoff - нижняя граница паузы после ошибки Redis
	minErrorBackoff = time.Second
)

// WebhookWorker забирает события из очереди Redis и доставляет их на WEBHOOK_URL
type WebhookWorker struct {
	redisClient redis.Cmdable
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
	wg          sync.WaitGroup
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient redis.Cmdable, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.WebhookTimeout,
		},
	}
}

// Start запускает горутину обработки очереди; она завершается с отменой ctx
func (w *WebhookWorker) Start(ctx context.Context) {
	log := w.logger.WithField("component", "webhook_worker")
	log.Info("Starting webhook worker...")
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			if ctx.Err() != nil {
				log.Info("Stopping webhook worker.")
				return
			}

			// BRPOP с таймаутом, чтобы регулярно проверять отмену контекста
			result, err := w.redisClient.BRPop(ctx, popTimeout, webhookQueueKey).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
					continue
				}
				log.WithError(err).Error("Failed to pop webhook event from Redis")
				sleepCtx(ctx, w.errorBackoff())
				continue
			}

			// result[0] - ключ, result[1] - значение
			w.process(ctx, []byte(result[1]))
		}
	}()
}

// Wait ждет завершения горутины после отмены контекста
func (w *WebhookWorker) Wait() {
	w.wg.Wait()
}

func (w *WebhookWorker) process(ctx context.Context, payload []byte) {
	var event models.BroadcastEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
		return
	}

	log := w.logger.WithFields(logrus.Fields{
		"component":  "webhook_worker",
		"event_type": event.Type,
		"tourist_id": event.TouristID,
	})
	if event.AlertID != nil {
		log = log.WithField("alert_id", *event.AlertID)
	}

	if err := w.deliver(ctx, event.Type, payload, log); err != nil {
		log.WithError(err).Error("Failed to deliver webhook")
	}
}

// deliver отправляет событие с экспоненциальной задержкой между попытками
func (w *WebhookWorker) deliver(ctx context.Context, eventType models.EventType, payload []byte, log *logrus.Entry) error {
	if w.cfg.WebhookURL == "" {
		log.Warn("Webhook URL is not configured. Skipping webhook delivery.")
		return nil
	}

	maxRetries := w.cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	delay := w.cfg.WebhookBaseDelay

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = w.send(ctx, eventType, payload)
		if lastErr == nil {
			log.WithField("attempt", attempt).Info("Webhook delivered successfully.")
			return nil
		}
		if attempt == maxRetries {
			break
		}

		log.WithError(lastErr).Warnf("Webhook delivery failed. Retrying in %v. Retries left: %d", delay, maxRetries-attempt)
		if !sleepCtx(ctx, delay) {
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("webhook not delivered after %d attempts: %w", maxRetries, lastErr)
}

func (w *WebhookWorker) send(ctx context.Context, eventType models.EventType, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventTypeHeader, string(eventType))

	// Добавляем HMAC подпись, если WEBHOOK_SECRET задан
	if w.cfg.WebhookSecret != "" {
		req.Header.Set(signatureHeader, Sign(payload, w.cfg.WebhookSecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

// errorBackoff - пауза перед повторным BRPOP после ошибки Redis
func (w *WebhookWorker) errorBackoff() time.Duration {
	if w.cfg.WebhookTimeout > minErrorBackoff {
		return w.cfg.WebhookTimeout
	}
	return minErrorBackoff
}

// Sign возвращает HMAC-SHA256 подпись тела в hex
func Sign(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// sleepCtx ждет d или отмены ctx; false - контекст отменен
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
