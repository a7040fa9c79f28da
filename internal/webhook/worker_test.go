package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(url string) (*WebhookWorker, *logrus.Entry) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	return NewWebhookWorker(nil, logger, cfg), logrus.NewEntry(logger)
}

func testPayload(t *testing.T) []byte {
	t.Helper()
	alertID := uuid.New()
	payload, err := json.Marshal(models.BroadcastEvent{
		Type:      models.EventEmergencyAlert,
		TouristID: uuid.New(),
		AlertID:   &alertID,
		Severity:  models.SeverityCritical,
		Timestamp: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return payload
}

func TestDeliver_SignsPayload(t *testing.T) {
	// Подготовка
	payload := testPayload(t)
	var gotSignature, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotType = r.Header.Get("X-Event-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	worker, log := newTestWorker(server.URL)

	// Действие
	err := worker.deliver(context.Background(), models.EventEmergencyAlert, payload, log)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, Sign(payload, "s3cret"), gotSignature)
	assert.Equal(t, "emergency-alert", gotType)
}

func TestDeliver_RetriesUntilSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	worker, log := newTestWorker(server.URL)

	err := worker.deliver(context.Background(), models.EventAlertEscalated, testPayload(t), log)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDeliver_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	worker, log := newTestWorker(server.URL)

	err := worker.deliver(context.Background(), models.EventEmergencyAlert, testPayload(t), log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDeliver_StopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	worker, log := newTestWorker(server.URL)
	worker.cfg.WebhookBaseDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := worker.deliver(ctx, models.EventEmergencyAlert, testPayload(t), log)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDeliver_NoURLSkips(t *testing.T) {
	worker, log := newTestWorker("")

	assert.NoError(t, worker.deliver(context.Background(), models.EventEmergencyAlert, testPayload(t), log))
}

func TestPublish_RedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	broadcaster := NewRedisBroadcaster(client, "safety:events", true)

	err := broadcaster.Publish(context.Background(), models.BroadcastEvent{Type: models.EventTouristLocationUpdated})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish tourist-location-updated event")
}

func TestErrorBackoff_HasFloor(t *testing.T) {
	worker, _ := newTestWorker("http://example.invalid")

	worker.cfg.WebhookTimeout = 0
	assert.Equal(t, minErrorBackoff, worker.errorBackoff())

	worker.cfg.WebhookTimeout = 3 * time.Second
	assert.Equal(t, 3*time.Second, worker.errorBackoff())
}

// countingHook считает команды, отправленные клиентом Redis
type countingHook struct {
	calls atomic.Int32
}

func (h *countingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *countingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.calls.Add(1)
		return next(ctx, cmd)
	}
}

func (h *countingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestStart_RedisErrorsDoNotSpin(t *testing.T) {
	// Подготовка
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	hook := &countingHook{}
	client.AddHook(hook)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	worker := NewWebhookWorker(client, logger, &config.Config{WebhookURL: "http://example.invalid"})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// Действие
	worker.Start(ctx)
	worker.Wait()

	// Проверки
	assert.LessOrEqual(t, hook.calls.Load(), int32(2))
	assert.GreaterOrEqual(t, hook.calls.Load(), int32(1))
}
