package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSMS struct {
	mu      sync.Mutex
	sent    map[string]string
	fail    map[string]error
	block   map[string]chan struct{}
	counter int
}

func newFakeSMS() *fakeSMS {
	return &fakeSMS{
		sent:  map[string]string{},
		fail:  map[string]error{},
		block: map[string]chan struct{}{},
	}
}

func (f *fakeSMS) Send(_ context.Context, to, body string) (string, error) {
	f.mu.Lock()
	wait := f.block[to]
	err := f.fail[to]
	f.mu.Unlock()
	if wait != nil {
		<-wait
	}
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	f.sent[to] = body
	return "SM" + to, nil
}

type fakeFinder struct {
	authorities []*models.Authority
	err         error
	gotRadius   float64
}

func (f *fakeFinder) FindNearbyOnDuty(_ context.Context, _ models.Point, radius float64) ([]*models.Authority, error) {
	f.gotRadius = radius
	return f.authorities, f.err
}

type fakePublisher struct {
	events []models.BroadcastEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event models.BroadcastEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func testAlert() *models.Alert {
	return &models.Alert{
		ID:        uuid.New(),
		DigitalID: "DID-42",
		Type:      models.AlertSOS,
		Severity:  models.SeverityCritical,
		Location:  models.AlertLocation{Longitude: 91.7, Latitude: 26.1, ZoneName: "Border"},
		Details:   models.AlertDetails{Message: "Emergency SOS triggered"},
	}
}

func TestNotifyContacts(t *testing.T) {
	// Подготовка
	sms := newFakeSMS()
	sms.fail["+910000000003"] = errors.New("invalid number")
	d := NewDispatcher(sms, nil, nil, 5000, testLogger())
	contacts := []models.EmergencyContact{
		{ID: "c1", Name: "Mother", Phone: "+910000000001"},
		{ID: "c2", Name: "No phone"},
		{ID: "c3", Name: "Broken", Phone: "+910000000003"},
	}

	// Действие
	results := d.NotifyContacts(context.Background(), testAlert(), contacts)

	// Проверки
	require.Len(t, results, 3)
	assert.Equal(t, models.DeliverySent, results[0].DeliveryStatus)
	assert.Equal(t, "SM+910000000001", results[0].MessageID)
	assert.Equal(t, models.MethodSMS, results[0].Method)
	assert.Equal(t, "Mother", results[0].Name)

	assert.Equal(t, models.DeliveryFailed, results[1].DeliveryStatus)
	assert.Equal(t, "contact has no phone number", results[1].Error)

	assert.Equal(t, models.DeliveryFailed, results[2].DeliveryStatus)
	assert.Equal(t, "invalid number", results[2].Error)

	assert.Equal(t,
		"SAFETY ALERT (SOS, critical): Emergency SOS triggered. Tourist DID-42 last seen at 26.10000,91.70000 near Border.",
		sms.sent["+910000000001"])
}

func TestNotifyContacts_TimeoutLeavesPending(t *testing.T) {
	// Подготовка
	sms := newFakeSMS()
	release := make(chan struct{})
	sms.block["+910000000002"] = release
	d := NewDispatcher(sms, nil, nil, 5000, testLogger())
	contacts := []models.EmergencyContact{
		{ID: "c1", Phone: "+910000000001"},
		{ID: "c2", Phone: "+910000000002"},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Действие
	results := d.NotifyContacts(ctx, testAlert(), contacts)

	// Проверки
	require.Len(t, results, 2)
	assert.Equal(t, models.DeliverySent, results[0].DeliveryStatus)
	assert.Equal(t, models.DeliveryPending, results[1].DeliveryStatus)

	// отправка завершается в фоне
	close(release)
	assert.Eventually(t, func() bool {
		sms.mu.Lock()
		defer sms.mu.Unlock()
		return sms.counter == 2
	}, time.Second, 10*time.Millisecond)
}

func TestNotifyContacts_NoChannel(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, 5000, testLogger())

	results := d.NotifyContacts(context.Background(), testAlert(), []models.EmergencyContact{{ID: "c1", Phone: "+91"}})

	require.Len(t, results, 1)
	assert.Equal(t, models.DeliverySkipped, results[0].DeliveryStatus)
}

func TestBroadcastToAuthorities(t *testing.T) {
	// Подготовка
	first, second := uuid.New(), uuid.New()
	finder := &fakeFinder{authorities: []*models.Authority{{ID: first}, {ID: second}}}
	publisher := &fakePublisher{}
	d := NewDispatcher(nil, finder, publisher, 5000, testLogger())
	alert := testAlert()

	// Действие
	result := d.BroadcastToAuthorities(context.Background(), models.NewEmergencyEvent(alert, nil))

	// Проверки
	assert.Equal(t, models.DeliverySent, result.DeliveryStatus)
	assert.Equal(t, models.MethodBroadcast, result.Method)
	assert.Equal(t, 5000.0, finder.gotRadius)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, []uuid.UUID{first, second}, publisher.events[0].Responders)
	assert.Equal(t, models.EventEmergencyAlert, publisher.events[0].Type)
}

func TestBroadcastToAuthorities_Failures(t *testing.T) {
	t.Run("publish error", func(t *testing.T) {
		d := NewDispatcher(nil, nil, &fakePublisher{err: errors.New("redis down")}, 5000, testLogger())

		result := d.BroadcastToAuthorities(context.Background(), models.NewEmergencyEvent(testAlert(), nil))

		assert.Equal(t, models.DeliveryFailed, result.DeliveryStatus)
		assert.Equal(t, "redis down", result.Error)
	})

	t.Run("responder lookup error still publishes", func(t *testing.T) {
		publisher := &fakePublisher{}
		d := NewDispatcher(nil, &fakeFinder{err: errors.New("db down")}, publisher, 5000, testLogger())

		result := d.BroadcastToAuthorities(context.Background(), models.NewEmergencyEvent(testAlert(), nil))

		assert.Equal(t, models.DeliverySent, result.DeliveryStatus)
		require.Len(t, publisher.events, 1)
		assert.Empty(t, publisher.events[0].Responders)
	})

	t.Run("no publisher", func(t *testing.T) {
		d := NewDispatcher(nil, nil, nil, 5000, testLogger())

		result := d.BroadcastToAuthorities(context.Background(), models.NewEmergencyEvent(testAlert(), nil))

		assert.Equal(t, models.DeliverySkipped, result.DeliveryStatus)
	})
}
