package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/repository/memory"
	"github.com/shenikar/tourist_safety_system/internal/scoring"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// testClock - управляемые часы для сервисов
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

var (
	borderCenter = models.Point{Longitude: 91.70, Latitude: 26.10}
	marketCenter = models.Point{Longitude: 91.80, Latitude: 26.10}
	parkCenter   = models.Point{Longitude: 91.90, Latitude: 26.10}
	noon         = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	store       *memory.Store
	alertRepo   *memory.AlertRepository
	touristRepo *memory.TouristRepository
	authRepo    *memory.AuthorityRepository
	zoneRepo    *memory.ZoneRepository
	index       *geo.Index
	dispatcher  *mocks.MockNotificationDispatcher
	broadcaster *mocks.MockBroadcaster
	engine      *alertEngine
	processor   *locationProcessor
	cfg         *config.Config
	clock       *testClock
	logger      *logrus.Logger
}

func testConfig() *config.Config {
	return &config.Config{
		StorageDriver:           config.StorageDriverMemory,
		Location:                time.UTC,
		EscalationInterval:      time.Minute,
		EscalationMaxLevel:      3,
		DispatchTimeout:         time.Second,
		InactivityThreshold:     6 * time.Hour,
		ZoneContextRadiusMeters: 1000,
		ResponderRadiusMeters:   5000,
	}
}

func squareAround(c models.Point) []models.Point {
	d := 0.001
	return []models.Point{
		{Longitude: c.Longitude - d, Latitude: c.Latitude - d},
		{Longitude: c.Longitude - d, Latitude: c.Latitude + d},
		{Longitude: c.Longitude + d, Latitude: c.Latitude + d},
		{Longitude: c.Longitude + d, Latitude: c.Latitude - d},
		{Longitude: c.Longitude - d, Latitude: c.Latitude - d},
	}
}

func testZone(name string, risk models.RiskLevel, center models.Point) *models.Zone {
	c := center
	return &models.Zone{
		ID:        uuid.New(),
		Name:      name,
		RiskLevel: risk,
		Boundary:  squareAround(center),
		Center:    &c,
		IsActive:  true,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := testConfig()
	clock := &testClock{now: noon}
	store := memory.NewStore()
	f := &fixture{
		store:       store,
		alertRepo:   memory.NewAlertRepository(store),
		touristRepo: memory.NewTouristRepository(store),
		authRepo:    memory.NewAuthorityRepository(store),
		zoneRepo:    memory.NewZoneRepository(store),
		dispatcher:  mocks.NewMockNotificationDispatcher(ctrl),
		broadcaster: mocks.NewMockBroadcaster(ctrl),
		cfg:         cfg,
		clock:       clock,
		logger:      logger,
	}

	ctx := context.Background()
	for _, z := range []*models.Zone{
		testZone("Border", models.RiskRestricted, borderCenter),
		testZone("Old Market", models.RiskHigh, marketCenter),
		testZone("Park", models.RiskSafe, parkCenter),
	} {
		require.NoError(t, f.zoneRepo.Create(ctx, z))
	}
	f.index = geo.NewIndex(logger, time.UTC)
	require.NoError(t, f.index.Load(ctx, f.zoneRepo))

	f.engine = NewAlertEngine(f.alertRepo, f.touristRepo, f.authRepo, f.index, f.dispatcher, nil, logger, cfg).(*alertEngine)
	f.engine.now = clock.Now
	f.processor = NewLocationProcessor(f.touristRepo, f.index, scoring.NewScorer(time.UTC), f.engine, f.broadcaster, nil, logger, cfg).(*locationProcessor)
	f.processor.now = clock.Now
	return f
}

// addTourist создает туриста с активной поездкой и двумя экстренными контактами
func (f *fixture) addTourist(loc *models.Location) *models.Tourist {
	now := f.clock.Now()
	t := &models.Tourist{
		ID:          uuid.New(),
		DigitalID:   "DID-" + uuid.NewString()[:8],
		Name:        "Asha Rao",
		Phone:       "+919800000001",
		Nationality: "IN",
		Trip: models.TripWindow{
			StartDate: now.AddDate(0, 0, -2),
			EndDate:   now.AddDate(0, 0, 5),
		},
		EmergencyContacts: []models.EmergencyContact{
			{ID: "c1", Name: "Mother", Phone: "+919800000002", Relationship: "parent"},
			{ID: "c2", Name: "Friend", Phone: "+919800000003"},
		},
		LastActivity: now,
		SafetyScore:  models.InitialSafetyScore,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if loc != nil {
		t.RecordLocation(*loc)
	}
	f.store.AddTourist(t)
	return t
}

// allowDispatch разрешает любые вызовы диспетчера и возвращает отправленные события
func (f *fixture) allowDispatch() *eventLog {
	events := &eventLog{}
	f.dispatcher.EXPECT().
		NotifyContacts(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.Alert, contacts []models.EmergencyContact) []models.DeliveryResult {
			out := make([]models.DeliveryResult, 0, len(contacts))
			for _, c := range contacts {
				out = append(out, models.DeliveryResult{ContactID: c.ID, Method: models.MethodSMS, DeliveryStatus: models.DeliverySent})
			}
			return out
		}).
		AnyTimes()
	f.dispatcher.EXPECT().
		BroadcastToAuthorities(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev models.BroadcastEvent) models.DeliveryResult {
			events.add(ev)
			return models.DeliveryResult{Method: models.MethodBroadcast, DeliveryStatus: models.DeliverySent}
		}).
		AnyTimes()
	return events
}

type eventLog struct {
	mu     sync.Mutex
	events []models.BroadcastEvent
}

func (l *eventLog) add(ev models.BroadcastEvent) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) all() []models.BroadcastEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.BroadcastEvent(nil), l.events...)
}

func locationAt(p models.Point, at time.Time) *models.Location {
	return &models.Location{Longitude: p.Longitude, Latitude: p.Latitude, Accuracy: 10, Timestamp: at}
}

func ptr[T any](v T) *T {
	return &v
}
