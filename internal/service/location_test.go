package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleAt(touristID uuid.UUID, p models.Point) models.LocationSample {
	return models.LocationSample{
		TouristID: touristID,
		Longitude: ptr(p.Longitude),
		Latitude:  ptr(p.Latitude),
		Accuracy:  ptr(15.0),
	}
}

func TestProcessLocation_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tourist := f.addTourist(nil)

	tests := []struct {
		name   string
		sample models.LocationSample
	}{
		{
			name:   "missing latitude",
			sample: models.LocationSample{TouristID: tourist.ID, Longitude: ptr(91.7)},
		},
		{
			name:   "longitude out of range",
			sample: models.LocationSample{TouristID: tourist.ID, Longitude: ptr(200.0), Latitude: ptr(26.1)},
		},
		{
			name:   "latitude out of range",
			sample: models.LocationSample{TouristID: tourist.ID, Longitude: ptr(91.7), Latitude: ptr(-91.0)},
		},
		{
			name:   "negative accuracy",
			sample: models.LocationSample{TouristID: tourist.ID, Longitude: ptr(91.7), Latitude: ptr(26.1), Accuracy: ptr(-1.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.processor.ProcessLocation(ctx, tt.sample)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		})
	}
}

func TestProcessLocation_UnknownTourist(t *testing.T) {
	f := newFixture(t)

	_, err := f.processor.ProcessLocation(context.Background(), sampleAt(uuid.New(), parkCenter))

	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestProcessLocation_RestrictedZoneRaisesCriticalAlert(t *testing.T) {
	// Подготовка
	f := newFixture(t)
	ctx := context.Background()
	events := f.allowDispatch()
	tourist := f.addTourist(nil)

	// Ожидания
	var published []models.BroadcastEvent
	f.broadcaster.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev models.BroadcastEvent) error {
			published = append(published, ev)
			return nil
		}).
		Times(2)

	// Действие
	first, err := f.processor.ProcessLocation(ctx, sampleAt(tourist.ID, borderCenter))
	require.NoError(t, err)
	f.clock.Set(noon.Add(time.Minute))
	second, err := f.processor.ProcessLocation(ctx, sampleAt(tourist.ID, borderCenter))
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, 60, first.SafetyScore)
	assert.Equal(t, "Border", first.Location.ZoneName)
	assert.Equal(t, 15.0, first.Location.Accuracy)
	require.Len(t, first.Zones, 1)
	assert.Equal(t, models.RiskRestricted, first.Zones[0].EffectiveRisk)
	require.NotNil(t, first.Alert)
	assert.Equal(t, models.AlertGeofence, first.Alert.Type)
	assert.Equal(t, models.SeverityCritical, first.Alert.Severity)
	assert.Equal(t, "Entered restricted risk zone: Border", first.Alert.Details.Message)
	assert.True(t, first.Alert.Details.AutomaticTrigger)
	assert.Empty(t, first.AlertError)

	// повторная точка в той же зоне не создает новую тревогу
	assert.Nil(t, second.Alert)
	assert.Empty(t, second.AlertError)
	assert.Len(t, events.all(), 1)

	require.Len(t, published, 2)
	assert.Equal(t, models.EventTouristLocationUpdated, published[0].Type)
	require.NotNil(t, published[0].SafetyScore)
	assert.Equal(t, 60, *published[0].SafetyScore)

	stored, err := f.touristRepo.GetByID(ctx, tourist.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.History.Len())
	assert.Equal(t, noon.Add(time.Minute), stored.LastActivity)
	assert.Equal(t, 60, stored.SafetyScore)
}

func TestProcessLocation_SafeZoneNoAlert(t *testing.T) {
	f := newFixture(t)
	tourist := f.addTourist(nil)
	f.broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	result, err := f.processor.ProcessLocation(context.Background(), models.LocationSample{
		TouristID: tourist.ID,
		Longitude: ptr(parkCenter.Longitude),
		Latitude:  ptr(parkCenter.Latitude),
	})

	require.NoError(t, err)
	assert.Nil(t, result.Alert)
	assert.Equal(t, 100, result.SafetyScore)
	assert.Equal(t, models.DefaultAccuracyMeters, result.Location.Accuracy)
	assert.Equal(t, "Park", result.Location.ZoneName)
}

func TestProcessLocation_ConcurrentSamplesSameTourist(t *testing.T) {
	// Подготовка
	f := newFixture(t)
	tourist := f.addTourist(nil)
	const samples = models.HistoryCapacity + 10

	var mu sync.Mutex
	var published []float64
	f.broadcaster.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev models.BroadcastEvent) error {
			mu.Lock()
			published = append(published, ev.Location.Longitude)
			mu.Unlock()
			return nil
		}).
		Times(samples)

	// Действие
	var wg sync.WaitGroup
	errs := make(chan error, samples)
	for i := 0; i < samples; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := models.Point{Longitude: parkCenter.Longitude + float64(i)*0.00001, Latitude: parkCenter.Latitude}
			if _, err := f.processor.ProcessLocation(context.Background(), sampleAt(tourist.ID, p)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	// Проверки
	for err := range errs {
		require.NoError(t, err)
	}
	stored, err := f.touristRepo.GetByID(context.Background(), tourist.ID)
	require.NoError(t, err)
	require.Len(t, published, samples)

	// история хранит последние точки в порядке фиксации
	items := stored.History.Items()
	require.Len(t, items, models.HistoryCapacity)
	for i, item := range items {
		assert.Equal(t, published[samples-models.HistoryCapacity+i], item.Longitude)
	}

	// текущая позиция - последняя зафиксированная точка
	require.NotNil(t, stored.CurrentLocation)
	assert.Equal(t, published[samples-1], stored.CurrentLocation.Longitude)
	assert.Equal(t, items[len(items)-1], *stored.CurrentLocation)

	seen := make(map[float64]bool, samples)
	for _, lon := range published {
		assert.False(t, seen[lon], "location %v committed twice", lon)
		seen[lon] = true
	}
}

func TestProcessLocation_PublishFailureReportedNotReturned(t *testing.T) {
	// Подготовка
	f := newFixture(t)
	ctx := context.Background()
	f.allowDispatch()
	tourist := f.addTourist(nil)

	// Ожидания
	f.broadcaster.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(errors.New("redis: connection refused"))

	// Действие
	result, err := f.processor.ProcessLocation(ctx, sampleAt(tourist.ID, marketCenter))

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, result.Alert)
	assert.Equal(t, models.SeverityHigh, result.Alert.Severity)
	assert.Contains(t, result.AlertError, "publish location update")

	stored, err := f.touristRepo.GetByID(ctx, tourist.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentLocation)
	assert.Equal(t, "Old Market", stored.CurrentLocation.ZoneName)
}

func TestProcessLocation_AlertFailureKeepsLocation(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	ctx := context.Background()
	engineMock := mocks.NewMockAlertEngine(ctrl)
	f.processor.alerts = engineMock
	tourist := f.addTourist(nil)

	// Ожидания
	engineMock.EXPECT().
		CreateAlert(gomock.Any(), gomock.Any()).
		Return(nil, false, apperror.Dependency(errors.New("timeout"), "could not create alert"))
	f.broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	// Действие
	result, err := f.processor.ProcessLocation(ctx, sampleAt(tourist.ID, borderCenter))

	// Проверки
	require.NoError(t, err)
	assert.Nil(t, result.Alert)
	assert.Contains(t, result.AlertError, "could not create alert")
	stored, err := f.touristRepo.GetByID(ctx, tourist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Border", stored.CurrentLocation.ZoneName)
}

func TestSafetyReport_NightInactiveHighRisk(t *testing.T) {
	// Подготовка
	f := newFixture(t)
	evening := time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)
	tourist := f.addTourist(locationAt(marketCenter, evening))
	f.clock.Set(time.Date(2026, 7, 1, 23, 0, 0, 0, time.UTC))

	// Действие
	report, err := f.processor.SafetyReport(context.Background(), tourist.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 30, report.SafetyScore)
	assert.Equal(t, []string{
		"Low safety status - attention required",
		"Extended inactivity period",
		"Night time travel",
	}, report.Factors)
	assert.Equal(t, models.TripActive, report.TripStatus)
	require.Len(t, report.Zones, 1)
	assert.Equal(t, "Old Market", report.Zones[0].Zone.Name)

	stored, err := f.touristRepo.GetByID(context.Background(), tourist.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.SafetyScore)
	// отчет не считается активностью
	assert.Equal(t, evening, stored.LastActivity)
}

func TestSafetyReport_NoLocation(t *testing.T) {
	f := newFixture(t)
	tourist := f.addTourist(nil)

	report, err := f.processor.SafetyReport(context.Background(), tourist.ID)

	require.NoError(t, err)
	assert.Equal(t, 100, report.SafetyScore)
	assert.Equal(t, []string{"Good safety status"}, report.Factors)
	assert.NotNil(t, report.Zones)
	assert.Empty(t, report.Zones)
}

func TestListTouristAlerts_Limit(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	engineMock := mocks.NewMockAlertEngine(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	processor := NewLocationProcessor(nil, nil, nil, engineMock, nil, nil, logger, testConfig())
	touristID := uuid.New()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: 20},
		{name: "explicit", limit: 5, want: 5},
		{name: "capped", limit: 500, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Ожидания
			engineMock.EXPECT().
				ListAlerts(gomock.Any(), models.AlertFilter{TouristID: &touristID, Limit: tt.want}).
				Return([]*models.Alert{}, nil)

			// Действие
			alerts, err := processor.ListTouristAlerts(context.Background(), touristID, tt.limit)

			// Проверки
			require.NoError(t, err)
			assert.Empty(t, alerts)
		})
	}
}

func TestCheckInactivity(t *testing.T) {
	// Подготовка
	f := newFixture(t)
	ctx := context.Background()
	f.allowDispatch()

	quiet := f.addTourist(locationAt(parkCenter, noon.Add(-7*time.Hour)))
	silent := f.addTourist(locationAt(parkCenter, noon.Add(-13*time.Hour)))
	fresh := f.addTourist(locationAt(parkCenter, noon.Add(-time.Hour)))

	f.clock.Set(noon.Add(-8 * time.Hour))
	unknown := f.addTourist(nil)
	finished := f.addTourist(locationAt(parkCenter, noon.Add(-8*time.Hour)))
	_, err := f.touristRepo.Update(ctx, finished.ID, func(t *models.Tourist) error {
		t.Trip.EndDate = noon.Add(-time.Hour)
		return nil
	})
	require.NoError(t, err)
	f.clock.Set(noon)

	// Действие
	created, err := f.processor.CheckInactivity(ctx, noon)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	byTourist := func(id uuid.UUID) []*models.Alert {
		alerts, err := f.alertRepo.List(ctx, models.AlertFilter{TouristID: &id})
		require.NoError(t, err)
		return alerts
	}
	quietAlerts := byTourist(quiet.ID)
	require.Len(t, quietAlerts, 1)
	assert.Equal(t, models.AlertInactivity, quietAlerts[0].Type)
	assert.Equal(t, models.SeverityMedium, quietAlerts[0].Severity)
	assert.Equal(t, "No activity for 7h0m0s", quietAlerts[0].Details.Message)

	silentAlerts := byTourist(silent.ID)
	require.Len(t, silentAlerts, 1)
	assert.Equal(t, models.SeverityHigh, silentAlerts[0].Severity)

	assert.Empty(t, byTourist(fresh.ID))
	assert.Empty(t, byTourist(unknown.ID))
	assert.Empty(t, byTourist(finished.ID))

	// повторный проход не дублирует активные тревоги
	created, err = f.processor.CheckInactivity(ctx, noon.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, byTourist(quiet.ID), 1)
}

func TestCheckInactivity_ContinuesAfterFailure(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	touristMock := mocks.NewMockTouristRepository(ctrl)
	engineMock := mocks.NewMockAlertEngine(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	processor := NewLocationProcessor(touristMock, nil, nil, engineMock, nil, nil, logger, testConfig())

	mk := func() *models.Tourist {
		return &models.Tourist{
			ID:              uuid.New(),
			Trip:            models.TripWindow{StartDate: noon.AddDate(0, 0, -1), EndDate: noon.AddDate(0, 0, 1)},
			CurrentLocation: locationAt(parkCenter, noon.Add(-7*time.Hour)),
			LastActivity:    noon.Add(-7 * time.Hour),
			IsActive:        true,
		}
	}
	first, second := mk(), mk()

	// Ожидания
	touristMock.EXPECT().ListInactive(gomock.Any(), noon.Add(-6*time.Hour)).Return([]*models.Tourist{first, second}, nil)
	gomock.InOrder(
		engineMock.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("boom")),
		engineMock.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Return(&models.Alert{}, true, nil),
	)

	// Действие
	created, err := processor.CheckInactivity(context.Background(), noon)

	// Проверки
	assert.Equal(t, 1, created)
	assert.ErrorContains(t, err, "boom")
}
