package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/metrics"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTick_EscalatesOneLevelPerTick(t *testing.T) {
	// Подготовка
	f := newFixture(t)
	ctx := context.Background()
	events := f.allowDispatch()
	tourist := f.addTourist(locationAt(borderCenter, noon))
	alert, err := f.engine.TriggerSOS(ctx, tourist.ID, "", models.SeverityCritical)
	require.NoError(t, err)
	scheduler := NewEscalationScheduler(f.engine, f.processor, metrics.New(), f.logger, f.cfg)

	levelAt := func(at time.Time) int {
		require.NoError(t, scheduler.Tick(ctx, at))
		stored, err := f.alertRepo.GetByID(ctx, alert.ID)
		require.NoError(t, err)
		return stored.Escalation.Level
	}

	// Действие + Проверки
	assert.Equal(t, 1, levelAt(noon.Add(4*time.Minute)))
	assert.Equal(t, 2, levelAt(noon.Add(6*time.Minute)))
	assert.Equal(t, 3, levelAt(noon.Add(7*time.Minute)))
	assert.Equal(t, 3, levelAt(noon.Add(8*time.Minute)))

	escalations := 0
	for _, ev := range events.all() {
		if ev.Type == models.EventAlertEscalated {
			escalations++
		}
	}
	assert.Equal(t, 2, escalations)
}

func TestTick_AcknowledgedAlertIsNotEscalated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.allowDispatch()
	tourist := f.addTourist(locationAt(borderCenter, noon))
	alert, err := f.engine.TriggerSOS(ctx, tourist.ID, "", "")
	require.NoError(t, err)
	f.clock.Set(noon.Add(2 * time.Minute))
	_, err = f.engine.Acknowledge(ctx, alert.ID, uuid.New())
	require.NoError(t, err)

	scheduler := NewEscalationScheduler(f.engine, f.processor, nil, f.logger, f.cfg)
	require.NoError(t, scheduler.Tick(ctx, noon.Add(time.Hour)))

	stored, err := f.alertRepo.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Escalation.Level)
}

func TestTick_FailureDoesNotStopSweep(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	engineMock := mocks.NewMockAlertEngine(ctrl)
	locationsMock := mocks.NewMockLocationProcessor(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	scheduler := NewEscalationScheduler(engineMock, locationsMock, nil, logger, testConfig())
	broken := &models.Alert{ID: uuid.New()}
	healthy := &models.Alert{ID: uuid.New()}
	calm := &models.Alert{ID: uuid.New()}
	at := noon.Add(time.Hour)

	// Ожидания
	engineMock.EXPECT().
		ListAlerts(gomock.Any(), models.AlertFilter{Status: models.StatusActive}).
		Return([]*models.Alert{broken, calm, healthy}, nil)
	engineMock.EXPECT().CheckEscalation(broken, at).Return(true)
	engineMock.EXPECT().CheckEscalation(calm, at).Return(false)
	engineMock.EXPECT().CheckEscalation(healthy, at).Return(true)
	engineMock.EXPECT().Escalate(gomock.Any(), broken.ID, at).Return(nil, false, errors.New("row locked"))
	engineMock.EXPECT().Escalate(gomock.Any(), healthy.ID, at).Return(healthy, true, nil)
	locationsMock.EXPECT().CheckInactivity(gomock.Any(), at).Return(0, nil)

	// Действие
	err := scheduler.Tick(context.Background(), at)

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "row locked")
}

func TestTick_ListFailureStillChecksInactivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	engineMock := mocks.NewMockAlertEngine(ctrl)
	locationsMock := mocks.NewMockLocationProcessor(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	scheduler := NewEscalationScheduler(engineMock, locationsMock, nil, logger, testConfig())

	engineMock.EXPECT().ListAlerts(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	locationsMock.EXPECT().CheckInactivity(gomock.Any(), noon).Return(3, nil)

	err := scheduler.Tick(context.Background(), noon)

	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_StartStop(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	engineMock := mocks.NewMockAlertEngine(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	cfg := testConfig()
	cfg.EscalationInterval = time.Second
	scheduler := NewEscalationScheduler(engineMock, nil, nil, logger, cfg)

	ticked := make(chan struct{}, 1)
	engineMock.EXPECT().
		ListAlerts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.AlertFilter) ([]*models.Alert, error) {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return nil, nil
		}).
		MinTimes(1)

	// Действие
	require.NoError(t, scheduler.Start(context.Background()))
	assert.Error(t, scheduler.Start(context.Background()))

	// Проверки
	select {
	case <-ticked:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not tick")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	scheduler.Stop(stopCtx)
	// повторная остановка безопасна
	scheduler.Stop(stopCtx)
}
