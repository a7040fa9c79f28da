package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/repository/memory"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var lakeCenter = models.Point{Longitude: 92.00, Latitude: 26.20}

func newZoneFixture(t *testing.T) (*zoneService, *memory.ZoneRepository, *testClock) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	repo := memory.NewZoneRepository(memory.NewStore())
	index := geo.NewIndex(logger, time.UTC)
	require.NoError(t, index.Load(context.Background(), repo))

	clock := &testClock{now: noon}
	svc := NewZoneService(repo, index, logger).(*zoneService)
	svc.now = clock.Now
	return svc, repo, clock
}

func lakeZone() *models.Zone {
	return &models.Zone{
		Name:        "Lake Shore",
		RiskLevel:   models.RiskMedium,
		Boundary:    squareAround(lakeCenter),
		Restriction: &models.TimeWindow{Start: "20:00", End: "06:00", Description: "No swimming after dark"},
	}
}

func TestCreateZone(t *testing.T) {
	// Подготовка
	svc, repo, _ := newZoneFixture(t)
	ctx := context.Background()

	// Действие
	zone, err := svc.CreateZone(ctx, lakeZone())

	// Проверки
	require.NoError(t, err)
	assert.NotEmpty(t, zone.ID)
	assert.True(t, zone.IsActive)
	assert.Equal(t, noon, zone.CreatedAt)
	require.NotNil(t, zone.Center)
	assert.InDelta(t, lakeCenter.Longitude, zone.Center.Longitude, 1e-9)
	assert.InDelta(t, lakeCenter.Latitude, zone.Center.Latitude, 1e-9)

	stored, err := repo.GetByName(ctx, "Lake Shore")
	require.NoError(t, err)
	assert.Equal(t, zone.ID, stored.ID)

	zones, err := svc.ListZones(ctx, true)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Lake Shore", zones[0].Name)
}

func TestCreateZone_Errors(t *testing.T) {
	svc, _, _ := newZoneFixture(t)
	ctx := context.Background()

	_, err := svc.CreateZone(ctx, &models.Zone{Name: "Broken", RiskLevel: models.RiskHigh, Boundary: squareAround(lakeCenter)[:2]})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.CreateZone(ctx, lakeZone())
	require.NoError(t, err)
	_, err = svc.CreateZone(ctx, lakeZone())
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestCheckLocation_TimeWindowElevatesRisk(t *testing.T) {
	// Подготовка
	svc, _, clock := newZoneFixture(t)
	ctx := context.Background()
	_, err := svc.CreateZone(ctx, lakeZone())
	require.NoError(t, err)

	// Действие + Проверки
	day, err := svc.CheckLocation(ctx, lakeCenter.Longitude, lakeCenter.Latitude)
	require.NoError(t, err)
	require.Len(t, day.Zones, 1)
	assert.Equal(t, models.RiskMedium, day.HighestRisk)
	assert.False(t, day.Zones[0].TimeRestricted)
	assert.True(t, day.IsInRiskZone)

	clock.Set(time.Date(2026, 7, 1, 21, 0, 0, 0, time.UTC))
	night, err := svc.CheckLocation(ctx, lakeCenter.Longitude, lakeCenter.Latitude)
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, night.HighestRisk)
	assert.True(t, night.Zones[0].TimeRestricted)

	outside, err := svc.CheckLocation(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, outside.Zones)
	assert.Equal(t, models.RiskSafe, outside.HighestRisk)
	assert.False(t, outside.IsInRiskZone)

	_, err = svc.CheckLocation(ctx, 181, 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestUpdateRiskLevel(t *testing.T) {
	svc, _, _ := newZoneFixture(t)
	ctx := context.Background()
	_, err := svc.CreateZone(ctx, lakeZone())
	require.NoError(t, err)

	zone, err := svc.UpdateRiskLevel(ctx, "Lake Shore", models.RiskRestricted)
	require.NoError(t, err)
	assert.Equal(t, models.RiskRestricted, zone.RiskLevel)

	check, err := svc.CheckLocation(ctx, lakeCenter.Longitude, lakeCenter.Latitude)
	require.NoError(t, err)
	assert.Equal(t, models.RiskRestricted, check.HighestRisk)

	_, err = svc.UpdateRiskLevel(ctx, "Lake Shore", "extreme")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	_, err = svc.UpdateRiskLevel(ctx, "Nowhere", models.RiskHigh)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDeactivateZone(t *testing.T) {
	svc, repo, _ := newZoneFixture(t)
	ctx := context.Background()
	_, err := svc.CreateZone(ctx, lakeZone())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateZone(ctx, "Lake Shore"))

	active, err := svc.ListZones(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.ListZones(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	check, err := svc.CheckLocation(ctx, lakeCenter.Longitude, lakeCenter.Latitude)
	require.NoError(t, err)
	assert.Empty(t, check.Zones)

	stored, err := repo.GetByName(ctx, "Lake Shore")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	assert.True(t, errors.Is(svc.DeactivateZone(ctx, "Nowhere"), apperror.ErrNotFound))
}

func TestNearbyZones(t *testing.T) {
	svc, _, _ := newZoneFixture(t)
	ctx := context.Background()
	_, err := svc.CreateZone(ctx, lakeZone())
	require.NoError(t, err)

	// ~2 км к северу от центра
	lat := lakeCenter.Latitude + 0.018
	matches, err := svc.NearbyZones(ctx, lakeCenter.Longitude, lat, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 2000, matches[0].DistanceMeters, 30)

	matches, err = svc.NearbyZones(ctx, lakeCenter.Longitude, lat, 1000)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCreateZone_RepositoryError(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockZoneRepository(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	index := geo.NewIndex(logger, time.UTC)
	svc := NewZoneService(repoMock, index, logger)

	// Ожидания
	repoMock.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(apperror.Dependency(errors.New("connection refused"), "could not create zone")).
		Times(1)

	// Действие
	zone, err := svc.CreateZone(context.Background(), lakeZone())

	// Проверки
	assert.Nil(t, zone)
	assert.True(t, errors.Is(err, apperror.ErrDependency))
	// неудачная запись не попадает в индекс
	assert.Empty(t, index.Zones(false))
}
