package geo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	zones []*models.Zone
	err   error
}

func (s staticSource) ListZones(_ context.Context, _ bool) ([]*models.Zone, error) {
	return s.zones, s.err
}

func newTestIndex(t *testing.T, zones ...*models.Zone) *Index {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	idx := NewIndex(logger, time.UTC)
	require.NoError(t, idx.Load(context.Background(), staticSource{zones: zones}))
	return idx
}

func zoneAt(name string, risk models.RiskLevel, lon, lat float64) *models.Zone {
	return &models.Zone{
		Name:      name,
		RiskLevel: risk,
		Center:    &models.Point{Longitude: lon, Latitude: lat},
		IsActive:  true,
	}
}

// ~0.009 градуса широты ≈ 1 км
const kmLat = 0.008983

var noon = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestDistance(t *testing.T) {
	a := models.Point{Longitude: 0, Latitude: 0}
	b := models.Point{Longitude: 0, Latitude: 1}

	assert.InDelta(t, 111319.5, Distance(a, b), 1)
	assert.Zero(t, Distance(a, a))
}

func TestZonesContaining_RestrictedCenterIsContained(t *testing.T) {
	idx := newTestIndex(t, zoneAt("Border", models.RiskRestricted, 91.7, 26.1))

	matches := idx.ZonesContaining(91.7, 26.1+0.4*kmLat, noon, true)

	require.Len(t, matches, 1)
	assert.Equal(t, "Border", matches[0].Zone.Name)
	assert.Equal(t, models.RiskRestricted, matches[0].EffectiveRisk)
	assert.Less(t, matches[0].DistanceMeters, 500.0)
}

func TestZonesContaining_RadiusByRiskTier(t *testing.T) {
	idx := newTestIndex(t,
		zoneAt("restricted", models.RiskRestricted, 0, 0),
		zoneAt("high", models.RiskHigh, 0, 0),
		zoneAt("medium", models.RiskMedium, 0, 0),
		zoneAt("safe", models.RiskSafe, 0, 0),
	)

	names := func(lat float64) []string {
		var out []string
		for _, m := range idx.ZonesContaining(0, lat, noon, true) {
			out = append(out, m.Zone.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"restricted", "high", "medium", "safe"}, names(0.4*kmLat))
	assert.ElementsMatch(t, []string{"high", "medium", "safe"}, names(0.8*kmLat))
	assert.ElementsMatch(t, []string{"medium", "safe"}, names(1.5*kmLat))
	assert.ElementsMatch(t, []string{"safe"}, names(4*kmLat))
	assert.Empty(t, names(6*kmLat))
}

func TestZonesContaining_OrderedByDistance(t *testing.T) {
	idx := newTestIndex(t,
		zoneAt("far", models.RiskSafe, 0, 2*kmLat),
		zoneAt("near", models.RiskSafe, 0, 0.5*kmLat),
		zoneAt("mid", models.RiskSafe, 0, 1*kmLat),
	)

	matches := idx.ZonesContaining(0, 0, noon, true)

	require.Len(t, matches, 3)
	assert.Equal(t, "near", matches[0].Zone.Name)
	assert.Equal(t, "mid", matches[1].Zone.Name)
	assert.Equal(t, "far", matches[2].Zone.Name)
}

func TestZonesContaining_SkipsZonesWithoutCenterAndInactive(t *testing.T) {
	noCenter := zoneAt("no-center", models.RiskHigh, 0, 0)
	noCenter.Center = nil
	inactive := zoneAt("inactive", models.RiskHigh, 0, 0)
	inactive.IsActive = false

	idx := newTestIndex(t, noCenter, inactive, zoneAt("ok", models.RiskHigh, 0, 0))

	matches := idx.ZonesContaining(0, 0, noon, true)
	require.Len(t, matches, 1)
	assert.Equal(t, "ok", matches[0].Zone.Name)

	assert.Len(t, idx.ZonesContaining(0, 0, noon, false), 2)
}

func TestZonesContaining_TimeWindowElevatesRisk(t *testing.T) {
	z := zoneAt("Market", models.RiskMedium, 0, 0)
	z.Restriction = &models.TimeWindow{Start: "20:00", End: "06:00"}
	idx := newTestIndex(t, z)

	night := time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC)
	matches := idx.ZonesContaining(0, 0, night, true)
	require.Len(t, matches, 1)
	assert.Equal(t, models.RiskHigh, matches[0].EffectiveRisk)
	assert.True(t, matches[0].TimeRestricted)

	matches = idx.ZonesContaining(0, 0, noon, true)
	require.Len(t, matches, 1)
	assert.Equal(t, models.RiskMedium, matches[0].EffectiveRisk)
}

func TestNearbyZones(t *testing.T) {
	idx := newTestIndex(t,
		zoneAt("a", models.RiskRestricted, 0, 3*kmLat),
		zoneAt("b", models.RiskRestricted, 0, 1*kmLat),
		zoneAt("c", models.RiskRestricted, 0, 10*kmLat),
	)

	matches := idx.NearbyZones(0, 0, 5000, noon)

	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].Zone.Name)
	assert.Equal(t, "a", matches[1].Zone.Name)

	nearest, ok := idx.Nearest(0, 0, 1500, noon)
	require.True(t, ok)
	assert.Equal(t, "b", nearest.Zone.Name)

	_, ok = idx.Nearest(0, 0, 500, noon)
	assert.False(t, ok)
}

func TestSetRiskLevel_DoesNotMutateSnapshots(t *testing.T) {
	idx := newTestIndex(t, zoneAt("Fort", models.RiskMedium, 0, 0))
	before, _ := idx.Zone("Fort")

	require.NoError(t, idx.SetRiskLevel("Fort", models.RiskRestricted))

	after, _ := idx.Zone("Fort")
	assert.Equal(t, models.RiskMedium, before.RiskLevel)
	assert.Equal(t, models.RiskRestricted, after.RiskLevel)

	err := idx.SetRiskLevel("missing", models.RiskHigh)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestLoad_SourceError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	idx := NewIndex(logger, time.UTC)

	err := idx.Load(context.Background(), staticSource{err: errors.New("db down")})

	require.Error(t, err)
	assert.ErrorContains(t, err, "could not load zones")
	assert.Empty(t, idx.Zones(false))
}

func TestHighestRisk(t *testing.T) {
	matches := []models.ZoneMatch{
		{EffectiveRisk: models.RiskMedium},
		{EffectiveRisk: models.RiskRestricted},
		{EffectiveRisk: models.RiskHigh},
	}
	assert.Equal(t, models.RiskRestricted, HighestRisk(matches))
	assert.Equal(t, models.RiskSafe, HighestRisk(nil))
}
