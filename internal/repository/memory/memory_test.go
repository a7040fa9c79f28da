package memory_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/repository/memory"
	"github.com/shenikar/tourist_safety_system/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ service.AlertRepository     = (*memory.AlertRepository)(nil)
	_ service.TouristRepository   = (*memory.TouristRepository)(nil)
	_ service.ZoneRepository      = (*memory.ZoneRepository)(nil)
	_ service.AuthorityRepository = (*memory.AuthorityRepository)(nil)
)

func geofenceAlert(touristID uuid.UUID, zone string) *models.Alert {
	now := time.Now()
	return &models.Alert{
		ID:        uuid.New(),
		TouristID: touristID,
		Type:      models.AlertGeofence,
		Severity:  models.SeverityHigh,
		Status:    models.StatusActive,
		Location:  models.AlertLocation{ZoneName: zone},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateIfNoActive_Deduplicates(t *testing.T) {
	repo := memory.NewAlertRepository(memory.NewStore())
	ctx := context.Background()
	tourist := uuid.New()

	first, created, err := repo.CreateIfNoActive(ctx, geofenceAlert(tourist, "Fort"))
	require.NoError(t, err)
	require.True(t, created)

	dup, created, err := repo.CreateIfNoActive(ctx, geofenceAlert(tourist, "Fort"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, dup.ID)

	_, created, err = repo.CreateIfNoActive(ctx, geofenceAlert(tourist, "Market"))
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateIfNoActive_ReleasedAfterAcknowledge(t *testing.T) {
	repo := memory.NewAlertRepository(memory.NewStore())
	ctx := context.Background()
	tourist := uuid.New()

	first, _, err := repo.CreateIfNoActive(ctx, geofenceAlert(tourist, "Fort"))
	require.NoError(t, err)

	_, err = repo.Update(ctx, first.ID, func(a *models.Alert) error {
		return a.Acknowledge(uuid.New(), time.Now())
	})
	require.NoError(t, err)

	second, created, err := repo.CreateIfNoActive(ctx, geofenceAlert(tourist, "Fort"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAlertUpdate_ErrorLeavesRecordUntouched(t *testing.T) {
	repo := memory.NewAlertRepository(memory.NewStore())
	ctx := context.Background()
	a := geofenceAlert(uuid.New(), "Fort")
	require.NoError(t, repo.Create(ctx, a))

	_, err := repo.Update(ctx, a.ID, func(a *models.Alert) error {
		a.Status = models.StatusResolved
		return errors.New("rejected")
	})
	require.Error(t, err)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)

	_, err = repo.Update(ctx, uuid.New(), func(*models.Alert) error { return nil })
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestAlertUpdate_ConcurrentEscalationIsAtomic(t *testing.T) {
	repo := memory.NewAlertRepository(memory.NewStore())
	ctx := context.Background()
	a := geofenceAlert(uuid.New(), "Fort")
	a.Escalation = models.Escalation{Level: 1, MaxLevel: 100}
	require.NoError(t, repo.Create(ctx, a))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, a.ID, func(a *models.Alert) error {
				a.Escalate(time.Now())
				return nil
			})
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 51, stored.Escalation.Level)
	assert.Len(t, stored.Escalation.EscalatedAt, 50)
}

func TestAlertList_FilterAndOrder(t *testing.T) {
	repo := memory.NewAlertRepository(memory.NewStore())
	ctx := context.Background()
	tourist := uuid.New()
	base := time.Now()

	for i := 0; i < 3; i++ {
		a := geofenceAlert(tourist, "zone")
		a.Type = models.AlertSOS
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, a))
	}
	other := geofenceAlert(uuid.New(), "zone")
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.List(ctx, models.AlertFilter{TouristID: &tourist, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	all, err := repo.List(ctx, models.AlertFilter{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTouristRepository(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewTouristRepository(store)
	ctx := context.Background()
	now := time.Now()

	active := &models.Tourist{ID: uuid.New(), IsActive: true, LastActivity: now.Add(-8 * time.Hour)}
	fresh := &models.Tourist{ID: uuid.New(), IsActive: true, LastActivity: now}
	disabled := &models.Tourist{ID: uuid.New(), IsActive: false, LastActivity: now.Add(-8 * time.Hour)}
	store.AddTourist(active)
	store.AddTourist(fresh)
	store.AddTourist(disabled)

	inactive, err := repo.ListInactive(ctx, now.Add(-6*time.Hour))
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, active.ID, inactive[0].ID)

	updated, err := repo.Update(ctx, fresh.ID, func(t *models.Tourist) error {
		t.SafetyScore = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.SafetyScore)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestZoneRepository(t *testing.T) {
	repo := memory.NewZoneRepository(memory.NewStore())
	ctx := context.Background()
	z := &models.Zone{Name: "Fort", RiskLevel: models.RiskMedium, IsActive: true}

	require.NoError(t, repo.Create(ctx, z))
	assert.True(t, errors.Is(repo.Create(ctx, z), apperror.ErrConflict))

	updated, err := repo.UpdateRiskLevel(ctx, "Fort", models.RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, updated.RiskLevel)

	require.NoError(t, repo.Deactivate(ctx, "Fort"))
	active, err := repo.ListZones(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.True(t, errors.Is(repo.Deactivate(ctx, "nope"), apperror.ErrNotFound))
}

func TestAuthorityRepository_FindNearbyOnDuty(t *testing.T) {
	repo := memory.NewAuthorityRepository(memory.NewStore())
	ctx := context.Background()
	origin := models.Point{Longitude: 91.88, Latitude: 25.57}

	mk := func(badge string, onDuty bool, lat, rating float64) *models.Authority {
		a, err := models.NewAuthority(badge, badge, "", models.DepartmentPolice, "", nil, time.Now())
		require.NoError(t, err)
		a.IsOnDuty = onDuty
		a.CurrentLocation = &models.Point{Longitude: origin.Longitude, Latitude: lat}
		a.Stats.Rating = rating
		require.NoError(t, repo.Create(ctx, a))
		return a
	}
	low := mk("B-1", true, origin.Latitude+0.01, 3)
	high := mk("B-2", true, origin.Latitude+0.02, 4.5)
	mk("B-3", false, origin.Latitude, 5)
	mk("B-4", true, origin.Latitude+1, 5)

	found, err := repo.FindNearbyOnDuty(ctx, origin, 5000)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, high.ID, found[0].ID)
	assert.Equal(t, low.ID, found[1].ID)

	dup, _ := models.NewAuthority("B-1", "dup", "", models.DepartmentPolice, "", nil, time.Now())
	assert.True(t, errors.Is(repo.Create(ctx, dup), apperror.ErrConflict))
}

func TestLoadSeed(t *testing.T) {
	store := memory.NewStore()
	seed := `{
		"tourists": [{"id": "6f1c2d8e-0000-4000-8000-000000000001", "name": "Asha", "is_active": true}],
		"zones": [{"name": "Fort", "risk_level": "high", "is_active": true,
			"boundary": [{"longitude": 0, "latitude": 0}, {"longitude": 0, "latitude": 2},
				{"longitude": 2, "latitude": 2}, {"longitude": 0, "latitude": 0}]}],
		"authorities": []
	}`

	loaded, err := store.LoadSeed(strings.NewReader(seed))
	require.NoError(t, err)
	assert.Len(t, loaded.Zones, 1)

	zone, err := memory.NewZoneRepository(store).GetByName(context.Background(), "Fort")
	require.NoError(t, err)
	require.NotNil(t, zone.Center)

	tourist, err := memory.NewTouristRepository(store).GetByID(context.Background(), uuid.MustParse("6f1c2d8e-0000-4000-8000-000000000001"))
	require.NoError(t, err)
	assert.Equal(t, "Asha", tourist.Name)
	assert.NotNil(t, tourist.History)

	_, err = store.LoadSeed(strings.NewReader(`{"zones": [{"name": "bad", "risk_level": "high"}]}`))
	assert.Error(t, err)
}
