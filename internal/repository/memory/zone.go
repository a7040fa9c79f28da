package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

type ZoneRepository struct {
	store *Store
}

func NewZoneRepository(store *Store) *ZoneRepository {
	return &ZoneRepository{store: store}
}

func (r *ZoneRepository) Create(_ context.Context, zone *models.Zone) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.zones[zone.Name]; ok {
		return apperror.Conflict("zone %q already exists", zone.Name)
	}
	s.zones[zone.Name] = zone.Clone()
	return nil
}

func (r *ZoneRepository) ListZones(_ context.Context, activeOnly bool) ([]*models.Zone, error) {
	s := r.store
	s.mu.Lock()
	out := make([]*models.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		if activeOnly && !z.IsActive {
			continue
		}
		out = append(out, z.Clone())
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ZoneRepository) GetByName(_ context.Context, name string) (*models.Zone, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zones[name]
	if !ok {
		return nil, apperror.NotFound("zone %q not found", name)
	}
	return z.Clone(), nil
}

func (r *ZoneRepository) UpdateRiskLevel(_ context.Context, name string, level models.RiskLevel) (*models.Zone, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zones[name]
	if !ok {
		return nil, apperror.NotFound("zone %q not found", name)
	}
	next := z.Clone()
	next.RiskLevel = level
	next.UpdatedAt = time.Now()
	s.zones[name] = next
	return next.Clone(), nil
}

func (r *ZoneRepository) Deactivate(_ context.Context, name string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zones[name]
	if !ok {
		return apperror.NotFound("zone %q not found", name)
	}
	next := z.Clone()
	next.IsActive = false
	next.UpdatedAt = time.Now()
	s.zones[name] = next
	return nil
}
