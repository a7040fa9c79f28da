package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

type AuthorityRepository struct {
	store *Store
}

func NewAuthorityRepository(store *Store) *AuthorityRepository {
	return &AuthorityRepository{store: store}
}

func (r *AuthorityRepository) Create(_ context.Context, authority *models.Authority) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.authorities {
		if a.BadgeNumber == authority.BadgeNumber {
			return apperror.Conflict("badge number %q already registered", authority.BadgeNumber)
		}
	}
	s.authorities[authority.ID] = authority.Clone()
	return nil
}

func (r *AuthorityRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Authority, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorities[id]
	if !ok {
		return nil, apperror.NotFound("authority %s not found", id)
	}
	return a.Clone(), nil
}

func (r *AuthorityRepository) Update(_ context.Context, id uuid.UUID, fn func(*models.Authority) error) (*models.Authority, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.authorities[id]
	if !ok {
		return nil, apperror.NotFound("authority %s not found", id)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.authorities[id] = next
	return next.Clone(), nil
}

func (r *AuthorityRepository) FindNearbyOnDuty(_ context.Context, point models.Point, radiusMeters float64) ([]*models.Authority, error) {
	s := r.store
	s.mu.Lock()
	out := make([]*models.Authority, 0)
	for _, a := range s.authorities {
		if !a.IsActive || !a.IsOnDuty || a.CurrentLocation == nil {
			continue
		}
		if geo.Distance(point, *a.CurrentLocation) <= radiusMeters {
			out = append(out, a.Clone())
		}
	}
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.Rating > out[j].Stats.Rating })
	return out, nil
}
