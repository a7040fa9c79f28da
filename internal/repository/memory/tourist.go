package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

type TouristRepository struct {
	store *Store
}

func NewTouristRepository(store *Store) *TouristRepository {
	return &TouristRepository{store: store}
}

func (r *TouristRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Tourist, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tourists[id]
	if !ok {
		return nil, apperror.NotFound("tourist %s not found", id)
	}
	return t.Clone(), nil
}

func (r *TouristRepository) Update(_ context.Context, id uuid.UUID, fn func(*models.Tourist) error) (*models.Tourist, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tourists[id]
	if !ok {
		return nil, apperror.NotFound("tourist %s not found", id)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.tourists[id] = next
	return next.Clone(), nil
}

func (r *TouristRepository) ListInactive(_ context.Context, cutoff time.Time) ([]*models.Tourist, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Tourist, 0)
	for _, t := range s.tourists {
		if t.IsActive && t.LastActivity.Before(cutoff) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}
