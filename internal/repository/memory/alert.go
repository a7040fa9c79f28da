package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

type AlertRepository struct {
	store *Store
}

func NewAlertRepository(store *Store) *AlertRepository {
	return &AlertRepository{store: store}
}

func (r *AlertRepository) Create(_ context.Context, alert *models.Alert) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.ID]; ok {
		return apperror.Conflict("alert %s already exists", alert.ID)
	}
	s.insertAlertLocked(alert)
	return nil
}

func (r *AlertRepository) CreateIfNoActive(_ context.Context, alert *models.Alert) (*models.Alert, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.activeByKey[alert.DedupKey()]; ok {
		return s.alerts[id].Clone(), false, nil
	}
	s.insertAlertLocked(alert)
	return alert.Clone(), true, nil
}

func (s *Store) insertAlertLocked(alert *models.Alert) {
	c := alert.Clone()
	s.alerts[c.ID] = c
	if key := c.DedupKey(); key != "" && c.Status == models.StatusActive {
		s.activeByKey[key] = c.ID
	}
}

func (r *AlertRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Alert, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, apperror.NotFound("alert %s not found", id)
	}
	return a.Clone(), nil
}

func (r *AlertRepository) Update(_ context.Context, id uuid.UUID, fn func(*models.Alert) error) (*models.Alert, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.alerts[id]
	if !ok {
		return nil, apperror.NotFound("alert %s not found", id)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.alerts[id] = next

	// ключ дедупликации держит только активная тревога
	if key := next.DedupKey(); key != "" && next.Status != models.StatusActive && s.activeByKey[key] == id {
		delete(s.activeByKey, key)
	}
	return next.Clone(), nil
}

func (r *AlertRepository) List(_ context.Context, filter models.AlertFilter) ([]*models.Alert, error) {
	s := r.store
	s.mu.Lock()
	out := make([]*models.Alert, 0)
	for _, a := range s.alerts {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.TouristID != nil && a.TouristID != *filter.TouristID {
			continue
		}
		out = append(out, a.Clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
