package service

//go:generate mockgen -source=authority.go -destination=mocks/mock_authority.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// AuthorityRepository определяет контракт хранилища сотрудников
type AuthorityRepository interface {
	Create(ctx context.Context, authority *models.Authority) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Authority, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*models.Authority) error) (*models.Authority, error)
	// FindNearbyOnDuty возвращает сотрудников на дежурстве в радиусе, по убыванию рейтинга
	FindNearbyOnDuty(ctx context.Context, point models.Point, radiusMeters float64) ([]*models.Authority, error)
}

// AuthorityService определяет контракт управления сотрудниками
type AuthorityService interface {
	RegisterAuthority(ctx context.Context, draft *models.Authority) (*models.Authority, error)
	GetAuthority(ctx context.Context, id uuid.UUID) (*models.Authority, error)
	UpdateDuty(ctx context.Context, id uuid.UUID, onDuty bool, position *models.Point) (*models.Authority, error)
}

type authorityService struct {
	repo   AuthorityRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewAuthorityService(repo AuthorityRepository, logger *logrus.Logger) AuthorityService {
	return &authorityService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterAuthority создает сотрудника; права по умолчанию берутся по ведомству
func (s *authorityService) RegisterAuthority(ctx context.Context, draft *models.Authority) (*models.Authority, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "authority",
		"method":     "RegisterAuthority",
		"badge":      draft.BadgeNumber,
		"department": draft.Department,
	})
	log.Info("Attempting to register authority")

	authority, err := models.NewAuthority(draft.BadgeNumber, draft.Name, draft.Phone, draft.Department, draft.Station, draft.Permissions, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, authority); err != nil {
		log.WithError(err).Error("Failed to create authority in repository")
		return nil, fmt.Errorf("service: could not register authority: %w", err)
	}

	log.WithField("authority_id", authority.ID).Info("Authority registered successfully")
	return authority, nil
}

// GetAuthority получает сотрудника по ID
func (s *authorityService) GetAuthority(ctx context.Context, id uuid.UUID) (*models.Authority, error) {
	authority, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get authority: %w", err)
	}
	return authority, nil
}

// UpdateDuty меняет статус дежурства и, если передана, текущую позицию
func (s *authorityService) UpdateDuty(ctx context.Context, id uuid.UUID, onDuty bool, position *models.Point) (*models.Authority, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "authority",
		"method":       "UpdateDuty",
		"authority_id": id,
		"on_duty":      onDuty,
	})

	if position != nil {
		if err := position.Validate(); err != nil {
			return nil, err
		}
	}
	now := s.now()
	authority, err := s.repo.Update(ctx, id, func(a *models.Authority) error {
		a.IsOnDuty = onDuty
		if position != nil {
			p := *position
			a.CurrentLocation = &p
		}
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to update duty status")
		return nil, fmt.Errorf("service: could not update duty status: %w", err)
	}

	log.Info("Duty status updated")
	return authority, nil
}
