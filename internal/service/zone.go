package service

//go:generate mockgen -source=zone.go -destination=mocks/mock_zone.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ZoneRepository определяет контракт хранилища зон
type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	ListZones(ctx context.Context, activeOnly bool) ([]*models.Zone, error)
	GetByName(ctx context.Context, name string) (*models.Zone, error)
	UpdateRiskLevel(ctx context.Context, name string, level models.RiskLevel) (*models.Zone, error)
	Deactivate(ctx context.Context, name string) error
}

// ZoneService определяет контракт управления зонами риска
type ZoneService interface {
	CreateZone(ctx context.Context, zone *models.Zone) (*models.Zone, error)
	UpdateRiskLevel(ctx context.Context, name string, level models.RiskLevel) (*models.Zone, error)
	DeactivateZone(ctx context.Context, name string) error
	ListZones(ctx context.Context, activeOnly bool) ([]*models.Zone, error)
	NearbyZones(ctx context.Context, lon, lat, radiusMeters float64) ([]models.ZoneMatch, error)
	CheckLocation(ctx context.Context, lon, lat float64) (*models.LocationCheck, error)
}

// DefaultNearbyRadiusMeters - радиус поиска зон поблизости по умолчанию
const DefaultNearbyRadiusMeters = 5000

type zoneService struct {
	repo   ZoneRepository
	index  *geo.Index
	logger *logrus.Logger
	now    func() time.Time
}

// NewZoneService - индекс обновляется вместе с хранилищем, чтение идет из индекса
func NewZoneService(repo ZoneRepository, index *geo.Index, logger *logrus.Logger) ZoneService {
	return &zoneService{
		repo:   repo,
		index:  index,
		logger: logger,
		now:    time.Now,
	}
}

// CreateZone проверяет и сохраняет зону; центр вычисляется по границе, если не задан
func (s *zoneService) CreateZone(ctx context.Context, zone *models.Zone) (*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "CreateZone",
		"name":    zone.Name,
	})
	log.Info("Attempting to create a new zone")

	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if zone.Center == nil {
		center := models.Centroid(zone.Boundary)
		zone.Center = &center
	}
	now := s.now()
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	zone.IsActive = true
	zone.CreatedAt = now
	zone.UpdatedAt = now

	if err := s.repo.Create(ctx, zone); err != nil {
		log.WithError(err).Error("Failed to create zone in repository")
		return nil, fmt.Errorf("service: could not create zone: %w", err)
	}
	s.index.Upsert(zone)

	log.WithField("zone_id", zone.ID).Info("Zone created successfully")
	return zone, nil
}

// UpdateRiskLevel меняет базовый уровень риска
func (s *zoneService) UpdateRiskLevel(ctx context.Context, name string, level models.RiskLevel) (*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "zone",
		"method":     "UpdateRiskLevel",
		"name":       name,
		"risk_level": level,
	})

	if _, err := models.ParseRiskLevel(string(level)); err != nil {
		return nil, err
	}
	zone, err := s.repo.UpdateRiskLevel(ctx, name, level)
	if err != nil {
		log.WithError(err).Error("Failed to update zone risk level")
		return nil, fmt.Errorf("service: could not update zone risk level: %w", err)
	}
	s.index.Upsert(zone)

	log.Info("Zone risk level updated")
	return zone, nil
}

// DeactivateZone выводит зону из проверок
func (s *zoneService) DeactivateZone(ctx context.Context, name string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "DeactivateZone",
		"name":    name,
	})

	if err := s.repo.Deactivate(ctx, name); err != nil {
		log.WithError(err).Error("Failed to deactivate zone")
		return fmt.Errorf("service: could not deactivate zone: %w", err)
	}
	if err := s.index.Deactivate(name); err != nil {
		// индекс мог быть загружен до создания зоны другим экземпляром
		log.WithError(err).Warn("Zone missing from index")
	}

	log.Info("Zone deactivated")
	return nil
}

// ListZones возвращает зоны из индекса
func (s *zoneService) ListZones(_ context.Context, activeOnly bool) ([]*models.Zone, error) {
	return s.index.Zones(activeOnly), nil
}

// NearbyZones возвращает активные зоны в радиусе, по возрастанию расстояния
func (s *zoneService) NearbyZones(_ context.Context, lon, lat, radiusMeters float64) ([]models.ZoneMatch, error) {
	if err := (models.Point{Longitude: lon, Latitude: lat}).Validate(); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadiusMeters
	}
	return s.index.NearbyZones(lon, lat, radiusMeters, s.now()), nil
}

// CheckLocation возвращает зоны, содержащие точку, и наибольший эффективный риск
func (s *zoneService) CheckLocation(_ context.Context, lon, lat float64) (*models.LocationCheck, error) {
	point := models.Point{Longitude: lon, Latitude: lat}
	if err := point.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	matches := s.index.ZonesContaining(lon, lat, now, true)
	highest := geo.HighestRisk(matches)

	return &models.LocationCheck{
		Point:        point,
		Zones:        matches,
		HighestRisk:  highest,
		IsInRiskZone: highest.Rank() > models.RiskSafe.Rank(),
		CheckedAt:    now,
	}, nil
}
