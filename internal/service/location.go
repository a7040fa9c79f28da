package service

//go:generate mockgen -source=location.go -destination=mocks/mock_location.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	"github.com/shenikar/tourist_safety_system/internal/metrics"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/scoring"
	"github.com/sirupsen/logrus"
)

// TouristRepository определяет контракт хранилища туристов
type TouristRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tourist, error)
	// Update выполняет fn над актуальной копией записи и сохраняет результат атомарно
	Update(ctx context.Context, id uuid.UUID, fn func(*models.Tourist) error) (*models.Tourist, error)
	// ListInactive возвращает активных туристов, у которых последняя активность раньше cutoff
	ListInactive(ctx context.Context, cutoff time.Time) ([]*models.Tourist, error)
}

// Broadcaster публикует события для подписанных клиентов служб
type Broadcaster interface {
	Publish(ctx context.Context, event models.BroadcastEvent) error
}

// LocationProcessor определяет контракт приема геопозиций
type LocationProcessor interface {
	ProcessLocation(ctx context.Context, sample models.LocationSample) (*models.LocationResult, error)
	SafetyReport(ctx context.Context, touristID uuid.UUID) (*models.SafetyReport, error)
	ListTouristAlerts(ctx context.Context, touristID uuid.UUID, limit int) ([]*models.Alert, error)
	CheckInactivity(ctx context.Context, now time.Time) (int, error)
}

const (
	defaultTouristAlertsLimit = 20
	maxTouristAlertsLimit     = 100
)

type locationProcessor struct {
	tourists    TouristRepository
	zones       *geo.Index
	scorer      *scoring.Scorer
	alerts      AlertEngine
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *logrus.Logger
	cfg         *config.Config
	locks       *keyedMutex
	now         func() time.Time
}

func NewLocationProcessor(
	tourists TouristRepository,
	zones *geo.Index,
	scorer *scoring.Scorer,
	alerts AlertEngine,
	broadcaster Broadcaster,
	m *metrics.Metrics,
	logger *logrus.Logger,
	cfg *config.Config,
) LocationProcessor {
	return &locationProcessor{
		tourists:    tourists,
		zones:       zones,
		scorer:      scorer,
		alerts:      alerts,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
		cfg:         cfg,
		locks:       newKeyedMutex(),
		now:         time.Now,
	}
}

// ProcessLocation сохраняет новую позицию туриста, пересчитывает оценку,
// проверяет геозоны и публикует событие. Обработка точек одного туриста сериализована.
func (p *locationProcessor) ProcessLocation(ctx context.Context, sample models.LocationSample) (*models.LocationResult, error) {
	log := p.logger.WithFields(logrus.Fields{
		"service":    "location",
		"method":     "ProcessLocation",
		"tourist_id": sample.TouristID,
	})

	if sample.Longitude == nil || sample.Latitude == nil {
		return nil, apperror.Validation("longitude and latitude are required")
	}
	point := models.Point{Longitude: *sample.Longitude, Latitude: *sample.Latitude}
	if err := point.Validate(); err != nil {
		return nil, err
	}
	accuracy := models.DefaultAccuracyMeters
	if sample.Accuracy != nil {
		if *sample.Accuracy < 0 {
			return nil, apperror.Validation("accuracy must not be negative")
		}
		accuracy = *sample.Accuracy
	}

	unlock := p.locks.Lock(sample.TouristID.String())
	defer unlock()

	now := p.now()
	matches := p.zones.ZonesContaining(point.Longitude, point.Latitude, now, true)
	var zoneName string
	var zoneRisk models.RiskLevel
	if len(matches) > 0 {
		zoneName = matches[0].Zone.Name
		zoneRisk = matches[0].EffectiveRisk
	}

	loc := models.Location{
		Longitude: point.Longitude,
		Latitude:  point.Latitude,
		Accuracy:  accuracy,
		Timestamp: now,
		ZoneName:  zoneName,
	}
	tourist, err := p.tourists.Update(ctx, sample.TouristID, func(t *models.Tourist) error {
		t.RecordLocation(loc)
		t.SafetyScore = p.scorer.Score(t.LastActivity, zoneRisk, now)
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to update tourist location")
		return nil, fmt.Errorf("service: could not update tourist location: %w", err)
	}
	p.metrics.LocationProcessed(tourist.SafetyScore)
	log.WithFields(logrus.Fields{
		"safety_score": tourist.SafetyScore,
		"zone":         zoneName,
	}).Info("Location updated")

	result := &models.LocationResult{
		TouristID:   tourist.ID,
		Location:    loc,
		SafetyScore: tourist.SafetyScore,
		Zones:       matches,
	}

	// после фиксации позиции ошибки не откатывают обновление, а возвращаются в результате
	var afterCommit []error
	if alert, err := p.checkGeofence(ctx, tourist.ID, loc, matches); err != nil {
		log.WithError(err).Error("Geofence alert failed")
		afterCommit = append(afterCommit, err)
	} else {
		result.Alert = alert
	}

	if p.broadcaster != nil {
		score := tourist.SafetyScore
		event := models.BroadcastEvent{
			Type:      models.EventTouristLocationUpdated,
			TouristID: tourist.ID,
			Location: &models.AlertLocation{
				Longitude: loc.Longitude,
				Latitude:  loc.Latitude,
				Accuracy:  loc.Accuracy,
				ZoneName:  loc.ZoneName,
			},
			SafetyScore: &score,
			Timestamp:   now,
		}
		if err := p.broadcaster.Publish(ctx, event); err != nil {
			log.WithError(err).Warn("Failed to publish location update")
			afterCommit = append(afterCommit, fmt.Errorf("publish location update: %w", err))
		}
	}
	if len(afterCommit) > 0 {
		result.AlertError = errors.Join(afterCommit...).Error()
	}
	return result, nil
}

// checkGeofence создает тревогу по первой зоне с эффективным риском high или restricted
func (p *locationProcessor) checkGeofence(ctx context.Context, touristID uuid.UUID, loc models.Location, matches []models.ZoneMatch) (*models.Alert, error) {
	for _, m := range matches {
		var severity models.Severity
		switch m.EffectiveRisk {
		case models.RiskRestricted:
			severity = models.SeverityCritical
		case models.RiskHigh:
			severity = models.SeverityHigh
		default:
			continue
		}

		point := loc.Point()
		alert, created, err := p.alerts.CreateAlert(ctx, models.AlertRequest{
			TouristID:        touristID,
			Type:             models.AlertGeofence,
			Severity:         severity,
			Location:         &point,
			Accuracy:         loc.Accuracy,
			ZoneName:         m.Zone.Name,
			Message:          fmt.Sprintf("Entered %s risk zone: %s", m.EffectiveRisk, m.Zone.Name),
			TriggerCondition: "Location within zone radius",
			AdditionalData: map[string]any{
				"distance_meters": m.DistanceMeters,
				"time_restricted": m.TimeRestricted,
			},
		})
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, nil
		}
		return alert, nil
	}
	return nil, nil
}

// SafetyReport пересчитывает и сохраняет оценку безопасности на текущий момент
func (p *locationProcessor) SafetyReport(ctx context.Context, touristID uuid.UUID) (*models.SafetyReport, error) {
	log := p.logger.WithFields(logrus.Fields{
		"service":    "location",
		"method":     "SafetyReport",
		"tourist_id": touristID,
	})

	unlock := p.locks.Lock(touristID.String())
	defer unlock()

	now := p.now()
	var matches []models.ZoneMatch
	tourist, err := p.tourists.Update(ctx, touristID, func(t *models.Tourist) error {
		var zoneRisk models.RiskLevel
		if t.CurrentLocation != nil {
			matches = p.zones.ZonesContaining(t.CurrentLocation.Longitude, t.CurrentLocation.Latitude, now, true)
			if len(matches) > 0 {
				zoneRisk = matches[0].EffectiveRisk
			}
		}
		t.SafetyScore = p.scorer.Score(t.LastActivity, zoneRisk, now)
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to recalculate safety score")
		return nil, fmt.Errorf("service: could not calculate safety score: %w", err)
	}
	if matches == nil {
		matches = []models.ZoneMatch{}
	}

	return &models.SafetyReport{
		TouristID:    tourist.ID,
		SafetyScore:  tourist.SafetyScore,
		Factors:      p.scorer.Explain(tourist.SafetyScore, tourist.LastActivity, now),
		Zones:        matches,
		TripStatus:   tourist.TripStatus(now),
		CalculatedAt: now,
	}, nil
}

// ListTouristAlerts возвращает историю тревог туриста, новые первыми
func (p *locationProcessor) ListTouristAlerts(ctx context.Context, touristID uuid.UUID, limit int) ([]*models.Alert, error) {
	if limit <= 0 {
		limit = defaultTouristAlertsLimit
	}
	if limit > maxTouristAlertsLimit {
		limit = maxTouristAlertsLimit
	}
	return p.alerts.ListAlerts(ctx, models.AlertFilter{TouristID: &touristID, Limit: limit})
}

// CheckInactivity создает тревоги для туристов с активной поездкой, молчащих дольше порога.
// Возвращает число созданных тревог; сбой по одному туристу не останавливает проход.
func (p *locationProcessor) CheckInactivity(ctx context.Context, now time.Time) (int, error) {
	log := p.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "CheckInactivity",
	})

	threshold := p.cfg.InactivityThreshold
	tourists, err := p.tourists.ListInactive(ctx, now.Add(-threshold))
	if err != nil {
		log.WithError(err).Error("Failed to list inactive tourists")
		return 0, fmt.Errorf("service: could not list inactive tourists: %w", err)
	}

	var created int
	var errs []error
	for _, t := range tourists {
		if !t.IsTripActive(now) || t.CurrentLocation == nil {
			continue
		}
		inactive := now.Sub(t.LastActivity)
		severity := models.SeverityMedium
		if inactive > 2*threshold {
			severity = models.SeverityHigh
		}

		point := t.CurrentLocation.Point()
		_, ok, err := p.alerts.CreateAlert(ctx, models.AlertRequest{
			TouristID:        t.ID,
			Type:             models.AlertInactivity,
			Severity:         severity,
			Location:         &point,
			Accuracy:         t.CurrentLocation.Accuracy,
			ZoneName:         t.CurrentLocation.ZoneName,
			Message:          fmt.Sprintf("No activity for %s", inactive.Truncate(time.Minute)),
			TriggerCondition: fmt.Sprintf("Inactive longer than %s", threshold),
			AdditionalData: map[string]any{
				"last_activity": t.LastActivity,
			},
		})
		if err != nil {
			log.WithError(err).WithField("tourist_id", t.ID).Error("Failed to create inactivity alert")
			errs = append(errs, err)
			continue
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		log.WithField("created", created).Info("Inactivity alerts created")
	}
	return created, errors.Join(errs...)
}
