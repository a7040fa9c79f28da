package service

//go:generate mockgen -source=alert.go -destination=mocks/mock_alert.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geo"
	"github.com/shenikar/tourist_safety_system/internal/metrics"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// AlertRepository определяет контракт хранилища тревог
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	// CreateIfNoActive атомарно создает тревогу, если нет активной с тем же ключом дедупликации.
	// Если такая есть, возвращает ее и false.
	CreateIfNoActive(ctx context.Context, alert *models.Alert) (*models.Alert, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	// Update выполняет fn над актуальной копией тревоги и сохраняет результат атомарно.
	// Ошибка fn отменяет изменение и возвращается как есть.
	Update(ctx context.Context, id uuid.UUID, fn func(*models.Alert) error) (*models.Alert, error)
	// List возвращает тревоги от новых к старым; Limit <= 0 означает без ограничения
	List(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error)
}

// NotificationDispatcher рассылает уведомления; доставка best-effort, ошибки отражаются в результатах
type NotificationDispatcher interface {
	NotifyContacts(ctx context.Context, alert *models.Alert, contacts []models.EmergencyContact) []models.DeliveryResult
	BroadcastToAuthorities(ctx context.Context, event models.BroadcastEvent) models.DeliveryResult
}

// AlertEngine определяет контракт жизненного цикла тревог
type AlertEngine interface {
	CreateAlert(ctx context.Context, req models.AlertRequest) (*models.Alert, bool, error)
	TriggerSOS(ctx context.Context, touristID uuid.UUID, message string, severity models.Severity) (*models.Alert, error)
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListAlerts(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error)
	Acknowledge(ctx context.Context, id, authorityID uuid.UUID) (*models.Alert, error)
	BeginWork(ctx context.Context, id, authorityID uuid.UUID) (*models.Alert, error)
	Close(ctx context.Context, id, authorityID uuid.UUID, outcome models.AlertStatus, notes string, actions []string) (*models.Alert, error)
	AddCommunication(ctx context.Context, id uuid.UUID, from, message, messageType string) (*models.Alert, error)
	CheckEscalation(alert *models.Alert, now time.Time) bool
	Escalate(ctx context.Context, id uuid.UUID, now time.Time) (*models.Alert, bool, error)
}

const (
	defaultZoneContextRadius = 1000.0
	defaultDispatchTimeout   = 10 * time.Second

	defaultSOSMessage   = "Emergency SOS triggered"
	sosTriggerCondition = "Manual SOS button pressed"
)

var errNotDue = errors.New("alert is not due for escalation")

type alertEngine struct {
	repo        AlertRepository
	tourists    TouristRepository
	authorities AuthorityRepository
	zones       *geo.Index
	dispatcher  NotificationDispatcher
	metrics     *metrics.Metrics
	logger      *logrus.Logger
	cfg         *config.Config
	thresholds  models.EscalationThresholds
	dedup       *keyedMutex
	now         func() time.Time
}

func NewAlertEngine(
	repo AlertRepository,
	tourists TouristRepository,
	authorities AuthorityRepository,
	zones *geo.Index,
	dispatcher NotificationDispatcher,
	m *metrics.Metrics,
	logger *logrus.Logger,
	cfg *config.Config,
) AlertEngine {
	return &alertEngine{
		repo:        repo,
		tourists:    tourists,
		authorities: authorities,
		zones:       zones,
		dispatcher:  dispatcher,
		metrics:     m,
		logger:      logger,
		cfg:         cfg,
		thresholds:  models.DefaultEscalationThresholds(),
		dedup:       newKeyedMutex(),
		now:         time.Now,
	}
}

// CreateAlert создает тревогу и оповещает контакты и службы.
// Для автоматических типов при наличии активной тревоги с тем же ключом возвращается существующая и false.
func (e *alertEngine) CreateAlert(ctx context.Context, req models.AlertRequest) (*models.Alert, bool, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service":    "alert",
		"method":     "CreateAlert",
		"tourist_id": req.TouristID,
		"type":       req.Type,
	})
	log.Info("Attempting to create alert")

	if _, err := models.ParseAlertType(string(req.Type)); err != nil {
		return nil, false, err
	}
	if _, err := models.ParseSeverity(string(req.Severity)); err != nil {
		return nil, false, err
	}

	tourist, err := e.tourists.GetByID(ctx, req.TouristID)
	if err != nil {
		log.WithError(err).Error("Failed to get tourist for alert")
		return nil, false, fmt.Errorf("service: could not get tourist for alert: %w", err)
	}

	now := e.now()
	location, err := e.snapshotLocation(req, tourist, now)
	if err != nil {
		log.WithError(err).Warn("Alert has no usable location")
		return nil, false, err
	}

	alert := &models.Alert{
		ID:        uuid.New(),
		TouristID: tourist.ID,
		DigitalID: tourist.DigitalID,
		Type:      req.Type,
		Severity:  req.Severity,
		Status:    models.StatusActive,
		Location:  location,
		Details: models.AlertDetails{
			Message:          req.Message,
			TriggerCondition: req.TriggerCondition,
			AutomaticTrigger: req.Type.IsAutomatic(),
			AdditionalData:   req.AdditionalData,
		},
		Communications:   []models.Communication{},
		NotifiedContacts: []models.DeliveryResult{},
		Escalation: models.Escalation{
			Level:       1,
			MaxLevel:    e.maxLevel(),
			EscalatedAt: []time.Time{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.CreatedBy != nil {
		alert.AddCommunication(models.FromAuthority, fmt.Sprintf("Manual alert raised by %s", req.CreatedBy), models.MessageSystemAlert, now)
	}

	stored, created, err := e.persist(ctx, alert)
	if err != nil {
		log.WithError(err).Error("Failed to create alert in repository")
		return nil, false, fmt.Errorf("service: could not create alert: %w", err)
	}
	if !created {
		e.metrics.AlertDeduplicated(string(req.Type))
		log.WithField("alert_id", stored.ID).Info("Active alert already exists, trigger suppressed")
		return stored, false, nil
	}
	e.metrics.AlertCreated(string(stored.Type), string(stored.Severity))
	log = log.WithField("alert_id", stored.ID)
	log.Info("Alert created successfully")

	summary := tourist.Summary()
	stored = e.dispatch(ctx, stored, tourist.EmergencyContacts, models.NewEmergencyEvent(stored, &summary), log)
	return stored, true, nil
}

// persist сохраняет тревогу; автоматические тревоги проходят через блокировку по ключу дедупликации
func (e *alertEngine) persist(ctx context.Context, alert *models.Alert) (*models.Alert, bool, error) {
	key := alert.DedupKey()
	if key == "" {
		if err := e.repo.Create(ctx, alert); err != nil {
			return nil, false, err
		}
		return alert, true, nil
	}

	unlock := e.dedup.Lock(key)
	defer unlock()
	return e.repo.CreateIfNoActive(ctx, alert)
}

func (e *alertEngine) snapshotLocation(req models.AlertRequest, tourist *models.Tourist, now time.Time) (models.AlertLocation, error) {
	var loc models.AlertLocation
	switch {
	case req.Location != nil:
		if err := req.Location.Validate(); err != nil {
			return loc, err
		}
		loc.Longitude = req.Location.Longitude
		loc.Latitude = req.Location.Latitude
		loc.Accuracy = req.Accuracy
	case tourist.CurrentLocation != nil:
		loc.Longitude = tourist.CurrentLocation.Longitude
		loc.Latitude = tourist.CurrentLocation.Latitude
		loc.Accuracy = tourist.CurrentLocation.Accuracy
	default:
		return loc, apperror.Validation("alert location is required: request has none and tourist %s has no known position", tourist.ID)
	}
	if loc.Accuracy <= 0 {
		loc.Accuracy = models.DefaultAccuracyMeters
	}

	loc.ZoneName = req.ZoneName
	if loc.ZoneName == "" && e.zones != nil {
		// ближайшая зона только для контекста; ее отсутствие не ошибка
		if match, ok := e.zones.Nearest(loc.Longitude, loc.Latitude, e.zoneContextRadius(), now); ok {
			loc.ZoneName = match.Zone.Name
		}
	}
	return loc, nil
}

// dispatch оповещает контакты и службы в пределах DispatchTimeout и дописывает результаты в журнал тревоги
func (e *alertEngine) dispatch(ctx context.Context, alert *models.Alert, contacts []models.EmergencyContact, event models.BroadcastEvent, log *logrus.Entry) *models.Alert {
	if e.dispatcher == nil {
		return alert
	}
	start := e.now()
	dctx, cancel := context.WithTimeout(ctx, e.dispatchTimeout())
	defer cancel()

	var results []models.DeliveryResult
	if len(contacts) > 0 {
		results = append(results, e.dispatcher.NotifyContacts(dctx, alert, contacts)...)
	}
	broadcast := e.dispatcher.BroadcastToAuthorities(dctx, event)
	results = append(results, broadcast)
	e.metrics.ObserveDispatch(e.now().Sub(start))

	for _, r := range results {
		e.metrics.Notification(r.Method, string(r.DeliveryStatus))
		if r.DeliveryStatus == models.DeliveryFailed {
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"contact_id": r.ContactID,
				"error":      r.Error,
			}).Warn("Notification delivery failed")
		}
	}

	updated, err := e.repo.Update(ctx, alert.ID, func(a *models.Alert) error {
		a.RecordDeliveries(results...)
		return nil
	})
	if err != nil {
		// тревога уже сохранена, неудача журнала уведомлений ее не откатывает
		log.WithError(err).Error("Failed to record notification results")
		alert.RecordDeliveries(results...)
		return alert
	}
	return updated
}

// TriggerSOS создает SOS-тревогу по текущей позиции туриста
func (e *alertEngine) TriggerSOS(ctx context.Context, touristID uuid.UUID, message string, severity models.Severity) (*models.Alert, error) {
	if strings.TrimSpace(message) == "" {
		message = defaultSOSMessage
	}
	if severity == "" {
		severity = models.SeverityCritical
	}
	alert, _, err := e.CreateAlert(ctx, models.AlertRequest{
		TouristID:        touristID,
		Type:             models.AlertSOS,
		Severity:         severity,
		Message:          message,
		TriggerCondition: sosTriggerCondition,
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// GetAlert получает тревогу по ID
func (e *alertEngine) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	alert, err := e.repo.GetByID(ctx, id)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"service":  "alert",
			"method":   "GetAlert",
			"alert_id": id,
		}).WithError(err).Error("Failed to get alert in repository")
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}
	return alert, nil
}

// ListAlerts возвращает тревоги; при фильтре по статусу сортирует по приоритету
func (e *alertEngine) ListAlerts(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "ListAlerts",
		"status":  filter.Status,
		"limit":   filter.Limit,
	})

	alerts, err := e.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list alerts from repository")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}

	if filter.Status != "" {
		now := e.now()
		sort.SliceStable(alerts, func(i, j int) bool {
			return alerts[i].PriorityScore(now) > alerts[j].PriorityScore(now)
		})
	}

	log.WithField("count", len(alerts)).Debug("Alerts listed")
	return alerts, nil
}

// Acknowledge подтверждает получение тревоги сотрудником
func (e *alertEngine) Acknowledge(ctx context.Context, id, authorityID uuid.UUID) (*models.Alert, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service":      "alert",
		"method":       "Acknowledge",
		"alert_id":     id,
		"authority_id": authorityID,
	})
	log.Info("Attempting to acknowledge alert")

	now := e.now()
	alert, err := e.repo.Update(ctx, id, func(a *models.Alert) error {
		return a.Acknowledge(authorityID, now)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to acknowledge alert")
		return nil, fmt.Errorf("service: could not acknowledge alert: %w", err)
	}
	e.metrics.AlertTransition(string(models.StatusAcknowledged))
	if alert.Response.ResponseTime != nil {
		e.metrics.ObserveResponseMinutes(*alert.Response.ResponseTime)
	}

	log.Info("Alert acknowledged successfully")
	return alert, nil
}

// BeginWork переводит тревогу в работу
func (e *alertEngine) BeginWork(ctx context.Context, id, authorityID uuid.UUID) (*models.Alert, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service":      "alert",
		"method":       "BeginWork",
		"alert_id":     id,
		"authority_id": authorityID,
	})

	now := e.now()
	alert, err := e.repo.Update(ctx, id, func(a *models.Alert) error {
		return a.BeginWork(authorityID, now)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to start work on alert")
		return nil, fmt.Errorf("service: could not start work on alert: %w", err)
	}
	e.metrics.AlertTransition(string(models.StatusInProgress))
	log.Info("Alert in progress")
	return alert, nil
}

// Close закрывает тревогу и обновляет статистику закрывшего сотрудника.
// Сбой обновления статистики не откатывает закрытие.
func (e *alertEngine) Close(ctx context.Context, id, authorityID uuid.UUID, outcome models.AlertStatus, notes string, actions []string) (*models.Alert, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service":      "alert",
		"method":       "Close",
		"alert_id":     id,
		"authority_id": authorityID,
		"outcome":      outcome,
	})
	log.Info("Attempting to close alert")

	now := e.now()
	alert, err := e.repo.Update(ctx, id, func(a *models.Alert) error {
		return a.Close(outcome, authorityID, now, notes, actions)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to close alert")
		return nil, fmt.Errorf("service: could not close alert: %w", err)
	}
	e.metrics.AlertTransition(string(outcome))

	if e.authorities != nil {
		responseMinutes := 0.0
		switch {
		case alert.Response.ResponseTime != nil:
			responseMinutes = *alert.Response.ResponseTime
		case alert.Response.ResolutionTime != nil:
			responseMinutes = *alert.Response.ResolutionTime
		}
		if _, err := e.authorities.Update(ctx, authorityID, func(a *models.Authority) error {
			a.Stats.RecordResolution(responseMinutes, outcome == models.StatusResolved)
			a.UpdatedAt = now
			return nil
		}); err != nil {
			log.WithError(err).Error("Failed to update authority stats after close")
		}
	}

	log.Info("Alert closed successfully")
	return alert, nil
}

// AddCommunication добавляет сообщение в журнал тревоги в любом статусе
func (e *alertEngine) AddCommunication(ctx context.Context, id uuid.UUID, from, message, messageType string) (*models.Alert, error) {
	switch from {
	case models.FromTourist, models.FromAuthority, models.FromSystem:
	default:
		return nil, apperror.Validation("unknown communication sender %q", from)
	}
	if messageType == "" {
		messageType = models.MessageText
	}
	switch messageType {
	case models.MessageText, models.MessageLocation, models.MessageStatusUpdate, models.MessageSystemAlert:
	default:
		return nil, apperror.Validation("unknown message type %q", messageType)
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperror.Validation("message is required")
	}

	now := e.now()
	alert, err := e.repo.Update(ctx, id, func(a *models.Alert) error {
		a.AddCommunication(from, message, messageType, now)
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"service":  "alert",
			"method":   "AddCommunication",
			"alert_id": id,
		}).WithError(err).Error("Failed to add communication")
		return nil, fmt.Errorf("service: could not add communication: %w", err)
	}
	return alert, nil
}

// CheckEscalation сообщает, пора ли эскалировать тревогу
func (e *alertEngine) CheckEscalation(alert *models.Alert, now time.Time) bool {
	return alert.ShouldEscalate(now, e.thresholds)
}

// Escalate повышает уровень тревоги на один, если она все еще подлежит эскалации.
// Проверка и изменение выполняются в одной атомарной операции хранилища.
func (e *alertEngine) Escalate(ctx context.Context, id uuid.UUID, now time.Time) (*models.Alert, bool, error) {
	log := e.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "Escalate",
		"alert_id": id,
	})

	alert, err := e.repo.Update(ctx, id, func(a *models.Alert) error {
		if !a.ShouldEscalate(now, e.thresholds) {
			return errNotDue
		}
		a.Escalate(now)
		a.AddCommunication(models.FromSystem, fmt.Sprintf("Alert escalated to level %d", a.Escalation.Level), models.MessageSystemAlert, now)
		return nil
	})
	if errors.Is(err, errNotDue) {
		return nil, false, nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to escalate alert")
		return nil, false, fmt.Errorf("service: could not escalate alert: %w", err)
	}

	e.metrics.AlertEscalated(string(alert.Severity))
	log = log.WithField("level", alert.Escalation.Level)
	log.Warn("Alert escalated")

	alert = e.dispatch(ctx, alert, nil, models.NewEscalationEvent(alert, now), log)
	return alert, true, nil
}

func (e *alertEngine) maxLevel() int {
	if e.cfg != nil && e.cfg.EscalationMaxLevel > 0 {
		return e.cfg.EscalationMaxLevel
	}
	return models.DefaultMaxEscalationLevel
}

func (e *alertEngine) zoneContextRadius() float64 {
	if e.cfg != nil && e.cfg.ZoneContextRadiusMeters > 0 {
		return e.cfg.ZoneContextRadiusMeters
	}
	return defaultZoneContextRadius
}

// dispatchTimeout - нулевое значение не должно обрывать рассылку сразу
func (e *alertEngine) dispatchTimeout() time.Duration {
	if e.cfg != nil && e.cfg.DispatchTimeout > 0 {
		return e.cfg.DispatchTimeout
	}
	return defaultDispatchTimeout
}
