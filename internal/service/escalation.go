package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/metrics"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// EscalationScheduler периодически эскалирует просроченные тревоги и проверяет неактивность туристов
type EscalationScheduler struct {
	alerts    AlertEngine
	locations LocationProcessor
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	cfg       *config.Config
	now       func() time.Time

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewEscalationScheduler(alerts AlertEngine, locations LocationProcessor, m *metrics.Metrics, logger *logrus.Logger, cfg *config.Config) *EscalationScheduler {
	return &EscalationScheduler{
		alerts:    alerts,
		locations: locations,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Start запускает cron с интервалом ESCALATION_INTERVAL. Пропущенный из-за долгого прохода тик не догоняется.
func (s *EscalationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("escalation scheduler already started")
	}

	loc := s.cfg.Location
	if loc == nil {
		loc = time.Local
	}
	cronLogger := cron.PrintfLogger(s.logger)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	spec := fmt.Sprintf("@every %s", s.cfg.EscalationInterval)
	if _, err := c.AddFunc(spec, func() {
		tickCtx, tickCancel := context.WithTimeout(runCtx, s.cfg.EscalationInterval)
		defer tickCancel()
		_ = s.Tick(tickCtx, s.now())
	}); err != nil {
		cancel()
		return fmt.Errorf("could not schedule escalation tick: %w", err)
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.logger.WithFields(logrus.Fields{
		"component": "escalation_scheduler",
		"interval":  s.cfg.EscalationInterval.String(),
	}).Info("Escalation scheduler started")
	return nil
}

// Stop останавливает cron и ждет завершения текущего прохода или отмены ctx
func (s *EscalationScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	done := c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	cancel()
	s.logger.WithField("component", "escalation_scheduler").Info("Escalation scheduler stopped")
}

// Tick выполняет один проход: эскалирует каждую просроченную активную тревогу на один уровень,
// затем проверяет неактивность туристов. Ошибка по одной тревоге не прерывает проход.
func (s *EscalationScheduler) Tick(ctx context.Context, now time.Time) error {
	start := time.Now()
	log := s.logger.WithFields(logrus.Fields{
		"component": "escalation_scheduler",
		"method":    "Tick",
	})

	var errs []error
	escalated := 0

	active, err := s.alerts.ListAlerts(ctx, models.AlertFilter{Status: models.StatusActive})
	if err != nil {
		log.WithError(err).Error("Failed to list active alerts")
		errs = append(errs, err)
	}
	for _, alert := range active {
		if !s.alerts.CheckEscalation(alert, now) {
			continue
		}
		_, ok, err := s.alerts.Escalate(ctx, alert.ID, now)
		if err != nil {
			log.WithError(err).WithField("alert_id", alert.ID).Error("Failed to escalate alert")
			errs = append(errs, err)
			continue
		}
		if ok {
			escalated++
		}
	}

	inactive := 0
	if s.locations != nil {
		inactive, err = s.locations.CheckInactivity(ctx, now)
		if err != nil {
			log.WithError(err).Error("Inactivity sweep finished with errors")
			errs = append(errs, err)
		}
	}

	tickErr := errors.Join(errs...)
	s.metrics.SchedulerTick(time.Since(start), tickErr)
	if escalated > 0 || inactive > 0 {
		log.WithFields(logrus.Fields{
			"escalated":         escalated,
			"inactivity_alerts": inactive,
		}).Info("Escalation tick completed")
	}
	return tickErr
}
