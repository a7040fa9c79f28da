package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tourist_safety"

// Metrics - метрики сервиса. Все методы допускают nil-получатель,
// поэтому сервисы в тестах создаются без метрик.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	alertsCreated      *prometheus.CounterVec
	alertsDeduplicated *prometheus.CounterVec
	alertTransitions   *prometheus.CounterVec
	alertsEscalated    *prometheus.CounterVec
	responseMinutes    prometheus.Histogram

	locationsProcessed prometheus.Counter
	safetyScore        prometheus.Histogram

	notifications    *prometheus.CounterVec
	dispatchDuration prometheus.Histogram

	schedulerTicks    *prometheus.CounterVec
	schedulerDuration prometheus.Histogram
}

// New регистрирует метрики в собственном реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		alertsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_created_total",
				Help:      "Alerts created by type and severity",
			},
			[]string{"type", "severity"},
		),
		alertsDeduplicated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_deduplicated_total",
				Help:      "Automatic triggers suppressed by an existing active alert",
			},
			[]string{"type"},
		),
		alertTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alert_transitions_total",
				Help:      "Alert status transitions by target status",
			},
			[]string{"status"},
		),
		alertsEscalated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_escalated_total",
				Help:      "Escalation steps applied by severity",
			},
			[]string{"severity"},
		),
		responseMinutes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "alert_response_minutes",
				Help:      "Minutes from alert creation to acknowledgment",
				Buckets:   []float64{1, 2, 5, 10, 15, 30, 60, 120},
			},
		),

		locationsProcessed: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "locations_processed_total",
				Help:      "Location samples committed",
			},
		),
		safetyScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "safety_score",
				Help:      "Distribution of computed safety scores",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),

		notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notification attempts by method and delivery status",
			},
			[]string{"method", "status"},
		),
		dispatchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent dispatching notifications for one alert",
				Buckets:   prometheus.DefBuckets,
			},
		),

		schedulerTicks: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduler_ticks_total",
				Help:      "Escalation scheduler ticks by result",
			},
			[]string{"result"},
		),
		schedulerDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scheduler_tick_duration_seconds",
				Help:      "Duration of one escalation scheduler tick",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр, используется в тестах
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware учитывает HTTP-запросы; путь берется из шаблона маршрута
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) AlertCreated(alertType, severity string) {
	if m == nil {
		return
	}
	m.alertsCreated.WithLabelValues(alertType, severity).Inc()
}

func (m *Metrics) AlertDeduplicated(alertType string) {
	if m == nil {
		return
	}
	m.alertsDeduplicated.WithLabelValues(alertType).Inc()
}

func (m *Metrics) AlertTransition(status string) {
	if m == nil {
		return
	}
	m.alertTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) AlertEscalated(severity string) {
	if m == nil {
		return
	}
	m.alertsEscalated.WithLabelValues(severity).Inc()
}

func (m *Metrics) ObserveResponseMinutes(v float64) {
	if m == nil {
		return
	}
	m.responseMinutes.Observe(v)
}

func (m *Metrics) LocationProcessed(score int) {
	if m == nil {
		return
	}
	m.locationsProcessed.Inc()
	m.safetyScore.Observe(float64(score))
}

func (m *Metrics) Notification(method, status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(method, status).Inc()
}

func (m *Metrics) ObserveDispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatchDuration.Observe(d.Seconds())
}

// SchedulerTick учитывает один проход планировщика
func (m *Metrics) SchedulerTick(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.schedulerTicks.WithLabelValues(result).Inc()
	m.schedulerDuration.Observe(d.Seconds())
}
