package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType - тип события для подписанных клиентов служб
type EventType string

const (
	EventTouristLocationUpdated EventType = "tourist-location-updated"
	EventEmergencyAlert         EventType = "emergency-alert"
	EventAlertEscalated         EventType = "alert-escalated"
)

// BroadcastEvent - событие, публикуемое наружу
type BroadcastEvent struct {
	Type            EventType       `json:"type"`
	TouristID       uuid.UUID       `json:"tourist_id"`
	AlertID         *uuid.UUID      `json:"alert_id,omitempty"`
	AlertType       AlertType       `json:"alert_type,omitempty"`
	Severity        Severity        `json:"severity,omitempty"`
	Location        *AlertLocation  `json:"location,omitempty"`
	SafetyScore     *int            `json:"safety_score,omitempty"`
	Tourist         *TouristSummary `json:"tourist,omitempty"`
	Message         string          `json:"message,omitempty"`
	EscalationLevel int             `json:"escalation_level,omitempty"`
	Responders      []uuid.UUID     `json:"responders,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// NewEmergencyEvent собирает событие emergency-alert для тревоги
func NewEmergencyEvent(alert *Alert, tourist *TouristSummary) BroadcastEvent {
	id := alert.ID
	loc := alert.Location
	return BroadcastEvent{
		Type:            EventEmergencyAlert,
		TouristID:       alert.TouristID,
		AlertID:         &id,
		AlertType:       alert.Type,
		Severity:        alert.Severity,
		Location:        &loc,
		Tourist:         tourist,
		Message:         alert.Details.Message,
		EscalationLevel: alert.Escalation.Level,
		Timestamp:       alert.CreatedAt,
	}
}

// NewEscalationEvent собирает событие alert-escalated
func NewEscalationEvent(alert *Alert, at time.Time) BroadcastEvent {
	ev := NewEmergencyEvent(alert, nil)
	ev.Type = EventAlertEscalated
	ev.Timestamp = at
	return ev
}

// DeliveryStatus - статус доставки уведомления (best-effort)
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryPending DeliveryStatus = "pending"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// Каналы доставки
const (
	MethodSMS       = "sms"
	MethodBroadcast = "broadcast"
)

// DeliveryResult - запись журнала оповещенных контактов
type DeliveryResult struct {
	ContactID      string         `json:"contact_id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Method         string         `json:"method"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	MessageID      string         `json:"message_id,omitempty"`
	Error          string         `json:"error,omitempty"`
	NotifiedAt     time.Time      `json:"notified_at"`
}

// LocationSample - входящая точка от туриста
type LocationSample struct {
	TouristID uuid.UUID
	Longitude *float64
	Latitude  *float64
	Accuracy  *float64
}

// LocationResult - итог обработки точки
type LocationResult struct {
	TouristID   uuid.UUID   `json:"tourist_id"`
	Location    Location    `json:"location"`
	SafetyScore int         `json:"safety_score"`
	Zones       []ZoneMatch `json:"zones"`
	Alert       *Alert      `json:"alert,omitempty"`
	AlertError  string      `json:"alert_error,omitempty"`
}

// SafetyReport - текущая оценка безопасности с пояснениями
type SafetyReport struct {
	TouristID    uuid.UUID   `json:"tourist_id"`
	SafetyScore  int         `json:"safety_score"`
	Factors      []string    `json:"factors"`
	Zones        []ZoneMatch `json:"zones"`
	TripStatus   TripStatus  `json:"trip_status"`
	CalculatedAt time.Time   `json:"calculated_at"`
}

// LocationCheck - результат проверки точки по зонам
type LocationCheck struct {
	Point        Point       `json:"point"`
	Zones        []ZoneMatch `json:"zones"`
	HighestRisk  RiskLevel   `json:"highest_risk"`
	IsInRiskZone bool        `json:"is_in_risk_zone"`
	CheckedAt    time.Time   `json:"checked_at"`
}
