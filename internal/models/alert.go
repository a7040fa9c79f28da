package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
)

// AlertType - тип тревоги
type AlertType string

const (
	AlertSOS        AlertType = "SOS"
	AlertGeofence   AlertType = "geofence"
	AlertInactivity AlertType = "inactivity"
	AlertAnomaly    AlertType = "anomaly"
	AlertManual     AlertType = "manual"
)

// ParseAlertType проверяет тип тревоги
func ParseAlertType(s string) (AlertType, error) {
	switch t := AlertType(s); t {
	case AlertSOS, AlertGeofence, AlertInactivity, AlertAnomaly, AlertManual:
		return t, nil
	}
	return "", apperror.Validation("unknown alert type %q", s)
}

// IsAutomatic - тревоги, создаваемые системой; только они дедуплицируются
func (t AlertType) IsAutomatic() bool {
	return t == AlertGeofence || t == AlertInactivity || t == AlertAnomaly
}

// Severity - серьезность тревоги
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity проверяет серьезность
func ParseSeverity(s string) (Severity, error) {
	switch v := Severity(s); v {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return v, nil
	}
	return "", apperror.Validation("unknown severity %q", s)
}

// AlertStatus - состояние тревоги
type AlertStatus string

const (
	StatusActive       AlertStatus = "active"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusInProgress   AlertStatus = "in-progress"
	StatusResolved     AlertStatus = "resolved"
	StatusFalseAlarm   AlertStatus = "false-alarm"
)

// ParseAlertStatus проверяет статус
func ParseAlertStatus(s string) (AlertStatus, error) {
	switch v := AlertStatus(s); v {
	case StatusActive, StatusAcknowledged, StatusInProgress, StatusResolved, StatusFalseAlarm:
		return v, nil
	}
	return "", apperror.Validation("unknown alert status %q", s)
}

// IsTerminal - из resolved и false-alarm переходов нет
func (s AlertStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusFalseAlarm
}

var alertTransitions = map[AlertStatus][]AlertStatus{
	StatusActive:       {StatusAcknowledged},
	StatusAcknowledged: {StatusInProgress, StatusResolved, StatusFalseAlarm},
	StatusInProgress:   {StatusResolved, StatusFalseAlarm},
}

// CanTransition сообщает, разрешен ли переход from -> to
func CanTransition(from, to AlertStatus) bool {
	for _, next := range alertTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Communication типы и отправители
const (
	FromTourist   = "tourist"
	FromAuthority = "authority"
	FromSystem    = "system"

	MessageText         = "text"
	MessageLocation     = "location"
	MessageStatusUpdate = "status_update"
	MessageSystemAlert  = "system_alert"
)

// AlertLocation - снимок позиции на момент создания тревоги
type AlertLocation struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Address   string  `json:"address,omitempty"`
	ZoneName  string  `json:"zone_name,omitempty"`
}

// Point возвращает координаты снимка
func (l AlertLocation) Point() Point {
	return Point{Longitude: l.Longitude, Latitude: l.Latitude}
}

// AlertDetails - описание условия срабатывания
type AlertDetails struct {
	Message          string         `json:"message"`
	TriggerCondition string         `json:"trigger_condition,omitempty"`
	AutomaticTrigger bool           `json:"automatic_trigger"`
	AdditionalData   map[string]any `json:"additional_data,omitempty"`
}

// AlertResponse - данные реагирования; временные метки устанавливаются один раз
type AlertResponse struct {
	AcknowledgedBy  *uuid.UUID `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	AssignedTo      *uuid.UUID `json:"assigned_to,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	ResolvedBy      *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResponseTime    *float64   `json:"response_time"`
	ResolutionTime  *float64   `json:"resolution_time"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ActionsTaken    []string   `json:"actions_taken,omitempty"`
}

// Communication - запись журнала переписки, неизменяема после добавления
type Communication struct {
	From        string    `json:"from"`
	Message     string    `json:"message"`
	MessageType string    `json:"message_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// Escalation - состояние эскалации; уровень только растет
type Escalation struct {
	Level       int         `json:"level"`
	MaxLevel    int         `json:"max_level"`
	EscalatedAt []time.Time `json:"escalated_at"`
}

// DefaultMaxEscalationLevel используется, если в конфиге не задано иное
const DefaultMaxEscalationLevel = 3

// Alert - тревога и весь ее жизненный цикл
type Alert struct {
	ID               uuid.UUID        `json:"id"`
	TouristID        uuid.UUID        `json:"tourist_id"`
	DigitalID        string           `json:"digital_id,omitempty"`
	Type             AlertType        `json:"type"`
	Severity         Severity         `json:"severity"`
	Status           AlertStatus      `json:"status"`
	Location         AlertLocation    `json:"location"`
	Details          AlertDetails     `json:"details"`
	Response         AlertResponse    `json:"response"`
	Communications   []Communication  `json:"communications"`
	NotifiedContacts []DeliveryResult `json:"notified_contacts"`
	Escalation       Escalation       `json:"escalation"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// DedupKey возвращает ключ дедупликации для автоматических тревог и "" для остальных
func (a *Alert) DedupKey() string {
	if !a.Type.IsAutomatic() {
		return ""
	}
	return fmt.Sprintf("%s|%s|%s", a.TouristID, a.Type, a.Location.ZoneName)
}

func (a *Alert) transitionError(action string) error {
	return apperror.Conflict("cannot %s alert %s in status %s", action, a.ID, a.Status).
		WithContext("status", string(a.Status))
}

// Acknowledge переводит active -> acknowledged и фиксирует время реакции
func (a *Alert) Acknowledge(by uuid.UUID, at time.Time) error {
	if !CanTransition(a.Status, StatusAcknowledged) || a.Response.AcknowledgedAt != nil {
		return a.transitionError("acknowledge")
	}
	a.Status = StatusAcknowledged
	a.Response.AcknowledgedBy = &by
	a.Response.AcknowledgedAt = &at
	responseTime := MinutesBetween(a.CreatedAt, at)
	a.Response.ResponseTime = &responseTime
	a.UpdatedAt = at
	a.AddCommunication(FromSystem, "Alert acknowledged by authority", MessageStatusUpdate, at)
	return nil
}

// BeginWork переводит acknowledged -> in-progress и назначает исполнителя
func (a *Alert) BeginWork(by uuid.UUID, at time.Time) error {
	if !CanTransition(a.Status, StatusInProgress) {
		return a.transitionError("start work on")
	}
	a.Status = StatusInProgress
	a.Response.AssignedTo = &by
	a.Response.AssignedAt = &at
	a.UpdatedAt = at
	a.AddCommunication(FromSystem, "Response in progress", MessageStatusUpdate, at)
	return nil
}

// Close завершает тревогу со статусом resolved или false-alarm
func (a *Alert) Close(outcome AlertStatus, by uuid.UUID, at time.Time, notes string, actions []string) error {
	if !outcome.IsTerminal() {
		return apperror.Validation("close outcome must be %q or %q, got %q", StatusResolved, StatusFalseAlarm, outcome)
	}
	if !CanTransition(a.Status, outcome) || a.Response.ResolvedAt != nil {
		return a.transitionError("close")
	}
	a.Status = outcome
	a.Response.ResolvedBy = &by
	a.Response.ResolvedAt = &at
	resolutionTime := MinutesBetween(a.CreatedAt, at)
	a.Response.ResolutionTime = &resolutionTime
	a.Response.ResolutionNotes = notes
	a.Response.ActionsTaken = append(a.Response.ActionsTaken, actions...)
	a.UpdatedAt = at
	a.AddCommunication(FromSystem, fmt.Sprintf("Alert closed as %s", outcome), MessageStatusUpdate, at)
	return nil
}

// EscalationThresholds - сколько тревога может оставаться без реакции до эскалации
type EscalationThresholds map[Severity]time.Duration

// DefaultEscalationThresholds: critical 5 мин, high 15, medium 30, low 60
func DefaultEscalationThresholds() EscalationThresholds {
	return EscalationThresholds{
		SeverityCritical: 5 * time.Minute,
		SeverityHigh:     15 * time.Minute,
		SeverityMedium:   30 * time.Minute,
		SeverityLow:      60 * time.Minute,
	}
}

func (t EscalationThresholds) forSeverity(s Severity) time.Duration {
	if d, ok := t[s]; ok {
		return d
	}
	return 30 * time.Minute
}

// ShouldEscalate истинно, только если тревога активна, порог превышен и уровень ниже максимального
func (a *Alert) ShouldEscalate(now time.Time, thresholds EscalationThresholds) bool {
	if a.Status != StatusActive {
		return false
	}
	elapsed := now.Sub(a.CreatedAt).Minutes()
	threshold := thresholds.forSeverity(a.Severity).Minutes()
	return elapsed > threshold && a.Escalation.Level < a.Escalation.MaxLevel
}

// Escalate поднимает уровень ровно на один; severity и status не меняются
func (a *Alert) Escalate(at time.Time) {
	a.Escalation.Level++
	a.Escalation.EscalatedAt = append(a.Escalation.EscalatedAt, at)
	a.UpdatedAt = at
}

// AddCommunication добавляет запись в журнал
func (a *Alert) AddCommunication(from, message, messageType string, at time.Time) {
	a.Communications = append(a.Communications, Communication{
		From:        from,
		Message:     message,
		MessageType: messageType,
		Timestamp:   at,
	})
}

// RecordDeliveries добавляет результаты уведомлений в журнал оповещенных
func (a *Alert) RecordDeliveries(results ...DeliveryResult) {
	a.NotifiedContacts = append(a.NotifiedContacts, results...)
}

// PriorityScore - производный приоритет для сортировки, не хранится
func (a *Alert) PriorityScore(now time.Time) float64 {
	base := map[Severity]float64{
		SeverityCritical: 100,
		SeverityHigh:     75,
		SeverityMedium:   50,
		SeverityLow:      25,
	}[a.Severity]
	if base == 0 {
		base = 25
	}
	boost := math.Min(now.Sub(a.CreatedAt).Minutes()/10, 25)
	if boost < 0 {
		boost = 0
	}
	return base + boost
}

// Clone возвращает глубокую копию тревоги
func (a *Alert) Clone() *Alert {
	c := *a
	if a.Details.AdditionalData != nil {
		c.Details.AdditionalData = make(map[string]any, len(a.Details.AdditionalData))
		for k, v := range a.Details.AdditionalData {
			c.Details.AdditionalData[k] = v
		}
	}
	c.Response.ActionsTaken = append([]string(nil), a.Response.ActionsTaken...)
	c.Communications = append([]Communication(nil), a.Communications...)
	c.NotifiedContacts = append([]DeliveryResult(nil), a.NotifiedContacts...)
	c.Escalation.EscalatedAt = append([]time.Time(nil), a.Escalation.EscalatedAt...)
	return &c
}

// MinutesBetween возвращает разницу в минутах, округленную до 2 знаков
func MinutesBetween(from, to time.Time) float64 {
	return math.Round(to.Sub(from).Minutes()*100) / 100
}

// AlertRequest - входные данные для создания тревоги
type AlertRequest struct {
	TouristID        uuid.UUID
	Type             AlertType
	Severity         Severity
	Location         *Point
	Accuracy         float64
	ZoneName         string
	Message          string
	TriggerCondition string
	AdditionalData   map[string]any
	// CreatedBy - идентификатор сотрудника для ручных тревог
	CreatedBy *uuid.UUID
}

// AlertFilter - параметры выборки тревог
type AlertFilter struct {
	Status    AlertStatus
	TouristID *uuid.UUID
	Limit     int
}
