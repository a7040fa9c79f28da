package models

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
)

// Department - ведомство сотрудника
type Department string

const (
	DepartmentPolice    Department = "police"
	DepartmentTourism   Department = "tourism"
	DepartmentEmergency Department = "emergency"
	DepartmentAdmin     Department = "admin"
)

// Permission - право сотрудника
type Permission string

const (
	PermViewAlerts        Permission = "view_alerts"
	PermAcknowledgeAlerts Permission = "acknowledge_alerts"
	PermResolveAlerts     Permission = "resolve_alerts"
	PermViewTourists      Permission = "view_tourists"
	PermCreateZones       Permission = "create_zones"
	PermManageAuthorities Permission = "manage_authorities"
	PermAccessDashboard   Permission = "access_dashboard"
	PermExportData        Permission = "export_data"
)

// DefaultPermissions возвращает набор прав по умолчанию для ведомства
func DefaultPermissions(d Department) []Permission {
	switch d {
	case DepartmentPolice:
		return []Permission{PermViewAlerts, PermAcknowledgeAlerts, PermResolveAlerts, PermViewTourists, PermAccessDashboard}
	case DepartmentTourism:
		return []Permission{PermViewAlerts, PermViewTourists, PermCreateZones, PermAccessDashboard, PermExportData}
	case DepartmentEmergency:
		return []Permission{PermViewAlerts, PermAcknowledgeAlerts, PermResolveAlerts, PermAccessDashboard}
	case DepartmentAdmin:
		return []Permission{PermViewAlerts, PermAcknowledgeAlerts, PermResolveAlerts, PermViewTourists, PermCreateZones, PermManageAuthorities, PermAccessDashboard, PermExportData}
	}
	return nil
}

// AuthorityStats - накопительная статистика; меняется только при закрытии тревоги этим сотрудником
type AuthorityStats struct {
	AlertsHandled         int     `json:"alerts_handled"`
	AvgResponseTime       float64 `json:"avg_response_time"`
	ActiveAlerts          int     `json:"active_alerts"`
	SuccessfulResolutions int     `json:"successful_resolutions"`
	Rating                float64 `json:"rating"`
}

// RecordResolution учитывает закрытую тревогу
func (s *AuthorityStats) RecordResolution(responseMinutes float64, successful bool) {
	s.AlertsHandled++
	if s.ActiveAlerts > 0 {
		s.ActiveAlerts--
	}
	if successful {
		s.SuccessfulResolutions++
	}

	total := s.AvgResponseTime * float64(s.AlertsHandled-1)
	s.AvgResponseTime = (total + responseMinutes) / float64(s.AlertsHandled)

	successRate := float64(s.SuccessfulResolutions) / float64(s.AlertsHandled)
	var bonus float64
	switch {
	case responseMinutes < 15:
		bonus = 0.5
	case responseMinutes < 30:
		bonus = 0.2
	}
	s.Rating = math.Min(5, successRate*4+1+bonus)
}

// Authority - сотрудник службы реагирования
type Authority struct {
	ID              uuid.UUID      `json:"id"`
	BadgeNumber     string         `json:"badge_number"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
	Department      Department     `json:"department"`
	Station         string         `json:"station,omitempty"`
	IsOnDuty        bool           `json:"is_on_duty"`
	CurrentLocation *Point         `json:"current_location,omitempty"`
	Permissions     []Permission   `json:"permissions"`
	Stats           AuthorityStats `json:"stats"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewAuthority создает сотрудника и назначает права по ведомству, если они не заданы явно
func NewAuthority(badge, name, phone string, dept Department, station string, perms []Permission, now time.Time) (*Authority, error) {
	if strings.TrimSpace(badge) == "" || strings.TrimSpace(name) == "" {
		return nil, apperror.Validation("badge number and name are required")
	}
	if DefaultPermissions(dept) == nil {
		return nil, apperror.Validation("unknown department %q", dept)
	}
	if len(perms) == 0 {
		perms = DefaultPermissions(dept)
	}
	return &Authority{
		ID:          uuid.New(),
		BadgeNumber: badge,
		Name:        name,
		Phone:       phone,
		Department:  dept,
		Station:     station,
		Permissions: perms,
		Stats:       AuthorityStats{Rating: 5},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasPermission - администраторам разрешено все
func (a *Authority) HasPermission(p Permission) bool {
	return a.Department == DepartmentAdmin || slices.Contains(a.Permissions, p)
}

// Clone возвращает копию записи
func (a *Authority) Clone() *Authority {
	c := *a
	c.Permissions = append([]Permission(nil), a.Permissions...)
	if a.CurrentLocation != nil {
		p := *a.CurrentLocation
		c.CurrentLocation = &p
	}
	return &c
}
