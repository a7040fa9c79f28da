package v1

import "github.com/shenikar/tourist_safety_system/internal/models"

// LocationUpdateRequest DTO для отправки геопозиции туриста
// @Description DTO для отправки геопозиции туриста
type LocationUpdateRequest struct {
	Longitude *float64 `json:"longitude" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
}

// SOSRequest DTO для тревожной кнопки
// @Description DTO для тревожной кнопки
type SOSRequest struct {
	Message  string `json:"message,omitempty" validate:"max=500"`
	Severity string `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
}

// PointDTO - координаты вершины или точки
type PointDTO struct {
	Longitude float64 `json:"longitude" validate:"longitude"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
}

// TimeWindowDTO - окно ограничений зоны в формате HH:MM
type TimeWindowDTO struct {
	Start       string `json:"start" validate:"required,datetime=15:04"`
	End         string `json:"end" validate:"required,datetime=15:04"`
	Description string `json:"description,omitempty"`
}

// CreateZoneRequest DTO для создания зоны риска
// @Description DTO для создания зоны риска
type CreateZoneRequest struct {
	Name           string                `json:"name" validate:"required,min=2,max=255"`
	RiskLevel      string                `json:"risk_level" validate:"required,oneof=safe medium high restricted"`
	Boundary       []PointDTO            `json:"boundary" validate:"required,min=4,dive"`
	Description    string                `json:"description,omitempty"`
	Restriction    *TimeWindowDTO        `json:"restriction,omitempty"`
	RequiresPermit bool                  `json:"requires_permit"`
	MaxGroupSize   int                   `json:"max_group_size,omitempty" validate:"gte=0"`
	LocalAuthority models.LocalAuthority `json:"local_authority"`
}

// UpdateRiskRequest DTO для смены уровня риска зоны
// @Description DTO для смены уровня риска зоны
type UpdateRiskRequest struct {
	RiskLevel string `json:"risk_level" validate:"required,oneof=safe medium high restricted"`
}

// CheckLocationRequest DTO для проверки точки по зонам
// @Description DTO для проверки точки по зонам
type CheckLocationRequest struct {
	Longitude *float64 `json:"longitude" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
}

// CreateAlertRequest DTO для ручной тревоги, созданной сотрудником
// @Description DTO для ручной тревоги, созданной сотрудником
type CreateAlertRequest struct {
	TouristID string   `json:"tourist_id" validate:"required,uuid"`
	Type      string   `json:"type" validate:"required,oneof=SOS geofence inactivity anomaly manual"`
	Severity  string   `json:"severity" validate:"required,oneof=low medium high critical"`
	Message   string   `json:"message" validate:"required,max=500"`
	Longitude *float64 `json:"longitude,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	ZoneName  string   `json:"zone_name,omitempty"`
}

// CloseAlertRequest DTO для закрытия тревоги
// @Description DTO для закрытия тревоги
type CloseAlertRequest struct {
	Outcome string   `json:"outcome" validate:"required,oneof=resolved false-alarm"`
	Notes   string   `json:"notes,omitempty" validate:"max=2000"`
	Actions []string `json:"actions,omitempty" validate:"dive,required"`
}

// CommunicationRequest DTO для сообщения в журнал тревоги
// @Description DTO для сообщения в журнал тревоги
type CommunicationRequest struct {
	Message     string `json:"message" validate:"required,max=2000"`
	MessageType string `json:"message_type,omitempty" validate:"omitempty,oneof=text location status_update system_alert"`
}

// RegisterAuthorityRequest DTO для регистрации сотрудника
// @Description DTO для регистрации сотрудника
type RegisterAuthorityRequest struct {
	BadgeNumber string   `json:"badge_number" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Phone       string   `json:"phone,omitempty"`
	Department  string   `json:"department" validate:"required,oneof=police tourism emergency admin"`
	Station     string   `json:"station,omitempty"`
	Permissions []string `json:"permissions,omitempty" validate:"dive,oneof=view_alerts acknowledge_alerts resolve_alerts view_tourists create_zones manage_authorities access_dashboard export_data"`
}

// DutyRequest DTO для смены дежурства и позиции сотрудника
// @Description DTO для смены дежурства и позиции сотрудника
type DutyRequest struct {
	OnDuty    *bool    `json:"on_duty" validate:"required"`
	Longitude *float64 `json:"longitude,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
}

// AlertResponse DTO тревоги с вычисленным приоритетом
// @Description DTO тревоги с вычисленным приоритетом
type AlertResponse struct {
	*models.Alert
	PriorityScore float64 `json:"priority_score"`
}
