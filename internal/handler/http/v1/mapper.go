package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// DTOToZoneModel преобразует DTO создания зоны в доменную модель
func DTOToZoneModel(dto CreateZoneRequest) *models.Zone {
	boundary := make([]models.Point, len(dto.Boundary))
	for i, p := range dto.Boundary {
		boundary[i] = models.Point{Longitude: p.Longitude, Latitude: p.Latitude}
	}
	zone := &models.Zone{
		Name:           dto.Name,
		RiskLevel:      models.RiskLevel(dto.RiskLevel),
		Boundary:       boundary,
		Description:    dto.Description,
		RequiresPermit: dto.RequiresPermit,
		MaxGroupSize:   dto.MaxGroupSize,
		LocalAuthority: dto.LocalAuthority,
	}
	if dto.Restriction != nil {
		zone.Restriction = &models.TimeWindow{
			Start:       dto.Restriction.Start,
			End:         dto.Restriction.End,
			Description: dto.Restriction.Description,
		}
	}
	return zone
}

// DTOToAuthorityModel преобразует DTO регистрации в черновик сотрудника
func DTOToAuthorityModel(dto RegisterAuthorityRequest) *models.Authority {
	perms := make([]models.Permission, 0, len(dto.Permissions))
	for _, p := range dto.Permissions {
		perms = append(perms, models.Permission(p))
	}
	return &models.Authority{
		BadgeNumber: dto.BadgeNumber,
		Name:        dto.Name,
		Phone:       dto.Phone,
		Department:  models.Department(dto.Department),
		Station:     dto.Station,
		Permissions: perms,
	}
}

// DTOToAlertRequest собирает запрос ручной тревоги от сотрудника
func DTOToAlertRequest(dto CreateAlertRequest, createdBy uuid.UUID) models.AlertRequest {
	req := models.AlertRequest{
		TouristID: uuid.MustParse(dto.TouristID),
		Type:      models.AlertType(dto.Type),
		Severity:  models.Severity(dto.Severity),
		ZoneName:  dto.ZoneName,
		Message:   dto.Message,
		CreatedBy: &createdBy,
	}
	if dto.Longitude != nil && dto.Latitude != nil {
		req.Location = &models.Point{Longitude: *dto.Longitude, Latitude: *dto.Latitude}
	}
	return req
}

// ModelToAlertResponse дополняет тревогу приоритетом на момент now
func ModelToAlertResponse(alert *models.Alert, now time.Time) *AlertResponse {
	return &AlertResponse{
		Alert:         alert,
		PriorityScore: alert.PriorityScore(now),
	}
}

// ModelsToAlertResponses преобразует слайс тревог в слайс DTO
func ModelsToAlertResponses(alerts []*models.Alert, now time.Time) []*AlertResponse {
	responses := make([]*AlertResponse, len(alerts))
	for i, alert := range alerts {
		responses[i] = ModelToAlertResponse(alert, now)
	}
	return responses
}
