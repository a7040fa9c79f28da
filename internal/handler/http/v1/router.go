package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) error {
	sosLimit, err := newRateLimit(h.cfg.SOSRateLimit, "sos", h.logger)
	if err != nil {
		return err
	}
	locationLimit, err := newRateLimit(h.cfg.LocationRateLimit, "location", h.logger)
	if err != nil {
		return err
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger))

	// Маршруты туриста, личность из X-Tourist-ID
	tourists := protected.Group("/tourists", h.requireTourist())
	{
		tourists.POST("/location", locationLimit, h.updateLocation)
		tourists.POST("/sos", sosLimit, h.triggerSOS)
		tourists.GET("/safety-score", h.getSafetyScore)
		tourists.GET("/alerts", h.getTouristAlerts)
	}

	// Маршруты зон; изменение требует права create_zones
	zones := protected.Group("/zones")
	{
		zones.GET("", h.listZones)
		zones.GET("/nearby", h.nearbyZones)
		zones.POST("/check", h.checkZones)
		zones.POST("", h.requireAuthority(models.PermCreateZones), h.createZone)
		zones.PUT("/:name/risk", h.requireAuthority(models.PermCreateZones), h.updateZoneRisk)
		zones.DELETE("/:name", h.requireAuthority(models.PermCreateZones), h.deactivateZone)
	}

	// Маршруты тревог для сотрудников
	alerts := protected.Group("/alerts")
	{
		alerts.GET("", h.requireAuthority(models.PermViewAlerts), h.listAlerts)
		alerts.GET("/:id", h.requireAuthority(models.PermViewAlerts), h.getAlert)
		alerts.POST("", h.requireAuthority(models.PermAcknowledgeAlerts), h.createAlert)
		alerts.POST("/:id/acknowledge", h.requireAuthority(models.PermAcknowledgeAlerts), h.acknowledgeAlert)
		alerts.POST("/:id/start", h.requireAuthority(models.PermAcknowledgeAlerts), h.startAlert)
		alerts.POST("/:id/close", h.requireAuthority(models.PermResolveAlerts), h.closeAlert)
		alerts.POST("/:id/communications", h.requireAuthority(models.PermViewAlerts), h.addCommunication)
	}

	// Маршруты сотрудников
	authorities := protected.Group("/authorities")
	{
		authorities.POST("", h.requireAuthority(models.PermManageAuthorities), h.registerAuthority)
		authorities.GET("/:id", h.requireAuthority(""), h.getAuthority)
		authorities.PUT("/:id/duty", h.requireAuthority(""), h.updateDuty)
	}
	return nil
}
