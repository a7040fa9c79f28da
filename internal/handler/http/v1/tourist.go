package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// @Summary Submit tourist location
// @Description Record a new location sample, recompute the safety score and check geofences. Requires API key and X-Tourist-ID.
// @Tags Tourists
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Tourist-ID header string true "Tourist ID"
// @Param location body LocationUpdateRequest true "Location sample"
// @Success 200 {object} models.LocationResult
// @Failure 400 {object} map[string]string "Invalid request body or coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tourist not found"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 502 {object} map[string]string "Storage failure"
// @Router /tourists/location [post]
func (h *Handler) updateLocation(c *gin.Context) {
	touristID := touristFromContext(c)
	log := h.logger.WithField("method", "updateLocation").WithField("tourist_id", touristID)

	var input LocationUpdateRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.locations.ProcessLocation(c.Request.Context(), models.LocationSample{
		TouristID: touristID,
		Longitude: input.Longitude,
		Latitude:  input.Latitude,
		Accuracy:  input.Accuracy,
	})
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Trigger SOS
// @Description Raise an SOS alert at the tourist's last known location. Requires API key and X-Tourist-ID.
// @Tags Tourists
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Tourist-ID header string true "Tourist ID"
// @Param sos body SOSRequest false "Optional message and severity"
// @Success 201 {object} AlertResponse
// @Failure 400 {object} map[string]string "No known location or invalid body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tourist not found"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /tourists/sos [post]
func (h *Handler) triggerSOS(c *gin.Context) {
	touristID := touristFromContext(c)
	log := h.logger.WithField("method", "triggerSOS").WithField("tourist_id", touristID)

	var input SOSRequest
	// тело необязательно: пустой запрос дает тревогу по умолчанию
	if c.Request.ContentLength != 0 && !h.bindJSON(c, log, &input) {
		return
	}

	alert, err := h.alerts.TriggerSOS(c.Request.Context(), touristID, input.Message, models.Severity(input.Severity))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	log.WithField("alert_id", alert.ID).Warn("SOS alert raised")
	c.JSON(http.StatusCreated, ModelToAlertResponse(alert, alert.CreatedAt))
}

// @Summary Get safety score
// @Description Get the tourist's current safety score with explanatory factors. Requires API key and X-Tourist-ID.
// @Tags Tourists
// @Produce json
// @Security ApiKeyAuth
// @Param X-Tourist-ID header string true "Tourist ID"
// @Success 200 {object} models.SafetyReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Tourist not found"
// @Router /tourists/safety-score [get]
func (h *Handler) getSafetyScore(c *gin.Context) {
	touristID := touristFromContext(c)
	log := h.logger.WithField("method", "getSafetyScore").WithField("tourist_id", touristID)

	report, err := h.locations.SafetyReport(c.Request.Context(), touristID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Get tourist alert history
// @Description Get the tourist's own alerts, newest first. Requires API key and X-Tourist-ID.
// @Tags Tourists
// @Produce json
// @Security ApiKeyAuth
// @Param X-Tourist-ID header string true "Tourist ID"
// @Param limit query int false "Number of alerts" default(20)
// @Success 200 {array} models.Alert
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /tourists/alerts [get]
func (h *Handler) getTouristAlerts(c *gin.Context) {
	touristID := touristFromContext(c)
	log := h.logger.WithField("method", "getTouristAlerts").WithField("tourist_id", touristID)

	alerts, err := h.locations.ListTouristAlerts(c.Request.Context(), touristID, queryInt(c, "limit", 0))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
