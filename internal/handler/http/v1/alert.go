package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

const (
	defaultAlertsLimit = 50
	maxAlertsLimit     = 500
)

// @Summary List alerts
// @Description List alerts; with a status filter they are ordered by priority. Requires API key and view_alerts permission.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param status query string false "Alert status" Enums(active, acknowledged, in-progress, resolved, false-alarm)
// @Param tourist_id query string false "Tourist ID"
// @Param limit query int false "Number of alerts" default(50)
// @Success 200 {array} AlertResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 403 {object} map[string]string "Permission denied"
// @Router /alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "listAlerts")

	filter := models.AlertFilter{Limit: queryInt(c, "limit", defaultAlertsLimit)}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseAlertStatus(raw)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		filter.Status = status
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultAlertsLimit
	}
	if filter.Limit > maxAlertsLimit {
		filter.Limit = maxAlertsLimit
	}
	if raw := c.Query("tourist_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tourist_id"})
			return
		}
		filter.TouristID = &id
	}

	alerts, err := h.alerts.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAlertResponses(alerts, time.Now()))
}

// @Summary Get alert by ID
// @Description Get a single alert by its ID. Requires API key and view_alerts permission.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid alert ID"
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id} [get]
func (h *Handler) getAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getAlert").WithField("id", id)

	alert, err := h.alerts.GetAlert(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert, time.Now()))
}

// @Summary Raise a manual alert
// @Description Raise an alert for a tourist on behalf of an authority. Requires API key and acknowledge_alerts permission.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param alert body CreateAlertRequest true "Alert creation request"
// @Success 201 {object} AlertResponse
// @Success 200 {object} AlertResponse "An equivalent automatic alert is already active"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Tourist not found"
// @Router /alerts [post]
func (h *Handler) createAlert(c *gin.Context) {
	authority := authorityFromContext(c)
	log := h.logger.WithField("method", "createAlert").WithField("authority_id", authority.ID)

	var input CreateAlertRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	alert, created, err := h.alerts.CreateAlert(c.Request.Context(), DTOToAlertRequest(input, authority.ID))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, ModelToAlertResponse(alert, time.Now()))
}

// @Summary Acknowledge an alert
// @Description Acknowledge an active alert. Requires API key and acknowledge_alerts permission.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 409 {object} map[string]string "Alert is not active"
// @Router /alerts/{id}/acknowledge [post]
func (h *Handler) acknowledgeAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	authority := authorityFromContext(c)
	log := h.logger.WithField("method", "acknowledgeAlert").WithField("id", id)

	alert, err := h.alerts.Acknowledge(c.Request.Context(), id, authority.ID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert, time.Now()))
}

// @Summary Start working on an alert
// @Description Move an acknowledged alert to in-progress. Requires API key and acknowledge_alerts permission.
// @Tags Alerts
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 409 {object} map[string]string "Alert is not acknowledged"
// @Router /alerts/{id}/start [post]
func (h *Handler) startAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "startAlert").WithField("id", id)

	alert, err := h.alerts.BeginWork(c.Request.Context(), id, authorityFromContext(c).ID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert, time.Now()))
}

// @Summary Close an alert
// @Description Resolve an alert or mark it as a false alarm. Requires API key and resolve_alerts permission.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Alert ID"
// @Param close body CloseAlertRequest true "Outcome and notes"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid outcome"
// @Failure 404 {object} map[string]string "Alert not found"
// @Failure 409 {object} map[string]string "Alert cannot be closed in its current status"
// @Router /alerts/{id}/close [post]
func (h *Handler) closeAlert(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	authority := authorityFromContext(c)
	log := h.logger.WithField("method", "closeAlert").WithField("id", id)

	var input CloseAlertRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	alert, err := h.alerts.Close(c.Request.Context(), id, authority.ID, models.AlertStatus(input.Outcome), input.Notes, input.Actions)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	h.forgetAuthority(authority.ID)
	c.JSON(http.StatusOK, ModelToAlertResponse(alert, time.Now()))
}

// @Summary Add a message to an alert
// @Description Append an authority message to the alert's communication log. Requires API key and view_alerts permission.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Alert ID"
// @Param message body CommunicationRequest true "Message"
// @Success 200 {object} AlertResponse
// @Failure 400 {object} map[string]string "Invalid message"
// @Failure 404 {object} map[string]string "Alert not found"
// @Router /alerts/{id}/communications [post]
func (h *Handler) addCommunication(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "addCommunication").WithField("id", id)

	var input CommunicationRequest
	if !h.bindJSON(c, log, &input) {
		return
	}
	messageType := input.MessageType
	if messageType == "" {
		messageType = models.MessageText
	}

	alert, err := h.alerts.AddCommunication(c.Request.Context(), id, models.FromAuthority, input.Message, messageType)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAlertResponse(alert, time.Now()))
}
