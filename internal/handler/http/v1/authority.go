package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// @Summary Register an authority
// @Description Register a responder; permissions default by department. Requires API key and manage_authorities permission.
// @Tags Authorities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param authority body RegisterAuthorityRequest true "Authority registration request"
// @Success 201 {object} models.Authority
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 409 {object} map[string]string "Badge number already registered"
// @Router /authorities [post]
func (h *Handler) registerAuthority(c *gin.Context) {
	log := h.logger.WithField("method", "registerAuthority")

	var input RegisterAuthorityRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	authority, err := h.authorities.RegisterAuthority(c.Request.Context(), DTOToAuthorityModel(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, authority)
}

// @Summary Get authority by ID
// @Description Get an authority record. Requires API key and an active authority identity.
// @Tags Authorities
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Authority ID"
// @Success 200 {object} models.Authority
// @Failure 400 {object} map[string]string "Invalid authority ID"
// @Failure 404 {object} map[string]string "Authority not found"
// @Router /authorities/{id} [get]
func (h *Handler) getAuthority(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getAuthority").WithField("id", id)

	authority, err := h.authorities.GetAuthority(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, authority)
}

// @Summary Update duty status
// @Description Set on/off duty and optionally the current position. Allowed for the authority itself or with manage_authorities permission.
// @Tags Authorities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param id path string true "Authority ID"
// @Param duty body DutyRequest true "Duty status and position"
// @Success 200 {object} models.Authority
// @Failure 400 {object} map[string]string "Invalid request body or coordinates"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Authority not found"
// @Router /authorities/{id}/duty [put]
func (h *Handler) updateDuty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller := authorityFromContext(c)
	log := h.logger.WithField("method", "updateDuty").WithField("id", id)

	if caller.ID != id && !caller.HasPermission(models.PermManageAuthorities) {
		log.WithField("caller_id", caller.ID).Warn("Permission denied")
		c.JSON(http.StatusForbidden, gin.H{"error": "missing permission " + string(models.PermManageAuthorities)})
		return
	}

	var input DutyRequest
	if !h.bindJSON(c, log, &input) {
		return
	}
	var position *models.Point
	if input.Longitude != nil && input.Latitude != nil {
		position = &models.Point{Longitude: *input.Longitude, Latitude: *input.Latitude}
	}

	authority, err := h.authorities.UpdateDuty(c.Request.Context(), id, *input.OnDuty, position)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	h.forgetAuthority(id)
	c.JSON(http.StatusOK, authority)
}
