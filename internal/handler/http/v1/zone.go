package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// @Summary List risk zones
// @Description List zones known to the geo index. Requires API key.
// @Tags Zones
// @Produce json
// @Security ApiKeyAuth
// @Param all query bool false "Include deactivated zones"
// @Success 200 {array} models.Zone
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /zones [get]
func (h *Handler) listZones(c *gin.Context) {
	log := h.logger.WithField("method", "listZones")
	all, _ := strconv.ParseBool(c.Query("all"))

	zones, err := h.zones.ListZones(c.Request.Context(), !all)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

// @Summary Find nearby zones
// @Description Find active zones whose center lies within the radius of a point, nearest first. Requires API key.
// @Tags Zones
// @Produce json
// @Security ApiKeyAuth
// @Param lon query number true "Longitude"
// @Param lat query number true "Latitude"
// @Param radius query number false "Radius in meters" default(5000)
// @Success 200 {array} models.ZoneMatch
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /zones/nearby [get]
func (h *Handler) nearbyZones(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyZones")

	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLon != nil || errLat != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon and lat query parameters are required"})
		return
	}
	radius, _ := strconv.ParseFloat(c.Query("radius"), 64)

	matches, err := h.zones.NearbyZones(c.Request.Context(), lon, lat, radius)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// @Summary Check a point against zones
// @Description Return the zones containing a point and the highest effective risk. Requires API key.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param point body CheckLocationRequest true "Point to check"
// @Success 200 {object} models.LocationCheck
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /zones/check [post]
func (h *Handler) checkZones(c *gin.Context) {
	log := h.logger.WithField("method", "checkZones")

	var input CheckLocationRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	check, err := h.zones.CheckLocation(c.Request.Context(), *input.Longitude, *input.Latitude)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// @Summary Create a risk zone
// @Description Create a new zone and add it to the geo index. Requires API key and create_zones permission.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param zone body CreateZoneRequest true "Zone creation request"
// @Success 201 {object} models.Zone
// @Failure 400 {object} map[string]string "Invalid request body or boundary"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 409 {object} map[string]string "Zone already exists"
// @Router /zones [post]
func (h *Handler) createZone(c *gin.Context) {
	log := h.logger.WithField("method", "createZone").WithField("authority_id", authorityFromContext(c).ID)

	var input CreateZoneRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	zone, err := h.zones.CreateZone(c.Request.Context(), DTOToZoneModel(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

// @Summary Update zone risk level
// @Description Change the base risk level of a zone. Requires API key and create_zones permission.
// @Tags Zones
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param name path string true "Zone name"
// @Param risk body UpdateRiskRequest true "New risk level"
// @Success 200 {object} models.Zone
// @Failure 400 {object} map[string]string "Invalid risk level"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Zone not found"
// @Router /zones/{name}/risk [put]
func (h *Handler) updateZoneRisk(c *gin.Context) {
	name := c.Param("name")
	log := h.logger.WithField("method", "updateZoneRisk").WithField("zone", name)

	var input UpdateRiskRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	zone, err := h.zones.UpdateRiskLevel(c.Request.Context(), name, models.RiskLevel(input.RiskLevel))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

// @Summary Deactivate a zone
// @Description Deactivate a zone; it stops matching locations. Requires API key and create_zones permission.
// @Tags Zones
// @Produce json
// @Security ApiKeyAuth
// @Param X-Authority-ID header string true "Authority ID"
// @Param name path string true "Zone name"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Zone not found"
// @Router /zones/{name} [delete]
func (h *Handler) deactivateZone(c *gin.Context) {
	name := c.Param("name")
	log := h.logger.WithField("method", "deactivateZone").WithField("zone", name)

	if err := h.zones.DeactivateZone(c.Request.Context(), name); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
