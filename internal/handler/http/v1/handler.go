package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shenikar/tourist_safety_system/internal/apperror"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	alerts      service.AlertEngine
	locations   service.LocationProcessor
	zones       service.ZoneService
	authorities service.AuthorityService
	logger      *logrus.Logger
	validate    *validator.Validate
	cfg         *config.Config
	// authCache хранит записи сотрудников для проверки прав, ключ - ID сотрудника
	authCache *gocache.Cache
}

func NewHandler(
	alerts service.AlertEngine,
	locations service.LocationProcessor,
	zones service.ZoneService,
	authorities service.AuthorityService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	ttl := cfg.AuthCacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Handler{
		alerts:      alerts,
		locations:   locations,
		zones:       zones,
		authorities: authorities,
		logger:      logger,
		validate:    validator.New(),
		cfg:         cfg,
		authCache:   gocache.New(ttl, 2*ttl),
	}
}

// bindJSON разбирает и проверяет тело запроса; при ошибке ответ уже отправлен
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError переводит ошибку ядра в HTTP-ответ
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	kind, _ := apperror.KindOf(err)
	switch kind {
	case apperror.KindValidation:
		log.WithError(err).Warn("Request rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperror.KindNotFound:
		log.WithError(err).Warn("Resource not found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperror.KindConflict:
		log.WithError(err).Warn("Conflicting request")
		body := gin.H{"error": err.Error()}
		if status, ok := apperror.ValueOf(err, "status"); ok {
			body["status"] = status
		}
		c.JSON(http.StatusConflict, body)
	case apperror.KindDependency:
		log.WithError(err).Error("Dependency failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream dependency failure"})
	default:
		log.WithError(err).Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// queryInt читает целый параметр запроса; некорректное значение дает def
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
