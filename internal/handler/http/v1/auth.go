package v1

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	headerTouristID   = "X-Tourist-ID"
	headerAuthorityID = "X-Authority-ID"

	ctxTouristID = "tourist_id"
	ctxAuthority = "authority"
)

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !slices.Contains(cfg.APIKeys, apiKey) {
			log.WithField("path", c.FullPath()).Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// requireTourist берет личность туриста из X-Tourist-ID, выставленного шлюзом
func (h *Handler) requireTourist() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(headerTouristID))
		if err != nil {
			h.logger.WithField("path", c.FullPath()).Warn("Tourist identity missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "valid X-Tourist-ID header required"})
			return
		}
		c.Set(ctxTouristID, id)
		c.Next()
	}
}

// requireAuthority загружает сотрудника из X-Authority-ID и проверяет право perm; пустой perm - любой активный сотрудник
func (h *Handler) requireAuthority(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := h.logger.WithFields(logrus.Fields{"path": c.FullPath(), "permission": perm})

		id, err := uuid.Parse(c.GetHeader(headerAuthorityID))
		if err != nil {
			log.Warn("Authority identity missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "valid X-Authority-ID header required"})
			return
		}

		authority, err := h.lookupAuthority(c, id)
		if err != nil {
			h.respondError(c, log, err)
			c.Abort()
			return
		}
		if !authority.IsActive {
			log.WithField("authority_id", id).Warn("Inactive authority rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "authority is not active"})
			return
		}
		if perm != "" && !authority.HasPermission(perm) {
			log.WithField("authority_id", id).Warn("Permission denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing permission " + string(perm)})
			return
		}

		c.Set(ctxAuthority, authority)
		c.Next()
	}
}

func (h *Handler) lookupAuthority(c *gin.Context, id uuid.UUID) (*models.Authority, error) {
	if cached, ok := h.authCache.Get(id.String()); ok {
		return cached.(*models.Authority), nil
	}
	authority, err := h.authorities.GetAuthority(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	h.authCache.Set(id.String(), authority, gocache.DefaultExpiration)
	return authority, nil
}

// forgetAuthority сбрасывает кэш после изменения записи сотрудника
func (h *Handler) forgetAuthority(id uuid.UUID) {
	h.authCache.Delete(id.String())
}

func touristFromContext(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxTouristID).(uuid.UUID)
}

func authorityFromContext(c *gin.Context) *models.Authority {
	return c.MustGet(ctxAuthority).(*models.Authority)
}
