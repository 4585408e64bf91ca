package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// ResourceKey is the context key for the resource loaded by
// RequireResourceCapability (*types.Resource).
const ResourceKey contextKey = "resource"

// RequireResourceCapability loads the resource named in the :id route
// parameter, resolves the caller's capabilities on its owning guild and aborts
// unless the selected capability is granted. The resource and the capability
// set are stored in the context so handlers don't reload either.
func RequireResourceCapability(engine *guildaccess.Engine, resources store.ResourceStore, selector CapabilitySelector) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		resourceID := c.Param("id")
		if resourceID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "BadRequest",
				"message": "Resource ID is required",
			})
			return
		}

		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			return
		}

		resource, err := resources.GetResource(c.Request.Context(), resourceID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				_ = c.Error(apperrors.New(apperrors.ResourceNotFound, "Resource not found", "ID: "+resourceID))
			} else {
				_ = c.Error(apperrors.NewDatabaseError(err))
			}
			c.Abort()
			return
		}

		caps, err := engine.Resolve(c.Request.Context(), identity, resource.GuildID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		if !selector(caps) {
			log.Warnw("Resource access denied",
				"resourceID", resourceID,
				"guildID", resource.GuildID,
				"userID", identity.UserID,
				"tier", caps.Tier,
			)
			_ = c.Error(apperrors.GuildAccessDenied(identity.UserID, resource.GuildID))
			c.Abort()
			return
		}

		c.Set(string(ResourceKey), resource)
		c.Set(string(CapabilitiesKey), caps)
		c.Next()
	}
}

// GetResource retrieves the resource stored by RequireResourceCapability.
func GetResource(c *gin.Context) (*types.Resource, bool) {
	v, exists := c.Get(string(ResourceKey))
	if !exists {
		return nil, false
	}
	resource, ok := v.(*types.Resource)
	return resource, ok
}
