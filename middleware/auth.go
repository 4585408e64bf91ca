package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guildgamesh/guildgamesh-backend/config"
	"github.com/guildgamesh/guildgamesh-backend/internal/auth"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// AuthMiddleware validates the Bearer session token and stores the decoded
// identity snapshot in the gin context for downstream handlers.
func AuthMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		var token string
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			log.Warnw("No token provided in request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization required",
			})
			return
		}

		identity, err := auth.ValidateSessionToken(token, cfg.JwtSecretKey)
		if err != nil {
			log.Warnw("Invalid session token",
				"error", err,
				"token", logger.MaskToken(token),
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(string(UserIDKey), identity.UserID)
		c.Set(string(IdentityKey), identity)

		c.Next()
	}
}

// GetIdentity retrieves the identity snapshot stored by AuthMiddleware.
func GetIdentity(c *gin.Context) (types.IdentityContext, bool) {
	v, exists := c.Get(string(IdentityKey))
	if !exists {
		return types.IdentityContext{}, false
	}
	identity, ok := v.(types.IdentityContext)
	return identity, ok
}
