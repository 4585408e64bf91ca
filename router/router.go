package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/guildgamesh/guildgamesh-backend/config"
	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/handlers"
	"github.com/guildgamesh/guildgamesh-backend/middleware"
	"github.com/guildgamesh/guildgamesh-backend/store"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config             *config.Config
	Engine             *guildaccess.Engine
	ResourceStore      store.ResourceStore
	GuildHandler       *handlers.GuildHandler
	ResourceHandler    *handlers.ResourceHandler
	HistoryHandler     *handlers.HistoryHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	HealthHandler      *handlers.HealthHandler
	RedisClient        *redis.Client
	Logger             *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and metrics routes (no auth)
	r.GET("/health", deps.HealthHandler.ReadinessCheck)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		authRoutes := v1.Group("")
		authRoutes.Use(middleware.AuthMiddleware(&deps.Config.Server))
		if deps.RedisClient != nil {
			authRoutes.Use(middleware.APIRateLimiter(
				deps.RedisClient,
				deps.Config.RateLimit.RequestsPerWindow,
				time.Duration(deps.Config.RateLimit.WindowSeconds)*time.Second,
			))
		}
		{
			// Guild routes
			guildRoutes := authRoutes.Group("/guilds")
			{
				guildRoutes.GET("", deps.GuildHandler.ListGuildsHandler)
				// Registration is gated on server authority inside the
				// handler; there is no guild to resolve against yet.
				guildRoutes.POST("", deps.GuildHandler.CreateGuildHandler)
				guildRoutes.GET("/:guildId",
					middleware.RequireCapability(deps.Engine, middleware.CanView),
					deps.GuildHandler.GetGuildHandler)
				guildRoutes.GET("/:guildId/permissions", deps.GuildHandler.GetPermissionsHandler)
				guildRoutes.DELETE("/:guildId",
					middleware.RequireCapability(deps.Engine, middleware.CanDeleteGuild),
					deps.GuildHandler.DeleteGuildHandler)

				// Bot configuration
				guildRoutes.GET("/:guildId/config",
					middleware.RequireCapability(deps.Engine, middleware.CanAdministerConfig),
					deps.GuildHandler.GetConfigHandler)
				guildRoutes.PUT("/:guildId/config",
					middleware.RequireCapability(deps.Engine, middleware.CanAdministerConfig),
					deps.GuildHandler.UpdateConfigHandler)
				guildRoutes.PUT("/:guildId/default-role",
					middleware.RequireCapability(deps.Engine, middleware.CanAdministerConfig),
					deps.GuildHandler.SetDefaultRoleHandler)

				// Guild-scoped resource routes
				guildRoutes.GET("/:guildId/resources",
					middleware.RequireCapability(deps.Engine, middleware.CanView),
					deps.ResourceHandler.ListResourcesHandler)
				guildRoutes.POST("/:guildId/resources",
					middleware.RequireCapability(deps.Engine, middleware.CanManageResource),
					deps.ResourceHandler.CreateResourceHandler)
			}

			// Resource routes addressed by resource id; capability checks go
			// through the owning guild.
			resourceRoutes := authRoutes.Group("/resources")
			{
				resourceRoutes.PUT("/:id",
					middleware.RequireResourceCapability(deps.Engine, deps.ResourceStore, middleware.CanManageResource),
					deps.ResourceHandler.UpdateResourceHandler)
				resourceRoutes.PATCH("/:id/quantity",
					middleware.RequireResourceCapability(deps.Engine, deps.ResourceStore, middleware.CanUpdateQuantity),
					deps.ResourceHandler.UpdateQuantityHandler)
				resourceRoutes.PUT("/:id/target",
					middleware.RequireResourceCapability(deps.Engine, deps.ResourceStore, middleware.CanEditTarget),
					deps.ResourceHandler.SetTargetHandler)
				resourceRoutes.DELETE("/:id",
					middleware.RequireResourceCapability(deps.Engine, deps.ResourceStore, middleware.CanManageResource),
					deps.ResourceHandler.DeleteResourceHandler)

				// History routes
				resourceRoutes.GET("/:id/history",
					middleware.RequireResourceCapability(deps.Engine, deps.ResourceStore, middleware.CanView),
					deps.HistoryHandler.ListHistoryHandler)
				resourceRoutes.DELETE("/:id/history/:entryId",
					middleware.RequireResourceCapability(deps.Engine, deps.ResourceStore, middleware.CanManageResource),
					deps.HistoryHandler.DeleteHistoryEntryHandler)
			}

			// Leaderboard routes
			leaderboardRoutes := authRoutes.Group("/leaderboard")
			{
				leaderboardRoutes.GET("", deps.LeaderboardHandler.GetRankingsHandler)
				leaderboardRoutes.GET("/:userId", deps.LeaderboardHandler.GetUserContributionsHandler)
			}
		}
	}

	return r
}
