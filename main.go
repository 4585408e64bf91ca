package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/guildgamesh/guildgamesh-backend/config"
	"github.com/guildgamesh/guildgamesh-backend/db"
	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/handlers"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/router"
	"github.com/guildgamesh/guildgamesh-backend/services"
	"github.com/guildgamesh/guildgamesh-backend/store/postgres"
)

const version = "1.0.0"

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := config.InitDBPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.IsProduction() && !cfg.Redis.UseTLS {
		// Managed Redis providers require TLS; local docker does not.
		log.Warn("Running in production without Redis TLS")
	}
	redisClient, err := config.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Failed to close Redis client", "error", err)
		}
	}()

	guildStore := postgres.NewGuildStore(pool)
	resourceStore := postgres.NewResourceStore(pool)
	historyStore := postgres.NewHistoryStore(pool)
	leaderboardStore := postgres.NewLeaderboardStore(pool)

	engine := guildaccess.NewEngine(guildStore, cfg.Discord.SuperAdminUserID)

	healthService := services.NewHealthService(pool, redisClient, version)

	deps := router.Dependencies{
		Config:             cfg,
		Engine:             engine,
		ResourceStore:      resourceStore,
		GuildHandler:       handlers.NewGuildHandler(guildStore, engine),
		ResourceHandler:    handlers.NewResourceHandler(resourceStore, historyStore, leaderboardStore),
		HistoryHandler:     handlers.NewHistoryHandler(resourceStore, historyStore),
		LeaderboardHandler: handlers.NewLeaderboardHandler(leaderboardStore, engine),
		HealthHandler:      handlers.NewHealthHandler(healthService),
		RedisClient:        redisClient,
		Logger:             log,
	}

	r := router.SetupRouter(deps)
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Fatalf("Failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.IsProduction() {
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
}
