package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/middleware"
	"github.com/guildgamesh/guildgamesh-backend/store"
)

type LeaderboardHandler struct {
	leaderboardStore store.LeaderboardStore
	engine           *guildaccess.Engine
}

func NewLeaderboardHandler(leaderboard store.LeaderboardStore, engine *guildaccess.Engine) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardStore: leaderboard,
		engine:           engine,
	}
}

// sinceParam parses the optional ?since= query (RFC 3339). Zero time means
// all-time rankings.
func sinceParam(c *gin.Context) (time.Time, error) {
	raw := c.Query("since")
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// GetRankingsHandler returns aggregated point totals across every guild the
// caller can see. Scoping to accessible guilds happens before the query, so
// one tenant's totals can never include another's rows.
func (h *LeaderboardHandler) GetRankingsHandler(c *gin.Context) {
	log := logger.GetLogger()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	since, err := sinceParam(c)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid since parameter", "since must be an RFC 3339 timestamp"))
		return
	}

	guildIDs, err := h.engine.AccessibleGuildIDs(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	params := getPaginationParams(c, 100, 0)
	rankings, err := h.leaderboardStore.Rankings(c.Request.Context(), guildIDs, since, params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	log.Debugw("Leaderboard rankings served",
		"userID", identity.UserID,
		"guildCount", len(guildIDs),
		"rows", len(rankings))
	c.JSON(http.StatusOK, rankings)
}

// GetUserContributionsHandler returns one user's scored actions, limited to
// the caller's accessible guilds.
func (h *LeaderboardHandler) GetUserContributionsHandler(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	since, err := sinceParam(c)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid since parameter", "since must be an RFC 3339 timestamp"))
		return
	}

	guildIDs, err := h.engine.AccessibleGuildIDs(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	params := getPaginationParams(c, 50, 0)
	entries, err := h.leaderboardStore.UserContributions(c.Request.Context(), c.Param("userId"), guildIDs, since, params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, entries)
}
