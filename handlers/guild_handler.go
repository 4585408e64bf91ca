// Package handlers contains the Gin HTTP handlers for the API surface.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/guildaccess"
	"github.com/guildgamesh/guildgamesh-backend/logger"
	"github.com/guildgamesh/guildgamesh-backend/middleware"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

type GuildHandler struct {
	guildStore store.GuildStore
	engine     *guildaccess.Engine
}

func NewGuildHandler(guildStore store.GuildStore, engine *guildaccess.Engine) *GuildHandler {
	return &GuildHandler{
		guildStore: guildStore,
		engine:     engine,
	}
}

// ListGuildsHandler returns every guild the caller can see. A caller in zero
// Discord servers gets an empty list, not an error.
func (h *GuildHandler) ListGuildsHandler(c *gin.Context) {
	log := logger.GetLogger()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ids, err := h.engine.AccessibleGuildIDs(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	guilds := make([]*types.Guild, 0, len(ids))
	for _, id := range ids {
		guild, err := h.guildStore.GetGuild(c.Request.Context(), id)
		if err != nil {
			// A guild deleted between enumeration and fetch is not an error
			// worth failing the whole listing for.
			log.Warnw("Skipping unloadable guild in listing", "guildID", id, "error", err)
			continue
		}
		guilds = append(guilds, guild)
	}

	c.JSON(http.StatusOK, guilds)
}

type createGuildRequest struct {
	ID              string   `json:"id" binding:"required"`
	DiscordServerID string   `json:"discordServerId" binding:"required"`
	Title           string   `json:"title" binding:"required"`
	MaxMembers      int      `json:"maxMembers"`
	LeaderID        string   `json:"leaderId"`
	OfficerRoleIDs  []string `json:"officerRoleIds"`
	AccessRoleIDs   []string `json:"accessRoleIds"`
	DefaultRoleID   string   `json:"defaultRoleId"`
	BotAdminRoleIDs []string `json:"botAdminRoleIds"`
}

// CreateGuildHandler registers a guild on a Discord server. There is no guild
// to resolve capabilities against yet, so the gate is server authority on the
// target server: owner, ADMINISTRATOR, or the super admin.
func (h *GuildHandler) CreateGuildHandler(c *gin.Context) {
	log := logger.GetLogger()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req createGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	if !h.engine.IsSuperAdmin(identity) &&
		!identity.OwnsServer(req.DiscordServerID) &&
		!identity.IsAdministratorOf(req.DiscordServerID) {
		log.Warnw("Guild registration denied",
			"userID", identity.UserID,
			"discordServerID", req.DiscordServerID)
		_ = c.Error(apperrors.Forbidden("Guild registration denied",
			"registering a guild requires owner or administrator authority on its Discord server"))
		return
	}

	if _, err := h.guildStore.GetGuild(c.Request.Context(), req.ID); err == nil {
		_ = c.Error(apperrors.NewConflictError("Guild already exists", "Guild ID: "+req.ID))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	guild := &types.Guild{
		ID:              req.ID,
		DiscordServerID: req.DiscordServerID,
		Title:           req.Title,
		MaxMembers:      req.MaxMembers,
		LeaderID:        req.LeaderID,
		OfficerRoleIDs:  req.OfficerRoleIDs,
		AccessRoleIDs:   req.AccessRoleIDs,
		DefaultRoleID:   req.DefaultRoleID,
		BotAdminRoleIDs: req.BotAdminRoleIDs,
	}
	if err := h.guildStore.CreateGuild(c.Request.Context(), guild); err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	log.Infow("Guild registered",
		"guildID", guild.ID,
		"discordServerID", guild.DiscordServerID,
		"userID", identity.UserID)
	c.JSON(http.StatusCreated, guild)
}

// GetGuildHandler returns the guild loaded for the capability check.
func (h *GuildHandler) GetGuildHandler(c *gin.Context) {
	guild, err := h.guildStore.GetGuild(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		_ = c.Error(guildLoadError(err, c.Param("guildId")))
		return
	}
	c.JSON(http.StatusOK, guild)
}

// permissionsResponse is the wire shape of the permissions probe.
type permissionsResponse struct {
	GuildID             string               `json:"guildId"`
	Tier                types.MembershipTier `json:"tier"`
	IsServerOwner       bool                 `json:"isServerOwner"`
	IsAdministrator     bool                 `json:"isAdministrator"`
	IsBotAdmin          bool                 `json:"isBotAdmin"`
	IsSuperAdmin        bool                 `json:"isSuperAdmin"`
	CanView             bool                 `json:"canView"`
	CanUpdateQuantity   bool                 `json:"canUpdateQuantity"`
	CanManageResource   bool                 `json:"canManageResource"`
	CanEditTarget       bool                 `json:"canEditTarget"`
	CanAdministerConfig bool                 `json:"canAdministerConfig"`
	CanDeleteGuild      bool                 `json:"canDeleteGuild"`
}

// GetPermissionsHandler reports the caller's full capability set for a guild.
// Having no access is a valid answer here, so this route performs its own
// resolution instead of sitting behind a capability gate: only an unknown
// guild produces an error.
func (h *GuildHandler) GetPermissionsHandler(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	caps, err := h.engine.Resolve(c.Request.Context(), identity, c.Param("guildId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, permissionsResponse{
		GuildID:             caps.GuildID,
		Tier:                caps.Tier,
		IsServerOwner:       caps.Server.IsOwner,
		IsAdministrator:     caps.Server.IsAdministrator,
		IsBotAdmin:          caps.Server.IsBotAdmin,
		IsSuperAdmin:        caps.IsSuperAdmin,
		CanView:             caps.CanView,
		CanUpdateQuantity:   caps.CanUpdateQuantity,
		CanManageResource:   caps.CanManageResource,
		CanEditTarget:       caps.CanEditTarget,
		CanAdministerConfig: caps.CanAdministerConfig,
		CanDeleteGuild:      caps.CanDeleteGuild,
	})
}

// DeleteGuildHandler removes the guild and all dependent rows.
func (h *GuildHandler) DeleteGuildHandler(c *gin.Context) {
	log := logger.GetLogger()
	guildID := c.Param("guildId")

	if err := h.guildStore.DeleteGuild(c.Request.Context(), guildID); err != nil {
		_ = c.Error(guildLoadError(err, guildID))
		return
	}

	log.Infow("Guild deleted",
		"guildID", guildID,
		"userID", c.GetString(string(middleware.UserIDKey)))
	c.JSON(http.StatusOK, gin.H{"message": "Guild deleted successfully"})
}

// GetConfigHandler returns the guild's bot configuration.
func (h *GuildHandler) GetConfigHandler(c *gin.Context) {
	guild, err := h.guildStore.GetGuild(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		_ = c.Error(guildLoadError(err, c.Param("guildId")))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId":                guild.ID,
		"botChannelIds":          guild.BotChannelIDs,
		"orderChannelIds":        guild.OrderChannelIDs,
		"botAdminRoleIds":        guild.BotAdminRoleIDs,
		"autoUpdateEmbeds":       guild.AutoUpdateEmbeds,
		"notifyOnWebsiteChanges": guild.NotifyOnWebsiteChanges,
		"orderFulfillmentBonus":  guild.OrderFulfillmentBonus,
		"websiteBonusPercentage": guild.WebsiteBonusPercentage,
		"allowPublicOrders":      guild.AllowPublicOrders,
	})
}

// UpdateConfigHandler applies a partial bot-configuration update.
func (h *GuildHandler) UpdateConfigHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req types.GuildConfigUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	guildID := c.Param("guildId")
	guild, err := h.guildStore.UpdateGuildConfig(c.Request.Context(), guildID, &req)
	if err != nil {
		_ = c.Error(guildLoadError(err, guildID))
		return
	}

	c.JSON(http.StatusOK, guild)
}

type setDefaultRoleRequest struct {
	RoleID string `json:"roleId" binding:"required"`
}

// SetDefaultRoleHandler sets the role that grants baseline member access.
func (h *GuildHandler) SetDefaultRoleHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req setDefaultRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorw("Invalid request body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	guildID := c.Param("guildId")
	if err := h.guildStore.SetDefaultRole(c.Request.Context(), guildID, req.RoleID); err != nil {
		_ = c.Error(guildLoadError(err, guildID))
		return
	}

	log.Infow("Default role updated", "guildID", guildID, "roleID", req.RoleID)
	c.JSON(http.StatusOK, gin.H{"message": "Default role updated"})
}

// guildLoadError maps store failures on guild reads to API errors.
func guildLoadError(err error, guildID string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.GuildNotFound(guildID)
	}
	return apperrors.NewDatabaseError(err)
}
