package guildaccess

import (
	"context"
	"errors"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// Registry is the guild configuration source the engine reads from. Reads are
// snapshot-consistent per call: each resolution loads the guild row once and
// never re-reads it mid-decision.
type Registry interface {
	GetGuild(ctx context.Context, id string) (*types.Guild, error)
	ListGuildsByServer(ctx context.Context, discordServerID string) ([]*types.Guild, error)
	ListGuildIDs(ctx context.Context) ([]string, error)
}

// Engine resolves per-guild capability sets. It is stateless and safe for
// concurrent use; the super-admin id is fixed at construction so resolution
// never reads ambient configuration.
type Engine struct {
	registry         Registry
	superAdminUserID string
}

// NewEngine creates an Engine. superAdminUserID may be empty, in which case
// no user receives the global override.
func NewEngine(registry Registry, superAdminUserID string) *Engine {
	return &Engine{
		registry:         registry,
		superAdminUserID: superAdminUserID,
	}
}

// IsSuperAdmin reports whether the identity is the configured super admin.
func (e *Engine) IsSuperAdmin(identity types.IdentityContext) bool {
	return e.superAdminUserID != "" && identity.UserID == e.superAdminUserID
}

// Resolve loads the guild and computes the caller's capability set for it.
// The only error it returns is GuildNotFound (plus storage failures); lack of
// permission is always a value, never an error.
func (e *Engine) Resolve(ctx context.Context, identity types.IdentityContext, guildID string) (*types.CapabilitySet, error) {
	guild, err := e.registry.GetGuild(ctx, guildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.GuildNotFound(guildID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return e.ResolveGuild(identity, guild), nil
}

// ResolveGuild computes the capability set against an already-loaded guild
// row. Pure computation; callers that hold the row (enumeration, handlers
// that just fetched it) use this to avoid a second registry read.
func (e *Engine) ResolveGuild(identity types.IdentityContext, guild *types.Guild) *types.CapabilitySet {
	// The super-admin override is the single highest-precedence rule and
	// short-circuits everything else, orphaned guilds included.
	if e.IsSuperAdmin(identity) {
		superAdminResolutions.Inc()
		return superAdminCapabilities(guild.ID)
	}

	// A guild with no server binding is orphaned: role ids cannot be scoped
	// to a server, so role-based logic must not reach it.
	if guild.DiscordServerID == "" {
		orphanedGuildResolutions.Inc()
		resolutionsTotal.WithLabelValues(string(types.TierNone)).Inc()
		return types.NoAccess(guild.ID)
	}

	serverID := guild.DiscordServerID

	// Membership in the hosting Discord server is a necessary precondition.
	// Without it, no role overlap and no foreign-server authority matters.
	if !identity.IsMemberOf(serverID) {
		resolutionsTotal.WithLabelValues(string(types.TierNone)).Inc()
		return types.NoAccess(guild.ID)
	}

	serverAuth := ResolveServerAuthority(identity, serverID, guild.BotAdminRoleIDs)
	guildTier := ResolveGuildTier(guild, identity.UserID, identity.RolesOn(serverID))

	// Whoever controls the Discord server controls every guild hosted on it:
	// owner or ADMINISTRATOR is leader-equivalent for this server's guilds.
	effectiveTier := guildTier
	if serverAuth.IsOwner || serverAuth.IsAdministrator {
		effectiveTier = effectiveTier.Max(types.TierLeader)
	}

	caps := &types.CapabilitySet{
		GuildID: guild.ID,
		Tier:    effectiveTier,
		Server:  serverAuth,

		CanView:             effectiveTier.AtLeast(types.TierMember) || serverAuth.IsBotAdmin,
		CanUpdateQuantity:   effectiveTier.AtLeast(types.TierMember),
		CanManageResource:   effectiveTier.AtLeast(types.TierOfficer),
		CanEditTarget:       effectiveTier.AtLeast(types.TierOfficer),
		CanAdministerConfig: serverAuth.IsBotAdmin || effectiveTier.AtLeast(types.TierLeader),
		// Deleting a tenant is a server-level decision; guild tier alone is
		// never sufficient.
		CanDeleteGuild: serverAuth.IsOwner || serverAuth.IsAdministrator,
	}

	resolutionsTotal.WithLabelValues(string(effectiveTier)).Inc()
	return caps
}

// AccessibleGuildIDs enumerates every guild the identity can see: all guilds
// for the super admin, otherwise the union over the identity's Discord
// servers of guilds with a non-none tier or bot-admin visibility
// (configuration screens list bot-admin guilds even without membership tier).
// A user in zero servers gets an empty slice, never an error.
func (e *Engine) AccessibleGuildIDs(ctx context.Context, identity types.IdentityContext) ([]string, error) {
	if e.IsSuperAdmin(identity) {
		ids, err := e.registry.ListGuildIDs(ctx)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		return ids, nil
	}

	accessible := []string{}
	for _, serverID := range identity.MemberServerIDs {
		guilds, err := e.registry.ListGuildsByServer(ctx, serverID)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		for _, guild := range guilds {
			caps := e.ResolveGuild(identity, guild)
			if caps.Tier != types.TierNone || caps.Server.IsBotAdmin {
				accessible = append(accessible, guild.ID)
			}
		}
	}
	return accessible, nil
}

// superAdminCapabilities is the maximal capability set.
func superAdminCapabilities(guildID string) *types.CapabilitySet {
	return &types.CapabilitySet{
		GuildID: guildID,
		Tier:    types.TierLeader,
		Server: types.ServerAuthority{
			IsOwner:         true,
			IsAdministrator: true,
			IsBotAdmin:      true,
		},
		IsSuperAdmin:        true,
		CanView:             true,
		CanUpdateQuantity:   true,
		CanManageResource:   true,
		CanEditTarget:       true,
		CanAdministerConfig: true,
		CanDeleteGuild:      true,
	}
}
