// Package store defines the persistence interfaces the rest of the
// application depends on. Implementations live in subpackages (postgres).
package store

import (
	"context"
	"time"

	"github.com/guildgamesh/guildgamesh-backend/types"
)

// GuildStore is the registry of in-game guilds and their authority
// configuration. Reads return fully-parsed rows: role-list columns are
// decoded at load time so callers always see clean string slices.
type GuildStore interface {
	GetGuild(ctx context.Context, id string) (*types.Guild, error)
	ListGuildsByServer(ctx context.Context, discordServerID string) ([]*types.Guild, error)
	ListGuildIDs(ctx context.Context) ([]string, error)
	CreateGuild(ctx context.Context, guild *types.Guild) error
	UpdateGuildConfig(ctx context.Context, id string, update *types.GuildConfigUpdate) (*types.Guild, error)
	SetDefaultRole(ctx context.Context, id string, roleID string) error
	DeleteGuild(ctx context.Context, id string) error
}

// ResourceStore handles the tracked stock items of a guild.
type ResourceStore interface {
	CreateResource(ctx context.Context, resource *types.Resource) (string, error)
	GetResource(ctx context.Context, id string) (*types.Resource, error)
	ListResources(ctx context.Context, guildID string) ([]*types.Resource, error)
	UpdateResource(ctx context.Context, id string, update *types.ResourceUpdate) (*types.Resource, error)
	SetQuantity(ctx context.Context, id string, quantity int, status types.ResourceStatus, updatedBy string) (*types.Resource, error)
	SetTarget(ctx context.Context, id string, target int, status types.ResourceStatus) (*types.Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// HistoryStore records quantity changes.
type HistoryStore interface {
	AddEntry(ctx context.Context, entry *types.HistoryEntry) (string, error)
	GetEntry(ctx context.Context, id string) (*types.HistoryEntry, error)
	ListByResource(ctx context.Context, resourceID string, limit, offset int) ([]*types.HistoryEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// LeaderboardStore persists scored actions and aggregates rankings. Every
// read takes the caller's accessible guild ids; an empty set yields empty
// results so no tenant's rows can leak through an unscoped query.
type LeaderboardStore interface {
	AddEntry(ctx context.Context, entry *types.LeaderboardEntry) (string, error)
	Rankings(ctx context.Context, guildIDs []string, since time.Time, limit, offset int) ([]*types.LeaderboardRanking, error)
	UserContributions(ctx context.Context, userID string, guildIDs []string, since time.Time, limit, offset int) ([]*types.LeaderboardEntry, error)
}
