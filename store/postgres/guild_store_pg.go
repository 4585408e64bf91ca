package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// Ensure GuildStore implements store.GuildStore.
var _ store.GuildStore = (*GuildStore)(nil)

// GuildStore implements store.GuildStore using PostgreSQL. Role-list columns
// are stored as JSON text and decoded through parseRoleList at read time, so
// everything above this layer sees clean slices.
type GuildStore struct {
	db DB
}

// NewGuildStore creates a new GuildStore instance.
func NewGuildStore(db DB) *GuildStore {
	return &GuildStore{db: db}
}

const guildColumns = `id, discord_server_id, title, max_members, leader_id,
		officer_role_ids, access_role_ids, default_role_id, bot_admin_role_ids,
		bot_channel_ids, order_channel_ids, auto_update_embeds,
		notify_on_website_changes, order_fulfillment_bonus,
		website_bonus_percentage, allow_public_orders, created_at, updated_at`

// GetGuild retrieves one guild row by id.
func (s *GuildStore) GetGuild(ctx context.Context, id string) (*types.Guild, error) {
	query := `SELECT ` + guildColumns + ` FROM guilds WHERE id = $1`

	guild, err := scanGuild(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get guild %s: %w", id, err)
	}
	return guild, nil
}

// ListGuildsByServer retrieves every guild hosted on one Discord server.
func (s *GuildStore) ListGuildsByServer(ctx context.Context, discordServerID string) ([]*types.Guild, error) {
	query := `SELECT ` + guildColumns + ` FROM guilds WHERE discord_server_id = $1 ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, discordServerID)
	if err != nil {
		return nil, fmt.Errorf("list guilds for server %s: %w", discordServerID, err)
	}
	defer rows.Close()

	var guilds []*types.Guild
	for rows.Next() {
		guild, err := scanGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guild row: %w", err)
		}
		guilds = append(guilds, guild)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return guilds, nil
}

// ListGuildIDs returns every guild id in the registry.
func (s *GuildStore) ListGuildIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM guilds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list guild ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateGuild inserts a new guild row.
func (s *GuildStore) CreateGuild(ctx context.Context, guild *types.Guild) error {
	query := `
		INSERT INTO guilds (
			id, discord_server_id, title, max_members, leader_id,
			officer_role_ids, access_role_ids, default_role_id, bot_admin_role_ids,
			bot_channel_ids, order_channel_ids, auto_update_embeds,
			notify_on_website_changes, order_fulfillment_bonus,
			website_bonus_percentage, allow_public_orders, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())`

	_, err := s.db.Exec(ctx, query,
		guild.ID,
		guild.DiscordServerID,
		guild.Title,
		guild.MaxMembers,
		nullable(guild.LeaderID),
		encodeRoleList(guild.OfficerRoleIDs),
		encodeRoleList(guild.AccessRoleIDs),
		nullable(guild.DefaultRoleID),
		encodeRoleList(guild.BotAdminRoleIDs),
		encodeRoleList(guild.BotChannelIDs),
		encodeRoleList(guild.OrderChannelIDs),
		guild.AutoUpdateEmbeds,
		guild.NotifyOnWebsiteChanges,
		guild.OrderFulfillmentBonus,
		guild.WebsiteBonusPercentage,
		guild.AllowPublicOrders,
	)
	if err != nil {
		return fmt.Errorf("create guild %s: %w", guild.ID, err)
	}
	return nil
}

// UpdateGuildConfig applies a partial bot-configuration update and returns
// the fresh row.
func (s *GuildStore) UpdateGuildConfig(ctx context.Context, id string, update *types.GuildConfigUpdate) (*types.Guild, error) {
	query := `
		UPDATE guilds SET
			bot_channel_ids = COALESCE($1, bot_channel_ids),
			order_channel_ids = COALESCE($2, order_channel_ids),
			bot_admin_role_ids = COALESCE($3, bot_admin_role_ids),
			auto_update_embeds = COALESCE($4, auto_update_embeds),
			notify_on_website_changes = COALESCE($5, notify_on_website_changes),
			order_fulfillment_bonus = COALESCE($6, order_fulfillment_bonus),
			website_bonus_percentage = COALESCE($7, website_bonus_percentage),
			allow_public_orders = COALESCE($8, allow_public_orders),
			updated_at = NOW()
		WHERE id = $9
		RETURNING ` + guildColumns

	guild, err := scanGuild(s.db.QueryRow(ctx, query,
		encodeOptionalRoleList(update.BotChannelIDs),
		encodeOptionalRoleList(update.OrderChannelIDs),
		encodeOptionalRoleList(update.BotAdminRoleIDs),
		update.AutoUpdateEmbeds,
		update.NotifyOnWebsiteChanges,
		update.OrderFulfillmentBonus,
		update.WebsiteBonusPercentage,
		update.AllowPublicOrders,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("update guild config %s: %w", id, err)
	}
	return guild, nil
}

// SetDefaultRole sets (or clears, with an empty id) the guild's fallback
// member role.
func (s *GuildStore) SetDefaultRole(ctx context.Context, id string, roleID string) error {
	result, err := s.db.Exec(ctx,
		`UPDATE guilds SET default_role_id = $1, updated_at = NOW() WHERE id = $2`,
		nullable(roleID), id,
	)
	if err != nil {
		return fmt.Errorf("set default role for guild %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteGuild removes a guild row. Dependent rows (resources, history,
// leaderboard) cascade via foreign keys.
func (s *GuildStore) DeleteGuild(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM guilds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guild %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// scanGuild reads one guild row, decoding nullable and JSON-text columns.
func scanGuild(row pgx.Row) (*types.Guild, error) {
	var (
		guild         types.Guild
		leaderID      sql.NullString
		officerRoles  sql.NullString
		accessRoles   sql.NullString
		defaultRoleID sql.NullString
		botAdminRoles sql.NullString
		botChannels   sql.NullString
		orderChannels sql.NullString
	)

	err := row.Scan(
		&guild.ID,
		&guild.DiscordServerID,
		&guild.Title,
		&guild.MaxMembers,
		&leaderID,
		&officerRoles,
		&accessRoles,
		&defaultRoleID,
		&botAdminRoles,
		&botChannels,
		&orderChannels,
		&guild.AutoUpdateEmbeds,
		&guild.NotifyOnWebsiteChanges,
		&guild.OrderFulfillmentBonus,
		&guild.WebsiteBonusPercentage,
		&guild.AllowPublicOrders,
		&guild.CreatedAt,
		&guild.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	guild.LeaderID = leaderID.String
	guild.DefaultRoleID = defaultRoleID.String
	guild.OfficerRoleIDs = parseRoleList(officerRoles.String)
	guild.AccessRoleIDs = parseRoleList(accessRoles.String)
	guild.BotAdminRoleIDs = parseRoleList(botAdminRoles.String)
	guild.BotChannelIDs = parseRoleList(botChannels.String)
	guild.OrderChannelIDs = parseRoleList(orderChannels.String)

	return &guild, nil
}

// nullable maps empty strings to NULL so optional columns stay NULL instead
// of accumulating empty-string sentinels.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// encodeOptionalRoleList encodes a pointer-to-slice for COALESCE updates:
// nil means "leave the column alone".
func encodeOptionalRoleList(ids *[]string) any {
	if ids == nil {
		return nil
	}
	return encodeRoleList(*ids)
}
