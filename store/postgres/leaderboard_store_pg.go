package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

var _ store.LeaderboardStore = (*LeaderboardStore)(nil)

// LeaderboardStore implements store.LeaderboardStore using PostgreSQL.
//
// Every read takes the caller's accessible guild ids and returns nothing when
// the set is empty: rankings queries must always be tenant-scoped.
type LeaderboardStore struct {
	db DB
}

// NewLeaderboardStore creates a new LeaderboardStore instance.
func NewLeaderboardStore(db DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

// AddEntry persists one scored action and returns the entry id.
func (s *LeaderboardStore) AddEntry(ctx context.Context, entry *types.LeaderboardEntry) (string, error) {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO leaderboard (
			id, guild_id, user_id, resource_id, action_type, quantity_changed,
			base_points, resource_multiplier, status_bonus, final_points,
			resource_name, resource_category, resource_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING id`

	row := s.db.QueryRow(ctx, query,
		id,
		entry.GuildID,
		entry.UserID,
		entry.ResourceID,
		string(entry.ActionType),
		entry.QuantityChanged,
		entry.BasePoints,
		entry.ResourceMultiplier,
		entry.StatusBonus,
		entry.FinalPoints,
		entry.ResourceName,
		entry.ResourceCategory,
		string(entry.ResourceStatus),
	)

	var created string
	if err := row.Scan(&created); err != nil {
		return "", fmt.Errorf("add leaderboard entry for user %s: %w", entry.UserID, err)
	}
	return created, nil
}

// Rankings aggregates total points per user across the given guilds, highest
// first. A zero since time means no time filter.
func (s *LeaderboardStore) Rankings(ctx context.Context, guildIDs []string, since time.Time, limit, offset int) ([]*types.LeaderboardRanking, error) {
	if len(guildIDs) == 0 {
		return []*types.LeaderboardRanking{}, nil
	}

	query := `
		SELECT user_id, SUM(final_points) AS total_points, COUNT(*) AS total_actions
		FROM leaderboard
		WHERE guild_id = ANY($1) AND created_at >= $2
		GROUP BY user_id
		ORDER BY total_points DESC
		LIMIT $3 OFFSET $4`

	rows, err := s.db.Query(ctx, query, guildIDs, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []*types.LeaderboardRanking
	for rows.Next() {
		ranking := &types.LeaderboardRanking{}
		if err := rows.Scan(&ranking.UserID, &ranking.TotalPoints, &ranking.TotalActions); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		rankings = append(rankings, ranking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rankings, nil
}

// UserContributions retrieves a page of one user's scored actions across the
// given guilds, newest first.
func (s *LeaderboardStore) UserContributions(ctx context.Context, userID string, guildIDs []string, since time.Time, limit, offset int) ([]*types.LeaderboardEntry, error) {
	if len(guildIDs) == 0 {
		return []*types.LeaderboardEntry{}, nil
	}

	query := `
		SELECT id, guild_id, user_id, resource_id, action_type, quantity_changed,
			base_points, resource_multiplier, status_bonus, final_points,
			resource_name, resource_category, resource_status, created_at
		FROM leaderboard
		WHERE user_id = $1 AND guild_id = ANY($2) AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := s.db.Query(ctx, query, userID, guildIDs, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query contributions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []*types.LeaderboardEntry
	for rows.Next() {
		entry := &types.LeaderboardEntry{}
		var actionType, status string
		err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.UserID,
			&entry.ResourceID,
			&actionType,
			&entry.QuantityChanged,
			&entry.BasePoints,
			&entry.ResourceMultiplier,
			&entry.StatusBonus,
			&entry.FinalPoints,
			&entry.ResourceName,
			&entry.ResourceCategory,
			&status,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contribution row: %w", err)
		}
		entry.ActionType = types.ActionType(actionType)
		entry.ResourceStatus = types.ResourceStatus(status)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
