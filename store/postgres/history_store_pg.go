package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/guildgamesh/guildgamesh-backend/store"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

var _ store.HistoryStore = (*HistoryStore)(nil)

// HistoryStore implements store.HistoryStore using PostgreSQL.
type HistoryStore struct {
	db DB
}

// NewHistoryStore creates a new HistoryStore instance.
func NewHistoryStore(db DB) *HistoryStore {
	return &HistoryStore{db: db}
}

const historyColumns = `id, resource_id, guild_id, previous_quantity,
		new_quantity, change_amount, change_type, updated_by, reason, created_at`

// AddEntry records one quantity change and returns the entry id.
func (s *HistoryStore) AddEntry(ctx context.Context, entry *types.HistoryEntry) (string, error) {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO resource_history (
			id, resource_id, guild_id, previous_quantity, new_quantity,
			change_amount, change_type, updated_by, reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id`

	row := s.db.QueryRow(ctx, query,
		id,
		entry.ResourceID,
		entry.GuildID,
		entry.PreviousQuantity,
		entry.NewQuantity,
		entry.ChangeAmount,
		string(entry.ChangeType),
		entry.UpdatedBy,
		// reason is NOT NULL DEFAULT '' in the schema; an absent reason is ''.
		entry.Reason,
	)

	var created string
	if err := row.Scan(&created); err != nil {
		return "", fmt.Errorf("add history entry for resource %s: %w", entry.ResourceID, err)
	}
	return created, nil
}

// GetEntry retrieves one history entry by id.
func (s *HistoryStore) GetEntry(ctx context.Context, id string) (*types.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM resource_history WHERE id = $1`

	entry, err := scanHistoryEntry(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get history entry %s: %w", id, err)
	}
	return entry, nil
}

// ListByResource retrieves a page of history entries for a resource, newest
// first.
func (s *HistoryStore) ListByResource(ctx context.Context, resourceID string, limit, offset int) ([]*types.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + `
		FROM resource_history
		WHERE resource_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, resourceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history for resource %s: %w", resourceID, err)
	}
	defer rows.Close()

	var entries []*types.HistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes one history entry.
func (s *HistoryStore) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM resource_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete history entry %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanHistoryEntry(row pgx.Row) (*types.HistoryEntry, error) {
	var (
		entry      types.HistoryEntry
		changeType string
		reason     sql.NullString
	)

	err := row.Scan(
		&entry.ID,
		&entry.ResourceID,
		&entry.GuildID,
		&entry.PreviousQuantity,
		&entry.NewQuantity,
		&entry.ChangeAmount,
		&changeType,
		&entry.UpdatedBy,
		&reason,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.ChangeType = types.QuantityChangeType(changeType)
	entry.Reason = reason.String

	return &entry, nil
}
