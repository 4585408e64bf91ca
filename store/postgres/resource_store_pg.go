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

var _ store.ResourceStore = (*ResourceStore)(nil)

// ResourceStore implements store.ResourceStore using PostgreSQL.
type ResourceStore struct {
	db DB
}

// NewResourceStore creates a new ResourceStore instance.
func NewResourceStore(db DB) *ResourceStore {
	return &ResourceStore{db: db}
}

const resourceColumns = `id, guild_id, name, quantity, description, category,
		icon, image_url, status, target_quantity, multiplier, last_updated_by,
		created_at, updated_at`

// CreateResource inserts a new resource and returns its id.
func (s *ResourceStore) CreateResource(ctx context.Context, resource *types.Resource) (string, error) {
	id := resource.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO resources (
			id, guild_id, name, quantity, description, category, icon,
			image_url, status, target_quantity, multiplier, last_updated_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id`

	// Optional text columns are declared NOT NULL DEFAULT '' in the schema,
	// so empty values are inserted as '' rather than NULL.
	row := s.db.QueryRow(ctx, query,
		id,
		resource.GuildID,
		resource.Name,
		resource.Quantity,
		resource.Description,
		resource.Category,
		resource.Icon,
		resource.ImageURL,
		string(resource.Status),
		resource.TargetQuantity,
		resource.Multiplier,
		resource.LastUpdatedBy,
	)

	var created string
	if err := row.Scan(&created); err != nil {
		return "", fmt.Errorf("create resource %s: %w", resource.Name, err)
	}
	return created, nil
}

// GetResource retrieves a resource by id.
func (s *ResourceStore) GetResource(ctx context.Context, id string) (*types.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

	resource, err := scanResource(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get resource %s: %w", id, err)
	}
	return resource, nil
}

// ListResources retrieves all resources for one guild.
func (s *ResourceStore) ListResources(ctx context.Context, guildID string) ([]*types.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE guild_id = $1 ORDER BY category, name`

	rows, err := s.db.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("list resources for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	var resources []*types.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource row: %w", err)
		}
		resources = append(resources, resource)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return resources, nil
}

// UpdateResource applies a partial metadata update and returns the fresh row.
func (s *ResourceStore) UpdateResource(ctx context.Context, id string, update *types.ResourceUpdate) (*types.Resource, error) {
	query := `
		UPDATE resources SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			icon = COALESCE($4, icon),
			image_url = COALESCE($5, image_url),
			multiplier = COALESCE($6, multiplier),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + resourceColumns

	resource, err := scanResource(s.db.QueryRow(ctx, query,
		update.Name,
		update.Description,
		update.Category,
		update.Icon,
		update.ImageURL,
		update.Multiplier,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("update resource %s: %w", id, err)
	}
	return resource, nil
}

// SetQuantity writes a new stock quantity and derived status.
func (s *ResourceStore) SetQuantity(ctx context.Context, id string, quantity int, status types.ResourceStatus, updatedBy string) (*types.Resource, error) {
	query := `
		UPDATE resources SET
			quantity = $1,
			status = $2,
			last_updated_by = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + resourceColumns

	resource, err := scanResource(s.db.QueryRow(ctx, query, quantity, string(status), updatedBy, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("set quantity for resource %s: %w", id, err)
	}
	return resource, nil
}

// SetTarget writes a new target quantity and the status derived from it.
func (s *ResourceStore) SetTarget(ctx context.Context, id string, target int, status types.ResourceStatus) (*types.Resource, error) {
	query := `
		UPDATE resources SET
			target_quantity = $1,
			status = $2,
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + resourceColumns

	resource, err := scanResource(s.db.QueryRow(ctx, query, target, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("set target for resource %s: %w", id, err)
	}
	return resource, nil
}

// DeleteResource removes a resource row. History and leaderboard rows
// referencing it cascade.
func (s *ResourceStore) DeleteResource(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanResource(row pgx.Row) (*types.Resource, error) {
	var (
		resource    types.Resource
		description sql.NullString
		category    sql.NullString
		icon        sql.NullString
		imageURL    sql.NullString
		status      sql.NullString
	)

	err := row.Scan(
		&resource.ID,
		&resource.GuildID,
		&resource.Name,
		&resource.Quantity,
		&description,
		&category,
		&icon,
		&imageURL,
		&status,
		&resource.TargetQuantity,
		&resource.Multiplier,
		&resource.LastUpdatedBy,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	resource.Description = description.String
	resource.Category = category.String
	resource.Icon = icon.String
	resource.ImageURL = imageURL.String
	resource.Status = types.ResourceStatus(status.String)

	return &resource, nil
}
