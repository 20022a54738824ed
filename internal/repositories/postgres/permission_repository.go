package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// PostgresPermissionRepository implements PermissionRepository using PostgreSQL
type PostgresPermissionRepository struct {
	db *sql.DB
}

// NewPostgresPermissionRepository creates a new PostgreSQL permission repository
func NewPostgresPermissionRepository(db *sql.DB) repositories.PermissionRepository {
	return &PostgresPermissionRepository{db: db}
}

// List retrieves the full permission catalog in catalog order
func (r *PostgresPermissionRepository) List(ctx context.Context) ([]*entities.Permission, error) {
	query := `
		SELECT key, label, description, group_name
		FROM permissions
		ORDER BY sort_order, key
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []*entities.Permission
	for rows.Next() {
		p := &entities.Permission{}
		if err := rows.Scan(&p.Key, &p.Label, &p.Description, &p.Group); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate permissions: %w", err)
	}

	return perms, nil
}

// GetByKey retrieves a single permission by key
func (r *PostgresPermissionRepository) GetByKey(ctx context.Context, key string) (*entities.Permission, error) {
	query := `
		SELECT key, label, description, group_name
		FROM permissions
		WHERE key = $1
	`
	p := &entities.Permission{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&p.Key, &p.Label, &p.Description, &p.Group)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("permission %s: %w", key, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return p, nil
}
