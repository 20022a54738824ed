package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db *sql.DB
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db *sql.DB) repositories.RoleRepository {
	return &PostgresRoleRepository{db: db}
}

// List retrieves all roles with their committed permission sets
func (r *PostgresRoleRepository) List(ctx context.Context) ([]*entities.Role, error) {
	query := `
		SELECT key, label, description, color
		FROM roles
		ORDER BY sort_order, key
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*entities.Role
	for rows.Next() {
		role := &entities.Role{Permissions: entities.NewPermissionSet()}
		if err := rows.Scan(&role.Key, &role.Label, &role.Description, &role.Color); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	if err := r.loadPermissions(ctx, roles); err != nil {
		return nil, err
	}

	return roles, nil
}

// GetByKey retrieves a single role with its committed permission set
func (r *PostgresRoleRepository) GetByKey(ctx context.Context, key string) (*entities.Role, error) {
	query := `
		SELECT key, label, description, color
		FROM roles
		WHERE key = $1
	`
	role := &entities.Role{Permissions: entities.NewPermissionSet()}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&role.Key, &role.Label, &role.Description, &role.Color)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("role %s: %w", key, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	if err := r.loadPermissions(ctx, []*entities.Role{role}); err != nil {
		return nil, err
	}

	return role, nil
}

// ReplacePermissions atomically replaces the role's permission membership.
// Delete + bulk insert inside one transaction, so a reader sees either the
// old full list or the new full list, never a partial merge.
func (r *PostgresRoleRepository) ReplacePermissions(ctx context.Context, key string, permissions entities.PermissionSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE key = $1)`, key).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check role existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("role %s: %w", key, repositories.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_key = $1`, key); err != nil {
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}

	if len(permissions) > 0 {
		query := `
			INSERT INTO role_permissions (role_key, permission_key)
			SELECT $1, unnest($2::text[])
		`
		if _, err := tx.ExecContext(ctx, query, key, pq.Array(permissions.Keys())); err != nil {
			return fmt.Errorf("failed to insert role permissions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// loadPermissions fills the Permissions set of each role in place
func (r *PostgresRoleRepository) loadPermissions(ctx context.Context, roles []*entities.Role) error {
	if len(roles) == 0 {
		return nil
	}

	byKey := make(map[string]*entities.Role, len(roles))
	keys := make([]string, 0, len(roles))
	for _, role := range roles {
		byKey[role.Key] = role
		keys = append(keys, role.Key)
	}

	query := `
		SELECT role_key, permission_key
		FROM role_permissions
		WHERE role_key = ANY($1)
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return fmt.Errorf("failed to load role permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleKey, permKey string
		if err := rows.Scan(&roleKey, &permKey); err != nil {
			return fmt.Errorf("failed to scan role permission: %w", err)
		}
		if role, ok := byKey[roleKey]; ok {
			role.Permissions.Add(permKey)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate role permissions: %w", err)
	}

	return nil
}
