package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// PostgresOverrideRepository implements OverrideRepository using PostgreSQL.
// The overrides table carries a unique index on (user_id, permission), which
// both enforces the one-active-override-per-pair invariant and backs the
// hot-path point lookup in GetByUserAndPermission.
type PostgresOverrideRepository struct {
	db *sql.DB
}

// NewPostgresOverrideRepository creates a new PostgreSQL override repository
func NewPostgresOverrideRepository(db *sql.DB) repositories.OverrideRepository {
	return &PostgresOverrideRepository{db: db}
}

// ListByUser retrieves all overrides for a user, newest first
func (r *PostgresOverrideRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Override, error) {
	query := `
		SELECT id, user_id, permission, granted, COALESCE(reason, ''), created_at
		FROM permission_overrides
		WHERE user_id = $1
		ORDER BY created_at DESC, permission
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*entities.Override
	for rows.Next() {
		o := &entities.Override{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.Permission, &o.Granted, &o.Reason, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}

	return overrides, nil
}

// GetByUserAndPermission retrieves the override for one (user, permission) pair
func (r *PostgresOverrideRepository) GetByUserAndPermission(ctx context.Context, userID string, permission string) (*entities.Override, error) {
	query := `
		SELECT id, user_id, permission, granted, COALESCE(reason, ''), created_at
		FROM permission_overrides
		WHERE user_id = $1 AND permission = $2
	`
	o := &entities.Override{}
	err := r.db.QueryRowContext(ctx, query, userID, permission).
		Scan(&o.ID, &o.UserID, &o.Permission, &o.Granted, &o.Reason, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("override %s#%s: %w", userID, permission, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}

	return o, nil
}

// Upsert creates or replaces the override for the (user, permission) pair.
// ON CONFLICT replaces the decision, reason, and creation timestamp so the
// record always describes the current exception, not the first one.
func (r *PostgresOverrideRepository) Upsert(ctx context.Context, override *entities.Override) error {
	if err := override.Validate(); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}

	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	if override.CreatedAt.IsZero() {
		override.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO permission_overrides (id, user_id, permission, granted, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, permission)
		DO UPDATE SET granted = EXCLUDED.granted, reason = EXCLUDED.reason, created_at = EXCLUDED.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		override.ID, override.UserID, override.Permission, override.Granted,
		sql.NullString{String: override.Reason, Valid: override.Reason != ""},
		override.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert override: %w", err)
	}

	return nil
}

// Delete removes the override for the pair
func (r *PostgresOverrideRepository) Delete(ctx context.Context, userID string, permission string) error {
	query := `
		DELETE FROM permission_overrides
		WHERE user_id = $1 AND permission = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, permission)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("override %s#%s: %w", userID, permission, repositories.ErrNotFound)
	}

	return nil
}
