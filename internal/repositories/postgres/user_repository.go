package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *sql.DB) repositories.UserRepository {
	return &PostgresUserRepository{db: db}
}

// GetByID retrieves a user by account ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query := `
		SELECT id, username, email, role_key
		FROM users
		WHERE id = $1
	`
	u := &entities.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}
