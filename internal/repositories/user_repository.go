package repositories

import (
	"context"

	"github.com/threatlens/authcore/internal/entities"
)

// UserRepository defines read access to platform accounts.
// Accounts are owned by the user service; authorization only resolves
// an ID to its assigned role.
type UserRepository interface {
	// GetByID retrieves a user by account ID
	// Returns ErrNotFound if the account does not exist
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
