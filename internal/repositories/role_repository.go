package repositories

import (
	"context"

	"github.com/threatlens/authcore/internal/entities"
)

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// List retrieves all roles with their committed permission sets
	List(ctx context.Context) ([]*entities.Role, error)

	// GetByKey retrieves a single role with its committed permission set
	// Returns ErrNotFound if the role does not exist
	GetByKey(ctx context.Context, key string) (*entities.Role, error)

	// ReplacePermissions atomically replaces the role's permission
	// membership with exactly the given set. Full replace, never a merge:
	// a later replace unconditionally overwrites the stored list.
	// Returns ErrNotFound if the role does not exist.
	ReplacePermissions(ctx context.Context, key string, permissions entities.PermissionSet) error
}
