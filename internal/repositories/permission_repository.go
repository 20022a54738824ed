package repositories

import (
	"context"

	"github.com/threatlens/authcore/internal/entities"
)

// PermissionRepository defines the interface for permission catalog access.
// The catalog is provisioned at deploy time; this interface is read-only.
type PermissionRepository interface {
	// List retrieves the full permission catalog in catalog order
	List(ctx context.Context) ([]*entities.Permission, error)

	// GetByKey retrieves a single permission by key
	// Returns ErrNotFound if the key is not in the catalog
	GetByKey(ctx context.Context, key string) (*entities.Permission, error)
}
