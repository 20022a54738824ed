package repositories

import (
	"context"

	"github.com/threatlens/authcore/internal/entities"
)

// OverrideRepository defines the interface for per-user override access.
// The store maintains a unique index on (user_id, permission): at most one
// active override exists per pair, and GetByUserAndPermission is an O(1)
// index lookup since it sits on the hot path of every permission check.
type OverrideRepository interface {
	// ListByUser retrieves all overrides for a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Override, error)

	// GetByUserAndPermission retrieves the override for one (user, permission)
	// pair. Returns ErrNotFound if no override exists for the pair.
	GetByUserAndPermission(ctx context.Context, userID string, permission string) (*entities.Override, error)

	// Upsert creates the override for (override.UserID, override.Permission),
	// replacing any existing record for the pair. Setting a decision is
	// idempotent "set", not "append".
	Upsert(ctx context.Context, override *entities.Override) error

	// Delete removes the override for the pair.
	// Returns ErrNotFound if no override exists; callers treat that as benign.
	Delete(ctx context.Context, userID string, permission string) error
}
