package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// ResolverInterface defines the interface for permission resolution.
// This is the enforcement boundary: any code path performing a privileged
// action is expected to call HasPermission before proceeding.
type ResolverInterface interface {
	EffectivePermissions(ctx context.Context, user *entities.User) (entities.PermissionSet, error)
	HasPermission(ctx context.Context, user *entities.User, permission string) (bool, error)
}

// Resolver computes effective permissions by applying per-user overrides
// on top of role defaults. An override always wins over the role default
// for its exact permission key, in both directions.
//
// The resolver never caches results across calls: it reads current
// registry and store state every time, so a mutated override is visible
// on the very next check with no staleness window. Catalogs and per-user
// override counts are small enough that the recomputation is cheap.
type Resolver struct {
	roleRepo     repositories.RoleRepository
	overrideRepo repositories.OverrideRepository
}

// NewResolver creates a new Resolver
func NewResolver(roleRepo repositories.RoleRepository, overrideRepo repositories.OverrideRepository) *Resolver {
	return &Resolver{
		roleRepo:     roleRepo,
		overrideRepo: overrideRepo,
	}
}

// EffectivePermissions computes the full resolved permission set for a user:
// role defaults, plus override grants, minus override denials. Permissions
// with neither a role grant nor an override are absent.
func (r *Resolver) EffectivePermissions(ctx context.Context, user *entities.User) (entities.PermissionSet, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	role, err := r.roleRepo.GetByKey(ctx, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role %s: %w", user.Role, err)
	}

	effective := role.Permissions.Clone()

	overrides, err := r.overrideRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides for user %s: %w", user.ID, err)
	}

	for _, o := range overrides {
		if o.Granted {
			effective.Add(o.Permission)
		} else {
			effective.Remove(o.Permission)
		}
	}

	return effective, nil
}

// HasPermission answers the single-key query on the enforcement hot path.
// The override for the exact (user, permission) pair is consulted first
// through the store's point index; only when no override exists does the
// role default decide.
func (r *Resolver) HasPermission(ctx context.Context, user *entities.User, permission string) (bool, error) {
	if err := user.Validate(); err != nil {
		return false, fmt.Errorf("invalid user: %w", err)
	}
	if permission == "" {
		return false, fmt.Errorf("permission is required")
	}

	override, err := r.overrideRepo.GetByUserAndPermission(ctx, user.ID, permission)
	if err == nil {
		return override.Granted, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to look up override: %w", err)
	}

	role, err := r.roleRepo.GetByKey(ctx, user.Role)
	if err != nil {
		return false, fmt.Errorf("failed to resolve role %s: %w", user.Role, err)
	}

	return role.Permissions.Has(permission), nil
}
