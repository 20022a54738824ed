package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// RoleServiceInterface defines the interface for role registry operations
type RoleServiceInterface interface {
	GetRoles(ctx context.Context) ([]*entities.Role, error)
	GetRole(ctx context.Context, key string) (*entities.Role, error)
	ReplacePermissions(ctx context.Context, key string, permissions entities.PermissionSet) error
}

// RoleService handles role registry operations.
// Role keys are a fixed enumeration; the only mutation is a full
// replacement of one role's permission membership.
type RoleService struct {
	roleRepo repositories.RoleRepository
	catalog  CatalogServiceInterface
	logger   *logrus.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repositories.RoleRepository, catalog CatalogServiceInterface, logger *logrus.Logger) *RoleService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RoleService{
		roleRepo: roleRepo,
		catalog:  catalog,
		logger:   logger,
	}
}

// GetRoles returns all roles with their committed permission sets.
// Permission keys not present in the catalog are dropped with a warning:
// a stale role row must not poison resolution or editing.
func (s *RoleService) GetRoles(ctx context.Context) ([]*entities.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}

	for _, role := range roles {
		s.dropUnknownKeys(role)
	}

	return roles, nil
}

// GetRole returns one role with its committed permission set
// Returns ErrNotFound if the role does not exist
func (s *RoleService) GetRole(ctx context.Context, key string) (*entities.Role, error) {
	if key == "" {
		return nil, repositories.NewValidationError("role key is required")
	}

	role, err := s.roleRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	s.dropUnknownKeys(role)

	return role, nil
}

// ReplacePermissions validates every key against the catalog, then
// atomically replaces the role's permission set as a single unit.
// Full replace, never a merge: the caller's view of the new permission
// list is exactly what gets persisted. Validation failures carry the
// offending keys and happen before any store mutation.
func (s *RoleService) ReplacePermissions(ctx context.Context, key string, permissions entities.PermissionSet) error {
	if key == "" {
		return repositories.NewValidationError("role key is required")
	}
	if !entities.IsValidRoleKey(key) {
		return repositories.NewValidationError(fmt.Sprintf("unknown role key: %s", key))
	}

	if unknown := s.catalog.UnknownKeys(permissions.Keys()); len(unknown) > 0 {
		return repositories.NewValidationError("unknown permission keys", unknown...)
	}

	if err := s.roleRepo.ReplacePermissions(ctx, key, permissions); err != nil {
		return fmt.Errorf("failed to replace permissions for role %s: %w", key, err)
	}

	return nil
}

// dropUnknownKeys removes catalog-unknown permission keys from the role in place
func (s *RoleService) dropUnknownKeys(role *entities.Role) {
	for _, key := range role.Permissions.Keys() {
		if !s.catalog.Contains(key) {
			s.logger.WithFields(logrus.Fields{
				"role":       role.Key,
				"permission": key,
			}).Warn("dropping permission key not present in catalog")
			role.Permissions.Remove(key)
		}
	}
}
