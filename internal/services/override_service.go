package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
	"github.com/threatlens/authcore/internal/services/authorization"
)

// OverrideServiceInterface defines the interface for override lifecycle operations
type OverrideServiceInterface interface {
	ListOverrides(ctx context.Context, user *entities.User) (*OverrideView, error)
	AddOverride(ctx context.Context, user *entities.User, permission string, granted bool, reason string) (*entities.Override, error)
	RemoveOverride(ctx context.Context, user *entities.User, permission string) error
}

// OverrideView bundles a user's override records with display context:
// the role key and the resolved effective permission set. The resolver
// remains the source of truth; the effective set here is a convenience
// snapshot taken at list time.
type OverrideView struct {
	Role      string
	Effective entities.PermissionSet
	Overrides []*entities.Override
}

// OverrideService handles the add/remove lifecycle of per-user overrides.
// Unlike role edits there is no staged intermediate state: every call is
// a direct, immediate mutation against the store, and resolution reflects
// it on the next check.
type OverrideService struct {
	overrideRepo repositories.OverrideRepository
	catalog      CatalogServiceInterface
	resolver     authorization.ResolverInterface
	logger       *logrus.Logger
}

// NewOverrideService creates a new OverrideService
func NewOverrideService(
	overrideRepo repositories.OverrideRepository,
	catalog CatalogServiceInterface,
	resolver authorization.ResolverInterface,
	logger *logrus.Logger,
) *OverrideService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OverrideService{
		overrideRepo: overrideRepo,
		catalog:      catalog,
		resolver:     resolver,
		logger:       logger,
	}
}

// ListOverrides returns the user's override records plus role key and
// resolved effective permission set
func (s *OverrideService) ListOverrides(ctx context.Context, user *entities.User) (*OverrideView, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	overrides, err := s.overrideRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}

	effective, err := s.resolver.EffectivePermissions(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve effective permissions: %w", err)
	}

	return &OverrideView{
		Role:      user.Role,
		Effective: effective,
		Overrides: overrides,
	}, nil
}

// AddOverride creates or replaces the override for (user, permission).
// Upsert semantics: the natural intent of "set this permission to
// granted/denied" is an idempotent set, so an existing override for the
// pair is replaced rather than duplicated. The permission is validated
// against the catalog before any store mutation.
func (s *OverrideService) AddOverride(ctx context.Context, user *entities.User, permission string, granted bool, reason string) (*entities.Override, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	if permission == "" {
		return nil, repositories.NewValidationError("permission is required")
	}
	if !s.catalog.Contains(permission) {
		return nil, repositories.NewValidationError("unknown permission keys", permission)
	}

	override := &entities.Override{
		UserID:     user.ID,
		Permission: permission,
		Granted:    granted,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}

	if err := s.overrideRepo.Upsert(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to add override: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user":       user.ID,
		"permission": permission,
		"granted":    granted,
	}).Info("permission override set")

	return override, nil
}

// RemoveOverride deletes the override for (user, permission), reverting
// the pair exactly to the role default. Removing an absent override is a
// benign no-op, not an error.
func (s *OverrideService) RemoveOverride(ctx context.Context, user *entities.User, permission string) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	if permission == "" {
		return repositories.NewValidationError("permission is required")
	}

	err := s.overrideRepo.Delete(ctx, user.ID, permission)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove override: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user":       user.ID,
		"permission": permission,
	}).Info("permission override removed")

	return nil
}
