package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// CatalogServiceInterface defines the interface for permission catalog queries
type CatalogServiceInterface interface {
	List() []*entities.Permission
	Grouped() map[string][]*entities.Permission
	Lookup(key string) (*entities.Permission, error)
	Contains(key string) bool
	UnknownKeys(keys []string) []string
}

// CatalogService serves the fixed permission catalog.
// The catalog is provisioned at deploy time, so it is loaded once at
// startup into an immutable snapshot and served from memory afterwards.
type CatalogService struct {
	perms []*entities.Permission
	index map[string]*entities.Permission
}

// NewCatalogService loads the permission catalog from the repository
func NewCatalogService(ctx context.Context, permRepo repositories.PermissionRepository) (*CatalogService, error) {
	perms, err := permRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission catalog: %w", err)
	}

	index := make(map[string]*entities.Permission, len(perms))
	for _, p := range perms {
		index[p.Key] = p
	}

	return &CatalogService{perms: perms, index: index}, nil
}

// List returns all permissions in catalog order
func (s *CatalogService) List() []*entities.Permission {
	return s.perms
}

// Grouped returns the catalog bucketed by display group
func (s *CatalogService) Grouped() map[string][]*entities.Permission {
	return entities.GroupPermissions(s.perms)
}

// Lookup returns the permission for the given key
// Returns ErrNotFound if the key is not in the catalog
func (s *CatalogService) Lookup(key string) (*entities.Permission, error) {
	if p, ok := s.index[key]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("permission %s: %w", key, repositories.ErrNotFound)
}

// Contains reports whether key is in the catalog
func (s *CatalogService) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// UnknownKeys returns the subset of keys that are not in the catalog,
// in lexical order. Empty result means every key is valid.
func (s *CatalogService) UnknownKeys(keys []string) []string {
	var unknown []string
	seen := make(map[string]bool)
	for _, k := range keys {
		if !s.Contains(k) && !seen[k] {
			seen[k] = true
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
