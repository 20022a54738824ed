package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
)

// mockPermissionRepository serves a fixed catalog for tests
type mockPermissionRepository struct {
	perms []*entities.Permission
}

func (m *mockPermissionRepository) List(ctx context.Context) ([]*entities.Permission, error) {
	return m.perms, nil
}

func (m *mockPermissionRepository) GetByKey(ctx context.Context, key string) (*entities.Permission, error) {
	for _, p := range m.perms {
		if p.Key == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("permission %s: %w", key, repositories.ErrNotFound)
}

// mockRoleRepository is an in-memory RoleRepository with failure injection
type mockRoleRepository struct {
	roles       map[string]*entities.Role
	replaceErr  error
	replaceCall int
}

func (m *mockRoleRepository) List(ctx context.Context) ([]*entities.Role, error) {
	var roles []*entities.Role
	for _, key := range entities.RoleKeys {
		if r, ok := m.roles[key]; ok {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (m *mockRoleRepository) GetByKey(ctx context.Context, key string) (*entities.Role, error) {
	if r, ok := m.roles[key]; ok {
		return &entities.Role{
			Key:         r.Key,
			Label:       r.Label,
			Permissions: r.Permissions.Clone(),
		}, nil
	}
	return nil, fmt.Errorf("role %s: %w", key, repositories.ErrNotFound)
}

func (m *mockRoleRepository) ReplacePermissions(ctx context.Context, key string, permissions entities.PermissionSet) error {
	m.replaceCall++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	r, ok := m.roles[key]
	if !ok {
		return fmt.Errorf("role %s: %w", key, repositories.ErrNotFound)
	}
	r.Permissions = permissions.Clone()
	return nil
}

// mockOverrideRepository is an in-memory OverrideRepository keyed by
// (user_id, permission)
type mockOverrideRepository struct {
	overrides map[string]*entities.Override
	upsertErr error
	deleteErr error
}

func newMockOverrideRepository() *mockOverrideRepository {
	return &mockOverrideRepository{overrides: make(map[string]*entities.Override)}
}

func (m *mockOverrideRepository) key(userID, permission string) string {
	return userID + "#" + permission
}

func (m *mockOverrideRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Override, error) {
	var result []*entities.Override
	for _, o := range m.overrides {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOverrideRepository) GetByUserAndPermission(ctx context.Context, userID string, permission string) (*entities.Override, error) {
	if o, ok := m.overrides[m.key(userID, permission)]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("override %s#%s: %w", userID, permission, repositories.ErrNotFound)
}

func (m *mockOverrideRepository) Upsert(ctx context.Context, override *entities.Override) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.overrides[m.key(override.UserID, override.Permission)] = override
	return nil
}

func (m *mockOverrideRepository) Delete(ctx context.Context, userID string, permission string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	key := m.key(userID, permission)
	if _, ok := m.overrides[key]; !ok {
		return fmt.Errorf("override %s#%s: %w", userID, permission, repositories.ErrNotFound)
	}
	delete(m.overrides, key)
	return nil
}

// testCatalog builds a real CatalogService over the fixed test catalog
func testCatalog() *CatalogService {
	repo := &mockPermissionRepository{
		perms: []*entities.Permission{
			{Key: "read_articles", Label: "Read Articles", Group: "Core Access"},
			{Key: "view_dashboard", Label: "View Dashboard", Group: "Core Access"},
			{Key: "manage_feeds", Label: "Manage Feeds", Group: "Sources & Feeds"},
			{Key: "manage_users", Label: "Manage Users", Group: "Administration"},
			{Key: "delete_users", Label: "Delete Users", Group: "Administration"},
		},
	}
	catalog, err := NewCatalogService(context.Background(), repo)
	if err != nil {
		panic(err)
	}
	return catalog
}

func testRoleRepo() *mockRoleRepository {
	return &mockRoleRepository{
		roles: map[string]*entities.Role{
			entities.RoleViewer: {
				Key:         entities.RoleViewer,
				Label:       "Viewer",
				Permissions: entities.NewPermissionSet("read_articles", "view_dashboard"),
			},
			entities.RoleAdmin: {
				Key:         entities.RoleAdmin,
				Label:       "Admin",
				Permissions: entities.NewPermissionSet("read_articles", "view_dashboard", "manage_users", "delete_users"),
			},
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
