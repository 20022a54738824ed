package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/repositories"
	"github.com/threatlens/authcore/internal/services"
)

// mockCatalogService serves a fixed catalog
type mockCatalogService struct {
	perms []*entities.Permission
}

func (m *mockCatalogService) List() []*entities.Permission {
	return m.perms
}

func (m *mockCatalogService) Grouped() map[string][]*entities.Permission {
	return entities.GroupPermissions(m.perms)
}

func (m *mockCatalogService) Lookup(key string) (*entities.Permission, error) {
	for _, p := range m.perms {
		if p.Key == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("permission %s: %w", key, repositories.ErrNotFound)
}

func (m *mockCatalogService) Contains(key string) bool {
	_, err := m.Lookup(key)
	return err == nil
}

func (m *mockCatalogService) UnknownKeys(keys []string) []string {
	var unknown []string
	for _, k := range keys {
		if !m.Contains(k) {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// mockRoleService is an in-memory RoleServiceInterface
type mockRoleService struct {
	roles      map[string]*entities.Role
	catalog    *mockCatalogService
	replaceErr error
}

func (m *mockRoleService) GetRoles(ctx context.Context) ([]*entities.Role, error) {
	var roles []*entities.Role
	for _, key := range entities.RoleKeys {
		if r, ok := m.roles[key]; ok {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (m *mockRoleService) GetRole(ctx context.Context, key string) (*entities.Role, error) {
	if r, ok := m.roles[key]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("role %s: %w", key, repositories.ErrNotFound)
}

func (m *mockRoleService) ReplacePermissions(ctx context.Context, key string, permissions entities.PermissionSet) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	if unknown := m.catalog.UnknownKeys(permissions.Keys()); len(unknown) > 0 {
		return repositories.NewValidationError("unknown permission keys", unknown...)
	}
	r, ok := m.roles[key]
	if !ok {
		return fmt.Errorf("role %s: %w", key, repositories.ErrNotFound)
	}
	r.Permissions = permissions.Clone()
	return nil
}

// mockOverrideService is an in-memory OverrideServiceInterface backed by a
// (user, permission) map
type mockOverrideService struct {
	overrides map[string]*entities.Override
	catalog   *mockCatalogService
	roles     *mockRoleService
}

func (m *mockOverrideService) key(userID, permission string) string {
	return userID + "#" + permission
}

func (m *mockOverrideService) effective(ctx context.Context, user *entities.User) (entities.PermissionSet, error) {
	role, err := m.roles.GetRole(ctx, user.Role)
	if err != nil {
		return nil, err
	}
	effective := role.Permissions.Clone()
	for _, o := range m.overrides {
		if o.UserID != user.ID {
			continue
		}
		if o.Granted {
			effective.Add(o.Permission)
		} else {
			effective.Remove(o.Permission)
		}
	}
	return effective, nil
}

func (m *mockOverrideService) ListOverrides(ctx context.Context, user *entities.User) (*services.OverrideView, error) {
	effective, err := m.effective(ctx, user)
	if err != nil {
		return nil, err
	}
	view := &services.OverrideView{Role: user.Role, Effective: effective}
	for _, o := range m.overrides {
		if o.UserID == user.ID {
			view.Overrides = append(view.Overrides, o)
		}
	}
	return view, nil
}

func (m *mockOverrideService) AddOverride(ctx context.Context, user *entities.User, permission string, granted bool, reason string) (*entities.Override, error) {
	if !m.catalog.Contains(permission) {
		return nil, repositories.NewValidationError("unknown permission keys", permission)
	}
	o := &entities.Override{
		ID:         "ov-" + permission,
		UserID:     user.ID,
		Permission: permission,
		Granted:    granted,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
	m.overrides[m.key(user.ID, permission)] = o
	return o, nil
}

func (m *mockOverrideService) RemoveOverride(ctx context.Context, user *entities.User, permission string) error {
	delete(m.overrides, m.key(user.ID, permission))
	return nil
}

// mockResolver resolves against the same state the mock services hold
type mockResolver struct {
	overrideService *mockOverrideService
}

func (m *mockResolver) EffectivePermissions(ctx context.Context, user *entities.User) (entities.PermissionSet, error) {
	return m.overrideService.effective(ctx, user)
}

func (m *mockResolver) HasPermission(ctx context.Context, user *entities.User, permission string) (bool, error) {
	if o, ok := m.overrideService.overrides[m.overrideService.key(user.ID, permission)]; ok {
		return o.Granted, nil
	}
	role, err := m.overrideService.roles.GetRole(ctx, user.Role)
	if err != nil {
		return false, err
	}
	return role.Permissions.Has(permission), nil
}

// mockUserRepository resolves fixed test accounts
type mockUserRepository struct {
	users map[string]*entities.User
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
}

// fixture bundles a wired router with its backing mocks
type fixture struct {
	router    *mux.Router
	roles     *mockRoleService
	overrides *mockOverrideService
}

func newFixture() *fixture {
	catalog := &mockCatalogService{
		perms: []*entities.Permission{
			{Key: "read_articles", Label: "Read Articles", Group: "Core Access"},
			{Key: "view_dashboard", Label: "View Dashboard", Group: "Core Access"},
			{Key: "manage_users", Label: "Manage Users", Group: "Administration"},
			{Key: "delete_users", Label: "Delete Users", Group: "Administration"},
		},
	}
	roles := &mockRoleService{
		catalog: catalog,
		roles: map[string]*entities.Role{
			entities.RoleViewer: {
				Key:         entities.RoleViewer,
				Label:       "Viewer",
				Color:       "#64748b",
				Permissions: entities.NewPermissionSet("read_articles", "view_dashboard"),
			},
			entities.RoleAdmin: {
				Key:         entities.RoleAdmin,
				Label:       "Admin",
				Color:       "#dc2626",
				Permissions: entities.NewPermissionSet("read_articles", "view_dashboard", "manage_users", "delete_users"),
			},
		},
	}
	overrides := &mockOverrideService{
		overrides: make(map[string]*entities.Override),
		catalog:   catalog,
		roles:     roles,
	}
	users := &mockUserRepository{
		users: map[string]*entities.User{
			"u1": {ID: "u1", Username: "ana", Email: "ana@example.com", Role: entities.RoleViewer},
		},
	}

	router := NewRouter(
		NewPermissionHandler(catalog),
		NewRoleHandler(roles, nil),
		NewOverrideHandler(overrides, &mockResolver{overrideService: overrides}, users, nil),
		nil,
		nil,
	)

	return &fixture{router: router, roles: roles, overrides: overrides}
}

// doRequest runs one request through the router and captures the response
func doRequest(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
