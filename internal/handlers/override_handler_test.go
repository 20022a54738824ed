package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/threatlens/authcore/internal/entities"
)

func TestOverrideHandler_AddAndList(t *testing.T) {
	f := newFixture()

	rec := doRequest(f.router, http.MethodPost, "/v1/users/u1/overrides",
		`{"permission": "manage_users", "granted": true, "reason": "temp escalation"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created overrideResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Permission != "manage_users" || !created.Granted || created.Reason != "temp escalation" {
		t.Errorf("created override = %+v", created)
	}

	rec = doRequest(f.router, http.MethodGet, "/v1/users/u1/overrides", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}

	var list overrideListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if list.Role != entities.RoleViewer {
		t.Errorf("list.Role = %v, want VIEWER", list.Role)
	}
	if len(list.Overrides) != 1 {
		t.Fatalf("list holds %d overrides, want 1", len(list.Overrides))
	}
	want := entities.NewPermissionSet("read_articles", "view_dashboard", "manage_users")
	if !entities.NewPermissionSet(list.EffectivePermissions...).Equal(want) {
		t.Errorf("effective_permissions = %v, want %v", list.EffectivePermissions, want.Keys())
	}
}

func TestOverrideHandler_Add_UnknownPermission(t *testing.T) {
	f := newFixture()

	rec := doRequest(f.router, http.MethodPost, "/v1/users/u1/overrides",
		`{"permission": "bogus_key", "granted": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.UnknownKeys) != 1 || resp.UnknownKeys[0] != "bogus_key" {
		t.Errorf("unknown_keys = %v, want [bogus_key]", resp.UnknownKeys)
	}
}

func TestOverrideHandler_Add_UnknownUser(t *testing.T) {
	f := newFixture()

	rec := doRequest(f.router, http.MethodPost, "/v1/users/ghost/overrides",
		`{"permission": "manage_users", "granted": true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("POST for unknown user status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestOverrideHandler_Remove(t *testing.T) {
	f := newFixture()

	doRequest(f.router, http.MethodPost, "/v1/users/u1/overrides",
		`{"permission": "read_articles", "granted": false}`)

	rec := doRequest(f.router, http.MethodDelete, "/v1/users/u1/overrides/read_articles", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	// Reverted to role default: read_articles is back
	rec = doRequest(f.router, http.MethodGet, "/v1/users/u1/overrides", "")
	var list overrideListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := entities.NewPermissionSet("read_articles", "view_dashboard")
	if !entities.NewPermissionSet(list.EffectivePermissions...).Equal(want) {
		t.Errorf("effective after revert = %v, want %v", list.EffectivePermissions, want.Keys())
	}
}

func TestOverrideHandler_Remove_AbsentIsNoContent(t *testing.T) {
	f := newFixture()

	rec := doRequest(f.router, http.MethodDelete, "/v1/users/u1/overrides/read_articles", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE of absent override status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestOverrideHandler_Check(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		setup func()
		path  string
		want  bool
	}{
		{
			name: "role default grant",
			path: "/v1/users/u1/permissions/read_articles/check",
			want: true,
		},
		{
			name: "role default absence",
			path: "/v1/users/u1/permissions/manage_users/check",
			want: false,
		},
		{
			name: "grant override wins",
			setup: func() {
				doRequest(f.router, http.MethodPost, "/v1/users/u1/overrides",
					`{"permission": "manage_users", "granted": true}`)
			},
			path: "/v1/users/u1/permissions/manage_users/check",
			want: true,
		},
		{
			name: "deny override wins",
			setup: func() {
				doRequest(f.router, http.MethodPost, "/v1/users/u1/overrides",
					`{"permission": "read_articles", "granted": false}`)
			},
			path: "/v1/users/u1/permissions/read_articles/check",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			rec := doRequest(f.router, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want %d", tt.path, rec.Code, http.StatusOK)
			}

			var resp checkResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Allowed != tt.want {
				t.Errorf("allowed = %v, want %v", resp.Allowed, tt.want)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture()

	rec := doRequest(f.router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
}
