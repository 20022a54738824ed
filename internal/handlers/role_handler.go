package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/infrastructure/metrics"
	"github.com/threatlens/authcore/internal/services"
)

// RoleHandler serves the role registry: listing roles and the full-replace
// commit of one role's permission set
type RoleHandler struct {
	roleService services.RoleServiceInterface
	exporter    *metrics.PrometheusExporter
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService services.RoleServiceInterface, exporter *metrics.PrometheusExporter) *RoleHandler {
	return &RoleHandler{roleService: roleService, exporter: exporter}
}

// roleResponse is the wire shape of one role
type roleResponse struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Permissions []string `json:"permissions"`
}

// List handles GET /v1/roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.GetRoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		resp = append(resp, toRoleResponse(role))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /v1/roles/{key}
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	role, err := h.roleService.GetRole(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRoleResponse(role))
}

// ReplacePermissions handles PUT /v1/roles/{key}/permissions.
// The body is the complete new permission list; the stored set becomes
// exactly this list, never a merge with concurrent state.
func (h *RoleHandler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var keys []string
	if err := decodeJSON(r, &keys); err != nil {
		writeError(w, err)
		return
	}

	err := h.roleService.ReplacePermissions(r.Context(), key, entities.NewPermissionSet(keys...))
	if err != nil {
		if h.exporter != nil {
			h.exporter.RecordRoleSave("error")
		}
		writeError(w, err)
		return
	}

	if h.exporter != nil {
		h.exporter.RecordRoleSave("ok")
	}

	role, err := h.roleService.GetRole(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRoleResponse(role))
}

func toRoleResponse(role *entities.Role) roleResponse {
	return roleResponse{
		Key:         role.Key,
		Label:       role.Label,
		Description: role.Description,
		Color:       role.Color,
		Permissions: role.Permissions.Keys(),
	}
}
