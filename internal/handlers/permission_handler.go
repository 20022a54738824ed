package handlers

import (
	"net/http"

	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/services"
)

// PermissionHandler serves the read-only permission catalog
type PermissionHandler struct {
	catalog services.CatalogServiceInterface
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(catalog services.CatalogServiceInterface) *PermissionHandler {
	return &PermissionHandler{catalog: catalog}
}

// permissionResponse is the wire shape of one catalog entry
type permissionResponse struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// List handles GET /v1/permissions
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	perms := h.catalog.List()

	resp := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		resp = append(resp, toPermissionResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

func toPermissionResponse(p *entities.Permission) permissionResponse {
	return permissionResponse{
		Key:         p.Key,
		Label:       p.Label,
		Description: p.Description,
		Group:       p.Group,
	}
}
