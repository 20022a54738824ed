package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/threatlens/authcore/internal/entities"
	"github.com/threatlens/authcore/internal/infrastructure/metrics"
	"github.com/threatlens/authcore/internal/repositories"
	"github.com/threatlens/authcore/internal/services"
	"github.com/threatlens/authcore/internal/services/authorization"
)

// OverrideHandler serves the per-user override lifecycle and the
// enforcement-boundary permission check
type OverrideHandler struct {
	overrideService services.OverrideServiceInterface
	resolver        authorization.ResolverInterface
	userRepo        repositories.UserRepository
	exporter        *metrics.PrometheusExporter
}

// NewOverrideHandler creates a new OverrideHandler
func NewOverrideHandler(
	overrideService services.OverrideServiceInterface,
	resolver authorization.ResolverInterface,
	userRepo repositories.UserRepository,
	exporter *metrics.PrometheusExporter,
) *OverrideHandler {
	return &OverrideHandler{
		overrideService: overrideService,
		resolver:        resolver,
		userRepo:        userRepo,
		exporter:        exporter,
	}
}

// overrideResponse is the wire shape of one override record
type overrideResponse struct {
	ID         string    `json:"id"`
	Permission string    `json:"permission"`
	Granted    bool      `json:"granted"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// overrideListResponse is the wire shape of GET /v1/users/{id}/overrides
type overrideListResponse struct {
	Role                 string             `json:"role"`
	EffectivePermissions []string           `json:"effective_permissions"`
	Overrides            []overrideResponse `json:"overrides"`
}

// addOverrideRequest is the body of POST /v1/users/{id}/overrides
type addOverrideRequest struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
	Reason     string `json:"reason,omitempty"`
}

// checkResponse is the wire shape of the permission check endpoint
type checkResponse struct {
	Allowed bool `json:"allowed"`
}

// List handles GET /v1/users/{id}/overrides
func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.overrideService.ListOverrides(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := overrideListResponse{
		Role:                 view.Role,
		EffectivePermissions: view.Effective.Keys(),
		Overrides:            make([]overrideResponse, 0, len(view.Overrides)),
	}
	for _, o := range view.Overrides {
		resp.Overrides = append(resp.Overrides, toOverrideResponse(o))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Add handles POST /v1/users/{id}/overrides.
// Creates or replaces the override for the (user, permission) pair.
func (h *OverrideHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req addOverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	override, err := h.overrideService.AddOverride(r.Context(), user, req.Permission, req.Granted, req.Reason)
	if err != nil {
		if h.exporter != nil {
			h.exporter.RecordOverrideMutation("upsert", "error")
		}
		writeError(w, err)
		return
	}

	if h.exporter != nil {
		h.exporter.RecordOverrideMutation("upsert", "ok")
	}

	writeJSON(w, http.StatusCreated, toOverrideResponse(override))
}

// Remove handles DELETE /v1/users/{id}/overrides/{permission}.
// Reverts the pair to the role default; deleting an absent override
// still answers 204.
func (h *OverrideHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, err := h.userRepo.GetByID(r.Context(), vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.overrideService.RemoveOverride(r.Context(), user, vars["permission"]); err != nil {
		if h.exporter != nil {
			h.exporter.RecordOverrideMutation("delete", "error")
		}
		writeError(w, err)
		return
	}

	if h.exporter != nil {
		h.exporter.RecordOverrideMutation("delete", "ok")
	}

	w.WriteHeader(http.StatusNoContent)
}

// Check handles GET /v1/users/{id}/permissions/{key}/check.
// This is the enforcement boundary other services call before performing
// a privileged action.
func (h *OverrideHandler) Check(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, err := h.userRepo.GetByID(r.Context(), vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	allowed, err := h.resolver.HasPermission(r.Context(), user, vars["key"])
	if err != nil {
		writeError(w, err)
		return
	}

	if h.exporter != nil {
		h.exporter.RecordCheck(allowed)
	}

	writeJSON(w, http.StatusOK, checkResponse{Allowed: allowed})
}

func toOverrideResponse(o *entities.Override) overrideResponse {
	return overrideResponse{
		ID:         o.ID,
		Permission: o.Permission,
		Granted:    o.Granted,
		Reason:     o.Reason,
		CreatedAt:  o.CreatedAt,
	}
}
