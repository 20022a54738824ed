package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/threatlens/authcore/internal/infrastructure/metrics"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck() error
}

// NewRouter wires the HTTP surface of the authorization core
func NewRouter(
	permissionHandler *PermissionHandler,
	roleHandler *RoleHandler,
	overrideHandler *OverrideHandler,
	health HealthChecker,
	exporter *metrics.PrometheusExporter,
) *mux.Router {
	router := mux.NewRouter()

	if exporter != nil {
		router.Use(metrics.Middleware(exporter))
	}

	v1 := router.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/permissions", permissionHandler.List).Methods(http.MethodGet)

	v1.HandleFunc("/roles", roleHandler.List).Methods(http.MethodGet)
	v1.HandleFunc("/roles/{key}", roleHandler.Get).Methods(http.MethodGet)
	v1.HandleFunc("/roles/{key}/permissions", roleHandler.ReplacePermissions).Methods(http.MethodPut)

	v1.HandleFunc("/users/{id}/overrides", overrideHandler.List).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id}/overrides", overrideHandler.Add).Methods(http.MethodPost)
	v1.HandleFunc("/users/{id}/overrides/{permission}", overrideHandler.Remove).Methods(http.MethodDelete)
	v1.HandleFunc("/users/{id}/permissions/{key}/check", overrideHandler.Check).Methods(http.MethodGet)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.HealthCheck(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return router
}
