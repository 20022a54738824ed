package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// statusRecorder captures the response status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns a mux middleware that records request count,
// duration, and server errors per route template. The route template
// (not the raw path) is used as the label so user IDs and permission
// keys do not explode the label cardinality.
func Middleware(exporter *PrometheusExporter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			exporter.RecordHTTPRequest(r.Method, route, time.Since(start).Seconds(), rec.status)
		})
	}
}
