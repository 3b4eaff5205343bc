package httpbind

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/wappdev/wapp/core/openapi"
)

// MountDocs serves the generated OpenAPI document at /openapi.json and an
// interactive viewer under /docs/. The document is generated once at bind
// time; the route table is immutable afterwards so there is nothing to
// regenerate per request.
func MountDocs(r chi.Router, spec *openapi.Spec) {
	r.Get("/openapi.json", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, spec)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	))
}

// MountMetrics exposes the Prometheus scrape endpoint.
func MountMetrics(r chi.Router, handler http.Handler, path string) {
	if path == "" {
		path = "/metrics"
	}
	r.Handle(path, handler)
}
