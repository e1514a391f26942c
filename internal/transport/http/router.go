// Package httptransport is the thin HTTP layer. Handlers decode requests,
// delegate to the workflow service, and encode responses; business rules
// stay out of this package.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"applyform/internal/platform/middleware"
)

// NewRouter wires middleware and all route groups into one handler.
func NewRouter(form *FormHandler, admin *AdminHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	form.Register(r)
	admin.Register(r)

	return r
}
