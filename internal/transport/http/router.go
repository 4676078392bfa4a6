package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	formhandler "formdetect/internal/form/handler"
	"formdetect/internal/platform/health"
	"formdetect/internal/platform/metrics"
	"formdetect/internal/platform/middleware"
)

// NewRouter wires all endpoints with the middleware stack.
// Handlers stay thin; business logic lives in the form service.
func NewRouter(form *formhandler.Handler, healthHandler *health.Handler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	form.Register(r)
	healthHandler.Register(r)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
