package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ipquery/geolookup/internal/handler"
	"github.com/ipquery/geolookup/internal/limiter"
	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/metrics"
	custommiddleware "github.com/ipquery/geolookup/internal/middleware"
	v1 "github.com/ipquery/geolookup/internal/router/v1"
)

// SetupRouter creates and configures the chi router with all middleware
// and routes. Order matters: RequestID and RealIP first, then logging,
// recovery, rate limiting and metrics.
func SetupRouter(geoHandler *handler.GeoHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.RateLimitMiddleware(rateLimiter))
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Versioned API routes
	r.Mount("/v1", v1.SetupRoutes(geoHandler))

	// Health check endpoint for load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func healthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
