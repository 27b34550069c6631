package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/ipquery/geolookup/internal/handler"
)

// SetupRoutes configures all v1 API routes
func SetupRoutes(geoHandler *handler.GeoHandler) chi.Router {
	r := chi.NewRouter()

	// Geolocation lookup endpoint
	// POST /v1/geolocate with optional body {"ip": "8.8.8.8"}
	r.Post("/geolocate", geoHandler.Geolocate)
	r.Options("/geolocate", geoHandler.Preflight)

	return r
}
