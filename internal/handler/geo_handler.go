package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/ipquery/geolookup/internal/geo"
	"github.com/ipquery/geolookup/internal/models"
	"github.com/ipquery/geolookup/internal/service"
)

// GeoHandler handles HTTP requests for geolocation lookups
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Parse the optional JSON request body
//   - Fall back to the caller's source address when no IP is given
//   - Call the service
//   - Write the uniform envelope with the fixed CORS headers
//   - NO business logic (that's in the service layer)
type GeoHandler struct {
	service *service.LookupService
}

// NewGeoHandler creates a new geolocation handler with the given service
func NewGeoHandler(service *service.LookupService) *GeoHandler {
	return &GeoHandler{
		service: service,
	}
}

// Geolocate handles POST /v1/geolocate
// @Summary      Look up geolocation for an IP address
// @Description  Accepts an optional JSON body with an "ip" field; falls back to the caller's source address
// @Tags         Geolocation
// @Accept       json
// @Produce      json
// @Param        request  body      models.LookupRequest  false  "Lookup request"
// @Success      200      {object}  models.Envelope
// @Failure      500      {object}  models.Envelope
// @Router       /v1/geolocate [post]
func (h *GeoHandler) Geolocate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, geo.InvalidInput("failed to read request body", err))
		return
	}

	req, err := models.ParseLookupRequest(body)
	if err != nil {
		h.respondError(w, geo.InvalidInput("invalid request body", err))
		return
	}

	ip := h.service.ResolveTargetIP(req.IP, sourceIP(r))

	location, err := h.service.Lookup(r.Context(), ip)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, models.SuccessEnvelope(ip, location))
}

// Preflight handles OPTIONS /v1/geolocate (CORS preflight)
func (h *GeoHandler) Preflight(w http.ResponseWriter, _ *http.Request) {
	for key, value := range models.CORSHeaders() {
		w.Header().Set(key, value)
	}
	w.WriteHeader(http.StatusNoContent)
}

// sourceIP extracts the caller's address from the request.
// Behind chi's RealIP middleware RemoteAddr may already be a bare host.
func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondJSON writes an envelope with the fixed headers and status code.
// The four CORS headers are set on every response, success or failure.
func (h *GeoHandler) respondJSON(w http.ResponseWriter, statusCode int, envelope models.Envelope) {
	for key, value := range models.CORSHeaders() {
		w.Header().Set(key, value)
	}
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		// Headers are already sent, nothing left to do but log via http
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes the uniform error envelope with status 500.
// Every failure kind maps to the same external shape.
func (h *GeoHandler) respondError(w http.ResponseWriter, err error) {
	h.respondJSON(w, http.StatusInternalServerError, models.ErrorEnvelope(err))
}
