package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ipquery/geolookup/internal/geo"
	"github.com/ipquery/geolookup/internal/models"
	"github.com/ipquery/geolookup/internal/service"
)

func newTestHandler() (*GeoHandler, *geo.MockProvider) {
	mockProvider := geo.NewMockProvider()
	svc := service.NewLookupService(mockProvider, nil, nil)
	return NewGeoHandler(svc), mockProvider
}

func assertCORSHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	for key, value := range models.CORSHeaders() {
		if got := rec.Header().Get(key); got != value {
			t.Errorf("expected header %s: %q, got %q", key, value, got)
		}
	}
}

// TestGeoHandler_Geolocate_BodyIP tests a lookup with an explicit body IP
func TestGeoHandler_Geolocate_BodyIP(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/geolocate", strings.NewReader(`{"ip": "8.8.8.8"}`))
	rec := httptest.NewRecorder()

	h.Geolocate(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	assertCORSHeaders(t, rec)

	var envelope models.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !envelope.Success {
		t.Error("expected success=true")
	}
	if envelope.IP != "8.8.8.8" {
		t.Errorf("expected ip '8.8.8.8', got '%s'", envelope.IP)
	}
	if envelope.Message != models.MessageSuccess {
		t.Errorf("unexpected message: %s", envelope.Message)
	}
	if envelope.Location == nil || envelope.Location.City != "Mountain View" {
		t.Errorf("unexpected location: %+v", envelope.Location)
	}
	if envelope.Error != "" {
		t.Errorf("expected no error field, got %q", envelope.Error)
	}
}

// TestGeoHandler_Geolocate_SourceIPFallback tests falling back to RemoteAddr
func TestGeoHandler_Geolocate_SourceIPFallback(t *testing.T) {
	h, mockProvider := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/geolocate", nil)
	req.RemoteAddr = "1.1.1.1:54321"
	rec := httptest.NewRecorder()

	h.Geolocate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var envelope models.Envelope
	_ = json.NewDecoder(rec.Body).Decode(&envelope)

	if envelope.IP != "1.1.1.1" {
		t.Errorf("expected source IP 1.1.1.1, got %s", envelope.IP)
	}
	if len(mockProvider.LookupCalls) != 1 || mockProvider.LookupCalls[0] != "1.1.1.1" {
		t.Errorf("expected provider called with 1.1.1.1, got %v", mockProvider.LookupCalls)
	}
}

// TestGeoHandler_Geolocate_DefaultIP tests the fixed fallback address
func TestGeoHandler_Geolocate_DefaultIP(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/geolocate", nil)
	req.RemoteAddr = ""
	rec := httptest.NewRecorder()

	h.Geolocate(rec, req)

	var envelope models.Envelope
	_ = json.NewDecoder(rec.Body).Decode(&envelope)

	if envelope.IP != service.DefaultTargetIP {
		t.Errorf("expected default IP %s, got %s", service.DefaultTargetIP, envelope.IP)
	}
}

// TestGeoHandler_Geolocate_MalformedBody tests invalid JSON input
func TestGeoHandler_Geolocate_MalformedBody(t *testing.T) {
	h, mockProvider := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/geolocate", strings.NewReader(`{"ip": `))
	rec := httptest.NewRecorder()

	h.Geolocate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	assertCORSHeaders(t, rec)

	var envelope models.Envelope
	_ = json.NewDecoder(rec.Body).Decode(&envelope)

	if envelope.Success {
		t.Error("expected success=false")
	}
	if envelope.Message != models.MessageFailure {
		t.Errorf("unexpected message: %s", envelope.Message)
	}
	if envelope.Error == "" {
		t.Error("expected error field to be set")
	}

	if len(mockProvider.LookupCalls) != 0 {
		t.Errorf("expected no provider calls for malformed body, got %v", mockProvider.LookupCalls)
	}
}

// TestGeoHandler_Geolocate_ProviderFailure tests the error envelope
func TestGeoHandler_Geolocate_ProviderFailure(t *testing.T) {
	h, mockProvider := newTestHandler()
	mockProvider.LookupError = geo.ProviderError("geolocation API error: reserved range", nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/geolocate", strings.NewReader(`{"ip": "8.8.8.8"}`))
	rec := httptest.NewRecorder()

	h.Geolocate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	assertCORSHeaders(t, rec)

	var envelope models.Envelope
	_ = json.NewDecoder(rec.Body).Decode(&envelope)

	if envelope.Success {
		t.Error("expected success=false")
	}
	if !strings.Contains(envelope.Error, "reserved range") {
		t.Errorf("expected provider message in error, got %q", envelope.Error)
	}
	if envelope.Location != nil {
		t.Error("expected no location on failure")
	}
}

// TestGeoHandler_Preflight tests the CORS preflight response
func TestGeoHandler_Preflight(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/geolocate", nil)
	rec := httptest.NewRecorder()

	h.Preflight(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	assertCORSHeaders(t, rec)
}

// TestSourceIP tests source address extraction
func TestSourceIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{"host and port", "192.168.1.1:12345", "192.168.1.1"},
		{"bare host after RealIP", "192.168.1.1", "192.168.1.1"},
		{"ipv6 with port", "[2001:db8::1]:8080", "2001:db8::1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/geolocate", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := sourceIP(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
