package geo

import (
	"context"

	"github.com/ipquery/geolookup/internal/models"
)

// MockProvider is a test double for the Provider interface
// It allows tests to control behavior and verify interactions
type MockProvider struct {
	// Data holds the mock data (IP address -> geolocation mapping)
	Data map[string]*models.GeoInfo

	// Track method calls for verification in tests
	LookupCalls []string

	// Control behavior for error scenarios
	LookupError error

	// ProviderName overrides the reported name (defaults to "mock")
	ProviderName string
}

// NewMockProvider creates a mock provider pre-populated with common test IPs
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Data: map[string]*models.GeoInfo{
			"8.8.8.8": {
				Country:      "United States",
				CountryCode:  "US",
				Region:       "California",
				RegionCode:   "CA",
				City:         "Mountain View",
				ZipCode:      "94043",
				Latitude:     37.4223,
				Longitude:    -122.085,
				Timezone:     "America/Los_Angeles",
				ISP:          "Google LLC",
				Organization: "Google Public DNS",
				ASInfo:       "AS15169 Google LLC",
			},
			"1.1.1.1": {
				Country:      "Australia",
				CountryCode:  "AU",
				Region:       "Queensland",
				RegionCode:   "QLD",
				City:         "South Brisbane",
				ZipCode:      "4101",
				Latitude:     -27.4766,
				Longitude:    153.0166,
				Timezone:     "Australia/Brisbane",
				ISP:          "Cloudflare, Inc",
				Organization: "APNIC and Cloudflare DNS Resolver project",
				ASInfo:       "AS13335 Cloudflare, Inc.",
			},
		},
		LookupCalls: []string{},
	}
}

// Lookup implements the Provider interface
// Tracks calls and returns configured data or errors
func (m *MockProvider) Lookup(_ context.Context, ip string) (*models.GeoInfo, error) {
	m.LookupCalls = append(m.LookupCalls, ip)

	if m.LookupError != nil {
		return nil, m.LookupError
	}

	location, exists := m.Data[ip]
	if !exists {
		// Mirror what ip-api reports for addresses it cannot resolve
		return nil, ProviderError("geolocation API error: reserved range", nil)
	}

	return location, nil
}

// Name implements the Provider interface
func (m *MockProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}
