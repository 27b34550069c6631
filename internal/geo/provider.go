package geo

import (
	"context"
	"time"

	"github.com/ipquery/geolookup/internal/models"
)

// Provider is the interface implemented by geolocation lookup backends.
// Allows swapping providers (ip-api, ipinfo) and easy testing with mocks.
type Provider interface {
	// Lookup queries the provider for the given IP address and returns
	// the normalized geolocation data
	Lookup(ctx context.Context, ip string) (*models.GeoInfo, error)

	// Name identifies the provider in logs and metrics
	Name() string
}

// DefaultTimeout bounds every outbound provider call
const DefaultTimeout = 10 * time.Second

// unknownValue substitutes for any string field the provider did not return
const unknownValue = "Unknown"

func orUnknown(value string) string {
	if value == "" {
		return unknownValue
	}
	return value
}
