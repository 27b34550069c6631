package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ipquery/geolookup/internal/geo"
	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/metrics"
	"github.com/ipquery/geolookup/internal/models"
)

// DefaultTargetIP is used when neither the request body nor the platform
// supplies an address
const DefaultTargetIP = "8.8.8.8"

// LookupService handles business logic for geolocation lookups
// This is the service layer - it sits between the entrypoints and the
// provider client
//
// Responsibilities:
//   - Resolve the target IP (body > platform source IP > default)
//   - Validate input (IP format)
//   - Call the provider
//   - Track metrics and log outcomes
type LookupService struct {
	provider  geo.Provider
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewLookupService creates a new lookup service
//
// Parameters:
//   - provider: any implementation of the geo.Provider interface
//   - m: metrics collector (optional, can be nil - e.g. in Lambda)
//   - log: logger (optional, can be nil)
func NewLookupService(provider geo.Provider, m *metrics.Metrics, log *logger.Logger) *LookupService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &LookupService{
		provider:  provider,
		validator: validator.New(),
		metrics:   m,
		logger:    log.WithComponent("LookupService"),
	}
}

// ResolveTargetIP picks the IP to look up: the body's ip field when present,
// else the platform-provided source IP, else the fixed default.
func (s *LookupService) ResolveTargetIP(bodyIP, sourceIP string) string {
	if bodyIP != "" {
		return bodyIP
	}
	if sourceIP != "" {
		return sourceIP
	}
	return DefaultTargetIP
}

// Lookup validates the IP and queries the configured provider.
// Any failure comes back as a *geo.LookupError carrying its kind.
func (s *LookupService) Lookup(ctx context.Context, ip string) (*models.GeoInfo, error) {
	// "ip" is a built-in validation tag covering IPv4 and IPv6
	if err := s.validator.Var(ip, "required,ip"); err != nil {
		s.logger.Warn().Str("ip", ip).Msg("Invalid IP address format")
		if s.metrics != nil {
			s.metrics.LookupErrors.WithLabelValues(string(geo.KindInvalidInput)).Inc()
			s.metrics.LookupsTotal.WithLabelValues("error", s.provider.Name()).Inc()
		}
		return nil, geo.InvalidInput("invalid IP address format", nil)
	}

	start := time.Now()
	location, err := s.provider.Lookup(ctx, ip)
	if s.metrics != nil {
		s.metrics.ProviderRequestDuration.WithLabelValues(s.provider.Name()).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		kind := geo.KindOf(err)
		s.logger.Error().
			Err(err).
			Str("ip", ip).
			Str("provider", s.provider.Name()).
			Str("kind", string(kind)).
			Msg("Geolocation lookup failed")
		if s.metrics != nil {
			s.metrics.LookupErrors.WithLabelValues(string(kind)).Inc()
			s.metrics.LookupsTotal.WithLabelValues("error", s.provider.Name()).Inc()
		}
		return nil, err
	}

	s.logger.Info().
		Str("ip", ip).
		Str("country", location.Country).
		Str("city", location.City).
		Msg("Geolocation lookup successful")
	if s.metrics != nil {
		s.metrics.LookupsTotal.WithLabelValues("success", s.provider.Name()).Inc()
	}

	return location, nil
}
