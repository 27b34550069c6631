package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ipquery/geolookup/internal/config"
	"github.com/ipquery/geolookup/internal/geo"
	"github.com/ipquery/geolookup/internal/handler"
	"github.com/ipquery/geolookup/internal/limiter"
	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/metrics"
	"github.com/ipquery/geolookup/internal/router"
	"github.com/ipquery/geolookup/internal/service"
)

// @title           Geolookup API
// @version         1.0
// @description     IP geolocation lookup service backed by external providers

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /
func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	provider := setupProvider(appConfig, appLogger)

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := setupMetrics(appLogger)

	// Build application layers
	lookupService := service.NewLookupService(provider, metricsCollector, appLogger)
	geoHandler := handler.NewGeoHandler(lookupService)
	appRouter := router.SetupRouter(geoHandler, rateLimiter, metricsCollector, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: appConfig.LogPretty,
	})

	appLogger.Info().Msg("Starting geolookup server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("provider", appConfig.Provider).
		Int("geo_timeout_seconds", appConfig.GeoTimeoutSeconds).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Msg("Configuration loaded")

	return appLogger
}

// setupProvider initializes the geolocation provider client based on
// configuration. Supports ip-api.com (default) and ipinfo.io.
func setupProvider(appConfig *config.Config, log *logger.Logger) geo.Provider {
	timeout := time.Duration(appConfig.GeoTimeoutSeconds) * time.Second

	switch appConfig.Provider {
	case "ipapi", "":
		fmt.Println("✅ ip-api.com provider initialized")
		return geo.NewIPAPIClient(appConfig.GeoAPIBaseURL, timeout, log)

	case "ipinfo":
		fmt.Println("✅ ipinfo.io provider initialized")
		return geo.NewIPInfoClient(appConfig.IPInfoBaseURL, appConfig.IPInfoToken, timeout, log)

	default:
		log.Fatal().Str("provider", appConfig.Provider).Msg("Unknown geolocation provider")
		return nil
	}
}

// setupRateLimiter initializes the inbound rate limiter
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	// Effective rate in requests per second:
	// 10 requests per 5 seconds = 10/5 = 2.0 req/s
	effectiveRate := float64(appConfig.RateLimit) / float64(appConfig.RateLimitWindow)

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %d sec = %.2f req/s)\n",
		appConfig.RateLimitType, appConfig.RateLimit, appConfig.RateLimitWindow, effectiveRate)

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := ":" + appConfig.Port

	log.Info().
		Str("port", appConfig.Port).
		Str("api_endpoint", "http://localhost:"+appConfig.Port+"/v1/geolocate").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
