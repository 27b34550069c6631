package main

import (
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ipquery/geolookup/internal/config"
	"github.com/ipquery/geolookup/internal/gateway"
	"github.com/ipquery/geolookup/internal/geo"
	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/service"
)

// Lambda entrypoint: one API Gateway proxy event in, one envelope out.
// No metrics collector here - each invocation runs in isolation and
// CloudWatch gets the structured logs.
func main() {
	appConfig := config.Load()

	appLogger := logger.New(logger.Config{
		Level:  appConfig.LogLevel,
		Pretty: false, // CloudWatch wants plain JSON lines
	})

	provider := buildProvider(appConfig, appLogger)
	lookupService := service.NewLookupService(provider, nil, appLogger)
	handler := gateway.NewHandler(lookupService, appLogger)

	lambda.Start(handler.Handle)
}

// buildProvider selects the geolocation provider client.
// Anything other than "ipinfo" falls back to ip-api.com, so an empty
// environment reproduces the default contract.
func buildProvider(appConfig *config.Config, log *logger.Logger) geo.Provider {
	timeout := time.Duration(appConfig.GeoTimeoutSeconds) * time.Second

	if appConfig.Provider == "ipinfo" {
		return geo.NewIPInfoClient(appConfig.IPInfoBaseURL, appConfig.IPInfoToken, timeout, log)
	}
	return geo.NewIPAPIClient(appConfig.GeoAPIBaseURL, timeout, log)
}
