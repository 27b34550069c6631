package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration (HTTP mode only)
	Port string

	// Geolocation provider selection: "ipapi" (default) or "ipinfo"
	Provider string

	// ip-api.com configuration
	GeoAPIBaseURL string

	// ipinfo.io configuration
	IPInfoBaseURL string
	IPInfoToken   string

	// Outbound request timeout in seconds
	GeoTimeoutSeconds int

	// Logging
	LogLevel  string
	LogPretty bool

	// Inbound rate limiting (HTTP mode only)
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// Redis configuration (redis rate limiter backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables with sensible defaults.
// All defaults reproduce the service contract without any environment set:
// ip-api provider, 10 second timeout, no token.
func Load() *Config {
	// Load .env file if it exists (for local development)
	// In Lambda/Docker, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port: getEnv("PORT", "3000"),

		Provider:          getEnv("GEO_PROVIDER", "ipapi"),
		GeoAPIBaseURL:     getEnv("GEO_API_BASE_URL", "http://ip-api.com"),
		IPInfoBaseURL:     getEnv("IPINFO_BASE_URL", "https://ipinfo.io"),
		IPInfoToken:       getEnv("IPINFO_TOKEN", ""),
		GeoTimeoutSeconds: getEnvAsInt("GEO_TIMEOUT_SECONDS", 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 10),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean
// Returns default if not set or invalid
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
