package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ipquery/geolookup/internal/limiter"
)

// RateLimitMiddleware enforces rate limiting per client IP (returns 429
// when exceeded)
func RateLimitMiddleware(lim limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi's RealIP middleware has already resolved proxy headers
			// into RemoteAddr by this point
			ip := r.RemoteAddr

			if !lim.Allow(ip) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
