package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/ayush/krishi-mitr/backend/internal/metrics"
	"github.com/ayush/krishi-mitr/backend/internal/respond"
)

// RateLimit rejects requests above rps (with the given burst) across the
// whole server. rps <= 0 disables limiting.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				metrics.RateLimited.Inc()
				respond.Message(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
