package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"feedbackhub/internal/cache"
)

// RateLimitRule bounds requests per client IP within a window
type RateLimitRule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

// RateLimit enforces rule using limiter. Limiter failures let the request
// through.
func RateLimit(limiter cache.RateLimiter, rule RateLimitRule, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := limiter.Allow(r.Context(), rule.Name+":"+ClientIP(r), rule.Limit, rule.Window)
			if err != nil {
				logger.Warn("rate limiter unavailable",
					zap.String("rule", rule.Name),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(decision.ResetIn.Seconds()))))

			if !decision.Allowed {
				WriteError(w, r, http.StatusTooManyRequests, rule.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the remote address without its port
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
