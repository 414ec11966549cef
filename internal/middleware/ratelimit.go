package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"coursepanel/internal/httputil"
)

// RateCounter counts hits per key inside a fixed window
type RateCounter interface {
	// Hit increments the counter for key, starting a new window on the first hit,
	// and returns the count and the time left in the window
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RateLimit rejects clients exceeding limit requests per window with 429.
// Counter errors let the request through.
func RateLimit(counter RateCounter, scope string, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if counter == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate_limit:%s:%s", scope, clientIP(r))

			count, ttl, err := counter.Hit(r.Context(), key, window)
			if err != nil {
				logger.Warn("rate limiter unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				retryAfter := max(int(ttl.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httputil.RespondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
