package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"tourism-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit applies a fixed-window per-IP limit backed by Redis. The
// scope keeps throttled route groups on separate counters so an auth
// burst does not consume the booking budget. When Redis is unreachable
// the request is let through; throttling is not worth an outage.
func RateLimit(client *redis.Client, scope string, limit int, window time.Duration, enabled bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || !enabled || limit < 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := fmt.Sprintf("ratelimit:%s:%s", scope, ip)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				client.Expire(r.Context(), key, window)
			}

			if count > int64(limit) {
				logger.Warn("Rate limit exceeded",
					zap.String("scope", scope),
					zap.String("ip", ip),
					zap.Int64("count", count))
				utils.ResponseTooManyRequests(w, "Too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
