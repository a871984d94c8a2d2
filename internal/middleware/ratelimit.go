package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"

	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/go-redis/redis_rate/v9"
	"github.com/m1z23r/drift/pkg/drift"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per client IP for the named route
// group. A nil limiter disables the check. X-Forwarded-For is read only when
// trustProxy is set.
func RateLimit(limiter RequestRateLimiter, m *metrics.Manager, routeName string, allowedPerMin int, trustProxy bool) drift.HandlerFunc {
	return func(c *drift.Context) {
		if limiter == nil || allowedPerMin <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s", routeName, ClientIP(c.Request, trustProxy))
		res, err := limiter.Allow(c.Request.Context(), key, redis_rate.PerMinute(allowedPerMin))
		if err != nil {
			log.WithError(err).Error("rate limiter failed")
			c.InternalServerError("rate limit internal error")
			return
		}

		if res.Allowed > 0 {
			c.Next()
			return
		}

		if m != nil {
			m.CounterRateLimited.Inc()
		}
		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		c.Response.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		_ = c.JSON(http.StatusTooManyRequests, map[string]any{
			"error":       fmt.Sprintf("too many requests, retry after %d seconds", retryAfter),
			"retry_after": retryAfter,
		})
		c.Abort()
	}
}

// ClientIP keys by the socket address. Behind a trusted proxy it takes the
// hop the proxy appended to X-Forwarded-For, the last one.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			hops := strings.Split(fwd, ",")
			if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
