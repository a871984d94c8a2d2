package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/go-redis/redis_rate/v9"
	"github.com/m1z23r/drift/pkg/drift"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	allowed int
	keys    []string
	err     error
}

func (l *fakeLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	if len(l.keys) > l.allowed {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 1500 * time.Millisecond}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: l.allowed - len(l.keys)}, nil
}

func newRateLimitedApp(limiter RequestRateLimiter, m *metrics.Manager) http.Handler {
	app := drift.New()
	app.Use(RateLimit(limiter, m, "login", 2, false))
	app.Post("/login", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return app
}

func TestRateLimit_RejectsAfterLimit(t *testing.T) {
	limiter := &fakeLimiter{allowed: 2}
	m := metrics.NewTestManager()
	app := newRateLimitedApp(limiter, m)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.7:51234"
		last = httptest.NewRecorder()
		app.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "retry after 2 seconds")
	assert.Equal(t, "rl:login:10.0.0.7", limiter.keys[0])
	assert.Equal(t, 1.0, promtest.ToFloat64(m.CounterRateLimited))
}

func TestRateLimit_LimiterError(t *testing.T) {
	app := newRateLimitedApp(&fakeLimiter{err: errors.New("redis down")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	app := newRateLimitedApp(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:4000"
	assert.Equal(t, "192.168.1.10", ClientIP(req, false))
	assert.Equal(t, "192.168.1.10", ClientIP(req, true))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 198.51.100.23")
	assert.Equal(t, "192.168.1.10", ClientIP(req, false))
	assert.Equal(t, "198.51.100.23", ClientIP(req, true))
}

func TestRateLimit_ForwardedForCannotDodgeBudget(t *testing.T) {
	limiter := &fakeLimiter{allowed: 2}
	app := newRateLimitedApp(limiter, metrics.NewTestManager())

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.7:51234"
		req.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	for _, key := range limiter.keys {
		assert.Equal(t, "rl:login:10.0.0.7", key)
	}
}
