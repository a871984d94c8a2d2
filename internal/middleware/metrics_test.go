package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/m1z23r/drift/pkg/drift"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	app := drift.New()
	app.Use(RequestMetrics(m))
	app.Use(LogRequest())

	var inFlight float64
	app.Get("/ping", func(c *drift.Context) {
		inFlight = promtest.ToFloat64(m.GaugeRequests)
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for range 2 {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1.0, inFlight)
	assert.Equal(t, 0.0, promtest.ToFloat64(m.GaugeRequests))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.CounterRequests.WithLabelValues(http.MethodGet)))
	assert.Equal(t, 1, promtest.CollectAndCount(m.HistRequestDuration))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
