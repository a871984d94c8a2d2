package middleware

import (
	"time"

	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/m1z23r/drift/pkg/drift"
)

func RequestMetrics(m *metrics.Manager) drift.HandlerFunc {
	return func(c *drift.Context) {
		m.GaugeRequests.Inc()
		defer func(begin time.Time) {
			m.GaugeRequests.Dec()
			m.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())

		m.CounterRequests.WithLabelValues(c.Request.Method).Inc()

		c.Next()
	}
}
