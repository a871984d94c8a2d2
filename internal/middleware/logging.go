package middleware

import (
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	log "github.com/sirupsen/logrus"
)

func LogRequest() drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()

		c.Next()

		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"duration": time.Since(start).String(),
			"ua":       c.Request.UserAgent(),
		}).Debug("request")
	}
}
