package middleware

import (
	"strconv"
	"time"

	"github.com/go-propel/propel/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request counts and latency per route. The
// route pattern is used as the path label to keep cardinality bounded.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		metrics.HTTPRequestTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
