package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/metrics"
)

// requestLogger times every request, feeds the prometheus counters and tags
// each request with an id.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)

		start := time.Now()
		err := c.Next()
		dur := time.Since(start)

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(dur.Seconds())

		s.Log.Infow("http",
			"id", id,
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"dur", dur,
		)
		return err
	}
}
