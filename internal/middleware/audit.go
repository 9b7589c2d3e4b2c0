package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Audit emits a structured record per request so admin operations leave a
// trail even when the access log is disabled.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		caller, _ := c.Locals("caller_wallet").(string)
		reqID, _ := c.Locals(requestIDHeader).(string)

		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"caller", caller,
			"request_id", reqID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}
