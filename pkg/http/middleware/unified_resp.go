package middleware

import (
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// Locals keys handlers use to hand their result to the unified
// response middleware.
const (
	DETAIL    = "detail"
	OPERATION = "operation"
)

// UnifiedResponseMiddleware wraps successful handler results in the
// standard envelope. Handlers either set DETAIL with a payload or
// OPERATION for payload-less success; error paths reply themselves.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() >= fiber.StatusOK && c.Response().StatusCode() < fiber.StatusMultipleChoices {
			if detail := c.Locals(DETAIL); detail != nil {
				return httpx.WithRepJSON(c, detail)
			}
			if c.Locals(OPERATION) != nil {
				return httpx.WithRepNotDetail(c)
			}
		}

		return nil
	}
}
