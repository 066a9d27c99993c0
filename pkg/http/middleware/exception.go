package middleware

import (
	"runtime/debug"

	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ExceptionMiddleware recovers panics, logs the stack and answers with
// a generic 500 so stack traces never leak to clients.
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if err := recover(); err != nil {
			_ = httpx.WithRepErr(c, httpx.InternalError.Code, errorToString(err), c.Path())
			log.Errorf("panic: %v\n%s", err, debug.Stack())
		}
	}()

	return c.Next()
}

func errorToString(err any) string {
	switch v := err.(type) {
	case httpx.ResponseErr:
		if errMsg, ok := v.ErrMsg.(string); ok {
			return errMsg
		}
		return httpx.InternalError.Msg
	case error:
		return httpx.InternalError.Msg
	default:
		if errMsg, ok := v.(string); ok {
			return errMsg
		}
		return httpx.InternalError.Msg
	}
}
