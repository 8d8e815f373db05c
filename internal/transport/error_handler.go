package transport

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/feishu-order-notify/internal/observability"
	"go.uber.org/zap"
)

// ErrorHandler renders handler errors as {"error": ...}. Client errors are
// logged at warn level, everything else at error level.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		}
		log := observability.LoggerFor(c.UserContext(), logger)
		if code < fiber.StatusInternalServerError {
			log.Warn("request rejected", fields...)
		} else {
			log.Error("request error", fields...)
		}

		message := err.Error()
		if code == fiber.StatusInternalServerError && fiberErr == nil {
			message = "internal server error"
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}

// RequestID copies the X-Request-ID header into the request context so that
// service logs carry it. A missing header leaves the context untouched.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if requestID := c.Get(fiber.HeaderXRequestID); requestID != "" {
			c.SetUserContext(observability.WithRequestID(c.UserContext(), requestID))
			c.Set(fiber.HeaderXRequestID, requestID)
		}
		return c.Next()
	}
}
