package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/logger"
)

// ErrorPayload is the data section of an error envelope.
type ErrorPayload struct {
	ErrorCode string                 `json:"error_code"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ErrorHandlerMiddleware translates errors returned by handlers into the
// standard envelope. Internal causes never cross the wire; in production
// the message is replaced by a generic one too.
func ErrorHandlerMiddleware(log logger.ILogger, isProd bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		// Fiber's own errors (404 route miss, body limit) keep their status.
		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(BaseResponse[ErrorPayload]{
				Success: false,
				Code:    fiberErr.Code,
				Message: fiberErr.Message,
			})
		}

		appErr := apperr.From(err)
		status := appErr.Kind.StatusCode()

		message := appErr.Message
		if appErr.Kind == apperr.KindInternal {
			log.Error("http", "unhandled error", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
			if isProd {
				message = "an unexpected error occurred"
			}
		}

		return ctx.Status(status).JSON(BaseResponse[ErrorPayload]{
			Success: false,
			Code:    status,
			Message: message,
			Data: ErrorPayload{
				ErrorCode: appErr.Kind.Code(),
				Details:   appErr.Details,
			},
		})
	}
}
