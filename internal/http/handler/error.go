package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"mailrelay/internal/http/middleware"
)

// Messages for failures that are not produced by the validator.
const (
	MsgInvalidBody         = "Invalid request body"
	MsgSubscriptionFailed  = "Failed to process subscription"
	MsgContactFailed       = "Failed to send message"
	MsgStatusUnavailable   = "Failed to collect server status"
	MsgNotFound            = "Resource not found"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgBadRequest          = "Bad request"
	MsgInternalServerError = "Internal server error"
)

// apiResponse is the JSON envelope used by every API response.
type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a failure envelope. message must be safe to expose;
// internal causes are logged by the caller, never written here.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(apiResponse{
		Success:   false,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	})
}

func writeSuccess(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(apiResponse{
		Success: true,
		Message: message,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := ""
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch {
		case status == fiber.StatusBadRequest:
			return writeError(c, status, MsgBadRequest)
		case status == fiber.StatusNotFound:
			return writeError(c, status, MsgNotFound)
		case status == fiber.StatusMethodNotAllowed:
			return writeError(c, status, MsgMethodNotAllowed)
		case status >= 400 && status < 500:
			// Other client errors (413, 415, 431...) carry a safe framework message
			if message == "" {
				message = utils.StatusMessage(status)
			}
			return writeError(c, status, message)
		default:
			return writeError(c, status, MsgInternalServerError)
		}
	}
}
