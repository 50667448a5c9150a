package utils

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/hobbyreads/hobbyreads/backend/models"
	"github.com/hobbyreads/hobbyreads/internal/domain/apperr"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusOK, response)
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusCreated, response)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func SendForbidden(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func SendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// HandleValidationErrors converts validation errors to API response
func HandleValidationErrors(c *fiber.Ctx, errors []models.ValidationError) error {
	details := make(map[string]string, len(errors))
	for _, err := range errors {
		details[err.Field] = err.Description
	}
	return SendBadRequest(c, "Validation failed", details)
}

// StatusOf maps a domain failure kind onto its HTTP status and error code.
func StatusOf(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.InvalidArgument:
		return http.StatusBadRequest, "BAD_REQUEST"
	case apperr.NotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case apperr.Forbidden:
		return http.StatusForbidden, "FORBIDDEN"
	case apperr.Conflict:
		return http.StatusConflict, "CONFLICT"
	case apperr.InvalidState:
		return http.StatusUnprocessableEntity, "INVALID_STATE"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

// SendAppError answers with the status matching err's failure kind. Internal
// failures are logged and reported without their cause.
func SendAppError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status, code := StatusOf(kind)
	if kind == apperr.Internal {
		slog.Error("Request failed",
			slog.String("type", "error"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}
	return SendError(c, status, code, apperr.MessageOf(err), nil)
}

// ExtractUserSession extracts user session from Fiber context
func ExtractUserSession(c *fiber.Ctx) (*models.UserSession, bool) {
	session := c.Locals("user")
	if session == nil {
		return nil, false
	}

	userSession, ok := session.(*models.UserSession)
	return userSession, ok
}

// GetIPAddress extracts the client IP address
func GetIPAddress(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := c.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.IP()
}

func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
