package middleware

import (
	"errors"
	"net/http"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed API call. SessionID is set once
// the request has been authenticated.
type ErrorResponse struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Status    int                    `json:"status"`
	SessionID string                 `json:"session_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every rejected request field.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:        http.StatusNotFound,
	domain.CodeSessionNotFound: http.StatusNotFound,
	domain.CodeInvalidInput:    http.StatusBadRequest,
	domain.CodeValidation:      http.StatusBadRequest,
	domain.CodeMissingField:    http.StatusBadRequest,
	domain.CodeInvalidFormat:   http.StatusBadRequest,
	domain.CodeOutOfRange:      http.StatusBadRequest,
	domain.CodeUnsupportedType: http.StatusBadRequest,
	domain.CodeUnauthorized:    http.StatusUnauthorized,
	domain.CodeExportFailed:    http.StatusInternalServerError,
}

// sessionGoneHint tells clients how to recover from an expired session.
const sessionGoneHint = "create a new session with POST /api/sessions"

// ErrorHandler turns handler errors into JSON responses. Domain errors keep
// their code; fiber errors become HTTP_ERROR; anything else is INTERNAL_ERROR.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get().With(
			zap.String("path", c.Path()),
			zap.String("session_id", SessionID(c)),
		)

		if validationErrs, ok := err.(domain.ValidationErrors); ok {
			log.Warn("Request validation failed", zap.Int("error_count", len(validationErrs)))
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			status := statusForCode(domainErr.Code)
			fields := []zap.Field{
				zap.String("code", string(domainErr.Code)),
				zap.Int("status", status),
				zap.Error(domainErr.Cause),
			}
			if status >= http.StatusInternalServerError {
				log.Error(domainErr.Message, fields...)
			} else {
				log.Warn(domainErr.Message, fields...)
			}
			return writeError(c, status, string(domainErr.Code), domainErr.Message, domainDetails(domainErr))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("HTTP error", zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))
			return writeError(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message, nil)
		}

		log.Error("Unhandled error", zap.Error(err))
		return writeError(c, http.StatusInternalServerError, string(domain.CodeInternal), "Internal server error", nil)
	}
}

func writeError(c *fiber.Ctx, status int, code, message string, details map[string]interface{}) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:      code,
		Message:   message,
		Status:    status,
		SessionID: SessionID(c),
		Details:   details,
	})
}

// domainDetails copies the error context and adds recovery hints for the
// session and export failures clients can act on.
func domainDetails(err *domain.DomainError) map[string]interface{} {
	details := make(map[string]interface{}, len(err.Context)+1)
	for k, v := range err.Context {
		details[k] = v
	}
	switch err.Code {
	case domain.CodeSessionNotFound:
		details["hint"] = sessionGoneHint
	case domain.CodeExportFailed:
		if err.Cause != nil {
			details["reason"] = err.Cause.Error()
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func statusForCode(code domain.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
