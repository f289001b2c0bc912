package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/export"
	"quiz-forge/internal/middleware"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ManualMockTokenService implements service.SessionTokenService.
type ManualMockTokenService struct {
	ValidateFunc func(token string) (*dto.SessionClaims, error)
}

func (m *ManualMockTokenService) Issue(sessionID string) (string, time.Time, error) {
	panic("not implemented in mock")
}

func (m *ManualMockTokenService) Validate(token string) (*dto.SessionClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return nil, errors.New("ValidateFunc not set on mock")
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func decodeError(t *testing.T, body io.Reader) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestRequireSession(t *testing.T) {
	tokens := &ManualMockTokenService{
		ValidateFunc: func(token string) (*dto.SessionClaims, error) {
			if token == "good" {
				return &dto.SessionClaims{SessionID: "s1"}, nil
			}
			return nil, errors.New("invalid session token")
		},
	}

	app := newApp()
	app.Get("/protected", middleware.RequireSession(tokens), func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
		wantBody   string
	}{
		{name: "missing header", wantStatus: fiber.StatusUnauthorized, wantCode: "MISSING_AUTH_HEADER"},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: fiber.StatusUnauthorized, wantCode: "INVALID_AUTH_SCHEME"},
		{name: "empty token", authHeader: "Bearer ", wantStatus: fiber.StatusUnauthorized, wantCode: "EMPTY_TOKEN"},
		{name: "invalid token", authHeader: "Bearer bad", wantStatus: fiber.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
		{name: "valid token", authHeader: "Bearer good", wantStatus: fiber.StatusOK, wantBody: "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp.Body).Code)
				return
			}
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/session", func(c *fiber.Ctx) error {
		return domain.NewSessionNotFoundError("s1")
	})
	app.Get("/unsupported", func(c *fiber.Ctx) error {
		return domain.NewUnsupportedTypeError("essay")
	})
	app.Get("/export", func(c *fiber.Ctx) error {
		return domain.NewExportFailedError("pdf", errors.New("disk full"))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("text")}
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{path: "/session", wantStatus: fiber.StatusNotFound, wantCode: string(domain.CodeSessionNotFound)},
		{path: "/unsupported", wantStatus: fiber.StatusBadRequest, wantCode: string(domain.CodeUnsupportedType)},
		{path: "/export", wantStatus: fiber.StatusInternalServerError, wantCode: string(domain.CodeExportFailed)},
		{path: "/validation", wantStatus: fiber.StatusBadRequest, wantCode: string(domain.CodeValidation)},
		{path: "/unknown", wantStatus: fiber.StatusInternalServerError, wantCode: string(domain.CodeInternal)},
		{path: "/missing-route", wantStatus: fiber.StatusNotFound, wantCode: "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp.Body).Code)
		})
	}
}

func TestErrorHandler_Details(t *testing.T) {
	app := newApp()
	withSession := func(c *fiber.Ctx) error {
		c.Locals(middleware.SessionIDKey, "01J0000000000000000000000S")
		return c.Next()
	}
	app.Get("/export", withSession, func(c *fiber.Ctx) error {
		return domain.NewExportFailedError("document", errors.New("disk full"))
	})
	app.Get("/gone", withSession, func(c *fiber.Ctx) error {
		return domain.NewSessionNotFoundError("01J0000000000000000000000S")
	})
	app.Get("/anonymous", func(c *fiber.Ctx) error {
		return domain.NewUnsupportedTypeError("essay")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/export", nil))
	require.NoError(t, err)
	exported := decodeError(t, resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, exported.Status)
	assert.Equal(t, "01J0000000000000000000000S", exported.SessionID)
	assert.Equal(t, "document", exported.Details["format"])
	assert.Equal(t, true, exported.Details["retryable"])
	assert.Equal(t, "disk full", exported.Details["reason"])

	resp, err = app.Test(httptest.NewRequest("GET", "/gone", nil))
	require.NoError(t, err)
	gone := decodeError(t, resp.Body)
	assert.Equal(t, "01J0000000000000000000000S", gone.Details["session_id"])
	assert.Contains(t, gone.Details["hint"], "POST /api/sessions")

	resp, err = app.Test(httptest.NewRequest("GET", "/anonymous", nil))
	require.NoError(t, err)
	anonymous := decodeError(t, resp.Body)
	assert.Empty(t, anonymous.SessionID)
	assert.Nil(t, anonymous.Details)
}

func TestValidationMiddleware_GenerateQuiz(t *testing.T) {
	vm := middleware.NewValidationMiddleware(20)
	app := newApp()
	app.Post("/generate", vm.ValidateGenerateQuiz(), func(c *fiber.Ctx) error {
		types := c.Locals(middleware.ValidatedQuestionTypesKey).([]domain.QuestionType)
		return c.JSON(types)
	})

	post := func(body string) (int, []byte) {
		t.Helper()
		req := httptest.NewRequest("POST", "/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, data
	}

	status, body := post(`{"text":"x","num_questions":3,"question_types":["mcq","t/f"]}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `["mcq","t/f"]`, string(body))

	status, body = post(`{"text":"x","num_questions":50,"question_types":["essay"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	var resp middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Len(t, resp.Errors, 2)

	status, _ = post(`{"text":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestValidationMiddleware_ExportFormat(t *testing.T) {
	vm := middleware.NewValidationMiddleware(0)
	app := newApp()
	app.Get("/export", vm.ValidateExportFormat(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.ValidatedFormatKey).(export.Format).FileName())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/export?format=csv", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "generated_quiz.csv", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/export?format=docx", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "generated_quiz.md", string(body))
}
