package handler

import (
	"errors"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler opens and closes quiz sessions
type SessionHandler struct {
	store     *session.Store
	tokens    service.SessionTokenService
	snapshots service.SnapshotCache
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(store *session.Store, tokens service.SessionTokenService, snapshots service.SnapshotCache) *SessionHandler {
	return &SessionHandler{
		store:     store,
		tokens:    tokens,
		snapshots: snapshots,
	}
}

// CreateSession godoc
// @Summary Open a quiz session
// @Description Creates an empty quiz session and returns its bearer token
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.CreateSessionResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	id := h.store.Create()
	token, expiresAt, err := h.tokens.Issue(id)
	if err != nil {
		h.store.Delete(id)
		return domain.NewInternalError("Failed to issue session token", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{
		SessionID: id,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// DeleteSession godoc
// @Summary Close the current session
// @Description Drops the session's quiz and its published snapshot
// @Tags sessions
// @Security ApiKeyAuth
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id := middleware.SessionID(c)
	if !h.store.Delete(id) {
		return domain.NewSessionNotFoundError(id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSnapshot godoc
// @Summary Read a published quiz
// @Description Returns the last published rendering of a session from the shared cache
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (ULID)"
// @Success 200 {object} dto.QuizSnapshot
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/snapshot [get]
func (h *SessionHandler) GetSnapshot(c *fiber.Ctx) error {
	id := c.Params("id")
	snapshot, err := h.snapshots.Fetch(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrSnapshotNotFound) {
			return domain.NewNotFoundError("No published quiz for session " + id)
		}
		logger.Get().Error("Failed to read quiz snapshot", zap.String("session_id", id), zap.Error(err))
		return err
	}
	return c.JSON(snapshot)
}
