package handler

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/export"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// QuizHandler drives the aggregator of the caller's session
type QuizHandler struct {
	store     *session.Store
	snapshots service.SnapshotCache
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(store *session.Store, snapshots service.SnapshotCache) *QuizHandler {
	return &QuizHandler{
		store:     store,
		snapshots: snapshots,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from text
// @Description Replaces the session's quiz with questions drawn from the given text
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateQuizRequest true "Source text and type mix"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req := c.Locals(middleware.ValidatedGenerateRequestKey).(*dto.GenerateQuizRequest)
	types := c.Locals(middleware.ValidatedQuestionTypesKey).([]domain.QuestionType)

	return h.mutate(c, func(a *service.QuizAggregator) service.Rendering {
		return a.Generate(req.Text, req.NumQuestions, types)
	})
}

// ShuffleQuiz godoc
// @Summary Shuffle the quiz
// @Description Reorders the session's questions at random
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.QuizResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/shuffle [post]
func (h *QuizHandler) ShuffleQuiz(c *fiber.Ctx) error {
	return h.mutate(c, (*service.QuizAggregator).Shuffle)
}

// AnalyzeQuiz godoc
// @Summary Append a text analysis
// @Description Appends key terms, named entities and topics of the source text to the rendering
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.QuizResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/analyze [post]
func (h *QuizHandler) AnalyzeQuiz(c *fiber.Ctx) error {
	return h.mutate(c, (*service.QuizAggregator).Analyze)
}

// GetQuiz godoc
// @Summary Get the current quiz
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.QuizResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id := middleware.SessionID(c)
	var resp dto.QuizResponse
	err := h.store.Do(id, func(a *service.QuizAggregator) error {
		resp = quizResponse(id, a, service.Rendering{Text: a.Rendered(), Actionable: len(a.Questions()) > 0})
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ExportQuiz godoc
// @Summary Download the quiz
// @Description Writes the quiz in the requested format and returns the artifact
// @Tags quiz
// @Produce text/csv,text/plain,application/pdf,text/markdown,json
// @Security ApiKeyAuth
// @Param format query string false "tabular (csv), plain-text (txt), document (pdf) or native (md)"
// @Success 200 {file} file
// @Success 202 {object} dto.ExportResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/export [get]
func (h *QuizHandler) ExportQuiz(c *fiber.Ctx) error {
	id := middleware.SessionID(c)
	format := c.Locals(middleware.ValidatedFormatKey).(export.Format)

	var (
		result service.ExportResult
		data   []byte
	)
	err := h.store.Do(id, func(a *service.QuizAggregator) error {
		result = a.Export(format)
		if result.Err != nil || result.Path == "" {
			return result.Err
		}
		var err error
		data, err = afero.ReadFile(a.Exporter().Fs(), result.Path)
		if err != nil {
			return domain.NewExportFailedError(string(format), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Nothing to export: report the message instead of an artifact.
	if result.Path == "" {
		return c.Status(fiber.StatusAccepted).JSON(dto.ExportResponse{
			Rendered: result.Text,
			Format:   string(format),
		})
	}

	c.Attachment(format.FileName())
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(data)
}

// mutate runs op on the caller's aggregator and publishes the new state.
func (h *QuizHandler) mutate(c *fiber.Ctx, op func(a *service.QuizAggregator) service.Rendering) error {
	id := middleware.SessionID(c)
	var (
		resp     dto.QuizResponse
		snapshot *dto.QuizSnapshot
	)
	err := h.store.Do(id, func(a *service.QuizAggregator) error {
		rendering := op(a)
		resp = quizResponse(id, a, rendering)
		if rendering.Actionable {
			snapshot = service.NewQuizSnapshot(id, a)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if snapshot != nil {
		if err := h.snapshots.Publish(c.UserContext(), snapshot); err != nil {
			logger.Get().Warn("Failed to publish quiz snapshot", zap.String("session_id", id), zap.Error(err))
		}
	}
	return c.JSON(resp)
}

func quizResponse(id string, a *service.QuizAggregator, r service.Rendering) dto.QuizResponse {
	return dto.QuizResponse{
		SessionID:  id,
		Rendered:   r.Text,
		Actionable: r.Actionable,
		Questions:  dto.NewQuestionResponses(a.Questions()),
	}
}
