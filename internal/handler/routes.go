package handler

import (
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register mounts the session and quiz routes under api.
func Register(api fiber.Router, sessions *SessionHandler, quiz *QuizHandler, tokens service.SessionTokenService, vm *middleware.ValidationMiddleware) {
	requireSession := middleware.RequireSession(tokens)

	sessionGroup := api.Group("/sessions")
	sessionGroup.Post("/", sessions.CreateSession)
	sessionGroup.Delete("/", requireSession, sessions.DeleteSession)
	sessionGroup.Get("/:id/snapshot", vm.ValidateSessionParam(), sessions.GetSnapshot)

	quizGroup := api.Group("/quiz", requireSession)
	quizGroup.Get("/", quiz.GetQuiz)
	quizGroup.Post("/generate", vm.ValidateGenerateQuiz(), quiz.GenerateQuiz)
	quizGroup.Post("/shuffle", quiz.ShuffleQuiz)
	quizGroup.Post("/analyze", quiz.AnalyzeQuiz)
	quizGroup.Get("/export", vm.ValidateExportFormat(), quiz.ExportQuiz)
}
