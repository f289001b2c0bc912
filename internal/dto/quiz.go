package dto

import (
	"quiz-forge/internal/domain"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the JWT claims binding a client to its quiz session.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CreateSessionResponse is returned when a new quiz session is opened
// @Description Session identity and bearer token
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateQuizRequest represents the body of a generate call
// @Description Request body for generating a quiz from text
type GenerateQuizRequest struct {
	Text          string   `json:"text"`
	NumQuestions  int      `json:"num_questions"`
	QuestionTypes []string `json:"question_types"`
}

// QuestionResponse represents one question in the API response
type QuestionResponse struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Context     string   `json:"context,omitempty"`
}

// QuizResponse represents the session's quiz after an operation
// @Description Rendered quiz and its questions
type QuizResponse struct {
	SessionID  string             `json:"session_id"`
	Rendered   string             `json:"rendered"`
	Actionable bool               `json:"actionable"`
	Questions  []QuestionResponse `json:"questions"`
}

// ExportResponse is returned when an export could not produce an artifact
type ExportResponse struct {
	Rendered string `json:"rendered"`
	Format   string `json:"format"`
	FileName string `json:"file_name,omitempty"`
}

// QuizSnapshot is the published view of a session's quiz.
// @Description Cached rendering of a session's quiz
type QuizSnapshot struct {
	SessionID string             `json:"session_id"`
	Rendered  string             `json:"rendered"`
	Questions []QuestionResponse `json:"questions"`
	Types     []string           `json:"types"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewQuestionResponses maps domain questions to their API form, keeping order.
func NewQuestionResponses(questions []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponse{
			Question:    q.Text,
			Answer:      q.Answer,
			Type:        string(q.Type),
			Options:     q.Options,
			Explanation: q.Explanation,
			Context:     q.Context,
		})
	}
	return out
}
