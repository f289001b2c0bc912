package validation

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/export"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/util"
	"strings"

	"go.uber.org/zap"
)

const DefaultMaxQuestions = 100

// Validator checks HTTP requests before they reach a session. Empty text and
// an empty type list are left to the aggregator, which answers them with a
// message instead of an error.
type Validator struct {
	maxQuestions int
}

func NewValidator(maxQuestions int) *Validator {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &Validator{maxQuestions: maxQuestions}
}

// ValidateGenerateQuizRequest returns the parsed type mix in request order.
func (v *Validator) ValidateGenerateQuizRequest(req *dto.GenerateQuizRequest) ([]domain.QuestionType, domain.ValidationErrors) {
	var errors domain.ValidationErrors

	if req.NumQuestions < 1 || req.NumQuestions > v.maxQuestions {
		errors = append(errors, domain.NewOutOfRangeError("num_questions", req.NumQuestions, 1, v.maxQuestions))
	}

	types := make([]domain.QuestionType, 0, len(req.QuestionTypes))
	seen := make(map[domain.QuestionType]struct{}, len(req.QuestionTypes))
	for _, raw := range req.QuestionTypes {
		t, ok := domain.ParseQuestionType(raw)
		if !ok {
			errors = append(errors, domain.NewInvalidFormatError("question_types", raw))
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}

	if len(errors) > 0 {
		return nil, errors
	}
	return types, nil
}

// ValidateExportFormat resolves the canonical format names and their aliases.
// Empty and unrecognised values select the native format.
func (v *Validator) ValidateExportFormat(raw string) export.Format {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return export.FormatNative
	}
	f, ok := export.LookupFormat(raw)
	if !ok {
		logger.Get().Debug("Unknown export format, using native", zap.String("format", raw))
		return export.ParseFormat(raw)
	}
	return f
}

// ValidateSessionID checks the ULID shape of a session id.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("session_id")}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("session_id", id)}
	}
	return nil
}
