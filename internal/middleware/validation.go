package middleware

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	ValidatedGenerateRequestKey = "validated_generate_request"
	ValidatedQuestionTypesKey   = "validated_question_types"
	ValidatedFormatKey          = "validated_format"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(maxQuestions int) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(maxQuestions),
	}
}

// ValidateGenerateQuiz parses and checks the generate request body.
func (vm *ValidationMiddleware) ValidateGenerateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("body", "malformed JSON")}
		}

		types, errors := vm.validator.ValidateGenerateQuizRequest(&req)
		if len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedGenerateRequestKey, &req)
		c.Locals(ValidatedQuestionTypesKey, types)
		return c.Next()
	}
}

// ValidateExportFormat resolves the format query parameter.
func (vm *ValidationMiddleware) ValidateExportFormat() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(ValidatedFormatKey, vm.validator.ValidateExportFormat(c.Query("format")))
		return c.Next()
	}
}

// ValidateSessionParam checks the :id path parameter.
func (vm *ValidationMiddleware) ValidateSessionParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errors := vm.validator.ValidateSessionID(c.Params("id")); len(errors) > 0 {
			return errors
		}
		return c.Next()
	}
}
