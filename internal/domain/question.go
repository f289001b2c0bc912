package domain

import (
	"fmt"
	"strings"
)

// QuestionType is the wire tag of a question kind.
type QuestionType string

const (
	TypeFillBlank   QuestionType = "fill_blank"
	TypeMCQ         QuestionType = "mcq"
	TypeTrueFalse   QuestionType = "t/f"
	TypeShortAnswer QuestionType = "short_answer"
	TypeTopic       QuestionType = "topic"
)

// MCQOptionCount is the number of options every multiple-choice question carries.
const MCQOptionCount = 4

// QuestionTypes lists every supported type in canonical order.
func QuestionTypes() []QuestionType {
	return []QuestionType{TypeFillBlank, TypeMCQ, TypeTrueFalse, TypeShortAnswer, TypeTopic}
}

// ParseQuestionType accepts the wire tag of a question type, case-insensitively.
func ParseQuestionType(s string) (QuestionType, bool) {
	tag := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range QuestionTypes() {
		if t == tag {
			return t, true
		}
	}
	return "", false
}

// Question is a single quiz item.
type Question struct {
	Text        string       `json:"question"`
	Answer      string       `json:"answer"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Context     string       `json:"context,omitempty"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question", "question text is required")
	}
	if strings.TrimSpace(q.Answer) == "" {
		return NewValidationError("answer", "answer is required")
	}
	if q.Type == TypeMCQ {
		if len(q.Options) != MCQOptionCount {
			return NewValidationError("options", fmt.Sprintf("multiple choice needs %d options, got %d", MCQOptionCount, len(q.Options)))
		}
		matches := 0
		for _, opt := range q.Options {
			if opt == q.Answer {
				matches++
			}
		}
		if matches != 1 {
			return NewValidationError("options", "answer must appear exactly once among the options")
		}
	}
	return nil
}
