package export

import (
	"fmt"
	"quiz-forge/internal/domain"
	"strings"
)

// EmptyQuizMarkdown is rendered when generation produced nothing.
const EmptyQuizMarkdown = "# Generated Quiz (0 questions)\n\nNo questions generated."

var markdownHeadings = map[domain.QuestionType]string{
	domain.TypeFillBlank:   "Fill in the blank",
	domain.TypeMCQ:         "Multiple choice",
	domain.TypeTrueFalse:   "True/false",
	domain.TypeShortAnswer: "Short answer",
	domain.TypeTopic:       "Topic",
}

// RenderMarkdown produces the display rendering of a quiz.
func RenderMarkdown(questions []domain.Question) string {
	if len(questions) == 0 {
		return EmptyQuizMarkdown
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\n# Generated Quiz (%d questions)\n\n", len(questions))
	for _, g := range GroupByType(questions) {
		heading, ok := markdownHeadings[g.Type]
		if !ok {
			heading = string(g.Type)
		}
		fmt.Fprintf(&b, "## %s Questions\n\n", heading)

		for _, nq := range g.Questions {
			q := nq.Question
			fmt.Fprintf(&b, "**Q%d.** %s\n\n", nq.Number, q.Text)
			if q.Type == domain.TypeMCQ && len(q.Options) > 0 {
				for _, opt := range q.Options {
					fmt.Fprintf(&b, "\n- %s", opt)
				}
				fmt.Fprintf(&b, "\n\n*Answer: %s*\n\n", q.Answer)
			} else {
				fmt.Fprintf(&b, "*Answer: %s*\n\n", q.Answer)
			}
		}
	}
	return b.String()
}
