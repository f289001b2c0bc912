package export

import (
	"fmt"
	"io"
	"quiz-forge/internal/domain"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ruleWidth = 70

var titleCaser = cases.Title(language.English)

// TypeTitle renders a type tag for humans, e.g. fill_blank -> Fill Blank.
func TypeTitle(t domain.QuestionType) string {
	return titleCaser.String(strings.ReplaceAll(string(t), "_", " "))
}

// WritePlainText writes the quiz as a numbered plain-text listing in quiz order.
func WritePlainText(w io.Writer, questions []domain.Question) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Generated Quiz (%d questions)\n", len(questions))
	b.WriteString(strings.Repeat("=", ruleWidth))
	b.WriteString("\n\n")

	for i, q := range questions {
		fmt.Fprintf(&b, "Q%d. [%s]\n", i+1, TypeTitle(q.Type))
		fmt.Fprintf(&b, "%s\n\n", q.Text)
		if len(q.Options) > 0 {
			for _, opt := range q.Options {
				fmt.Fprintf(&b, "   - %s\n", opt)
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Answer: %s\n", q.Answer)
		b.WriteString(strings.Repeat("-", ruleWidth))
		b.WriteString("\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
