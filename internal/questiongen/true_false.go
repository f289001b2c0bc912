package questiongen

import (
	"fmt"
	"quiz-forge/internal/domain"
	"strings"
)

const (
	entityTrueExplanation  = "This statement is directly from the text."
	keywordTrueExplanation = "This statement is from the original text."
)

// TrueFalse states sentences verbatim as true and, when another entity of the
// same label exists, pairs them with a false variant naming that entity.
type TrueFalse struct{}

func (TrueFalse) Type() domain.QuestionType { return domain.TypeTrueFalse }

func (TrueFalse) Synthesize(c *Corpus, n int, used SentenceSet) []domain.Question {
	sentences := c.Sentences()
	entities := c.Entities()

	var out []domain.Question
	for _, e := range entities {
		if len(out) >= n {
			break
		}
		i := firstUnused(sentences, used, func(s string) bool { return strings.Contains(s, e.Text) })
		if i < 0 {
			continue
		}
		s := sentences[i]
		out = append(out, domain.Question{
			Text:        s,
			Answer:      "True",
			Type:        domain.TypeTrueFalse,
			Explanation: entityTrueExplanation,
			Context:     s,
		})
		used.Mark(i)

		if len(out) >= n {
			break
		}
		if other, ok := substitute(e, entities); ok {
			out = append(out, domain.Question{
				Text:        strings.Replace(s, e.Text, other, 1),
				Answer:      "False",
				Type:        domain.TypeTrueFalse,
				Explanation: fmt.Sprintf("The text actually mentions '%s', not '%s'.", e.Text, other),
				Context:     s,
			})
		}
	}

	for _, kw := range c.Keywords() {
		if len(out) >= n {
			break
		}
		re := wholeWord(kw.Term)
		i := firstUnused(sentences, used, re.MatchString)
		if i < 0 {
			continue
		}
		out = append(out, domain.Question{
			Text:        sentences[i],
			Answer:      "True",
			Type:        domain.TypeTrueFalse,
			Explanation: keywordTrueExplanation,
			Context:     sentences[i],
		})
		used.Mark(i)
	}

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// substitute finds the first entity sharing e's label but not its text.
func substitute(e domain.Entity, entities []domain.Entity) (string, bool) {
	for _, other := range entities {
		if other.Label == e.Label && other.Text != e.Text {
			return other.Text, true
		}
	}
	return "", false
}
