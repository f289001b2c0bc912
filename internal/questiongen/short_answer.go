package questiongen

import (
	"fmt"
	"math/rand"
	"quiz-forge/internal/domain"
	"strings"
)

var keywordTemplates = []string{
	"Who is associated with %s?",
	"What is %s?",
	"How does %s work?",
	"Why is %s important?",
	"When did %s occur?",
	"Where is %s located?",
}

var entityTemplates = map[domain.EntityLabel]string{
	domain.LabelPerson:  "Who is %s and what is their significance?",
	domain.LabelOrg:     "What is %s?",
	domain.LabelGPE:     "Where is %s located and what is its importance?",
	domain.LabelDate:    "What happened in %s?",
	domain.LabelEvent:   "What is the %s event about?",
	domain.LabelProduct: "What is %s?",
}

// ShortAnswer asks open questions about keywords, then about entities.
type ShortAnswer struct {
	rng *rand.Rand
}

func NewShortAnswer(rng *rand.Rand) *ShortAnswer {
	return &ShortAnswer{rng: rng}
}

func (s *ShortAnswer) Type() domain.QuestionType { return domain.TypeShortAnswer }

func (s *ShortAnswer) Synthesize(c *Corpus, n int, used SentenceSet) []domain.Question {
	sentences := c.Sentences()

	var out []domain.Question
	for _, kw := range c.Keywords() {
		if len(out) >= n {
			break
		}
		i := firstUnused(sentences, used, wholeWord(kw.Term).MatchString)
		if i < 0 {
			continue
		}
		template := keywordTemplates[s.rng.Intn(len(keywordTemplates))]
		out = append(out, domain.Question{
			Text:    fmt.Sprintf(template, kw.Term),
			Answer:  answerWindow(sentences[i], kw.Term),
			Type:    domain.TypeShortAnswer,
			Context: sentences[i],
		})
		used.Mark(i)
	}

	for _, e := range c.Entities() {
		if len(out) >= n {
			break
		}
		i := firstUnused(sentences, used, func(sent string) bool { return strings.Contains(sent, e.Text) })
		if i < 0 {
			continue
		}
		template, ok := entityTemplates[e.Label]
		if !ok {
			template = "What is %s?"
		}
		out = append(out, domain.Question{
			Text:    fmt.Sprintf(template, e.Text),
			Answer:  sentences[i],
			Type:    domain.TypeShortAnswer,
			Context: sentences[i],
		})
		used.Mark(i)
	}

	if len(out) > n {
		out = out[:n]
	}
	return out
}
