package questiongen

import (
	"fmt"
	"math/rand"
	"quiz-forge/internal/domain"
	"strings"
)

const distractorCount = domain.MCQOptionCount - 1

// MultipleChoice asks for an entity mentioned in a sentence. Distractors come
// from the embedding model, then from other entities of the same label, then
// from numbered placeholders.
type MultipleChoice struct {
	rng *rand.Rand
}

func NewMultipleChoice(rng *rand.Rand) *MultipleChoice {
	return &MultipleChoice{rng: rng}
}

func (m *MultipleChoice) Type() domain.QuestionType { return domain.TypeMCQ }

func (m *MultipleChoice) Synthesize(c *Corpus, n int, used SentenceSet) []domain.Question {
	entities := c.Entities()
	if len(entities) == 0 {
		return nil
	}
	sentences := c.Sentences()
	model := c.Similarity()

	seen := make(map[string]struct{})
	var out []domain.Question
	for _, e := range entities {
		if len(out) >= n {
			break
		}
		if _, ok := seen[e.Text]; ok {
			continue
		}
		i := firstUnused(sentences, used, func(s string) bool { return strings.Contains(s, e.Text) })
		if i < 0 {
			continue
		}

		options := append([]string{e.Text}, distractors(e, entities, model)...)
		m.rng.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		out = append(out, domain.Question{
			Text:    fmt.Sprintf("In the context: '%s'\nWhat is the %s mentioned?", sentences[i], e.Label.Category()),
			Answer:  e.Text,
			Type:    domain.TypeMCQ,
			Options: options,
			Context: sentences[i],
		})
		used.Mark(i)
		seen[e.Text] = struct{}{}
	}
	return out
}

// distractors returns exactly three distinct options that differ from the answer.
func distractors(answer domain.Entity, entities []domain.Entity, model domain.SimilarityModel) []string {
	picked := make([]string, 0, distractorCount)
	add := func(opt string) {
		if len(picked) >= distractorCount || opt == "" || opt == answer.Text {
			return
		}
		for _, p := range picked {
			if p == opt {
				return
			}
		}
		picked = append(picked, opt)
	}

	if model != nil {
		for _, w := range model.MostSimilar(answer.Text, distractorCount) {
			add(w)
		}
	}
	for _, other := range entities {
		if other.Label == answer.Label {
			add(other.Text)
		}
	}
	for i := 1; len(picked) < distractorCount; i++ {
		add(fmt.Sprintf("Option %d", i))
	}
	return picked
}
