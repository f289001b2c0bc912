package questiongen

import (
	"math/rand"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"

	"go.uber.org/zap"
)

// Synthesizer produces up to n questions of one type. Sentences recorded in
// used are skipped and every sentence consumed is added to it.
type Synthesizer interface {
	Type() domain.QuestionType
	Synthesize(c *Corpus, n int, used SentenceSet) []domain.Question
}

// Generator dispatches synthesis requests to the synthesizer of each type.
// It shares one random source between synthesizers and is not safe for
// concurrent use.
type Generator struct {
	ex           *Extractors
	opts         Options
	synthesizers map[domain.QuestionType]Synthesizer
}

func NewGenerator(ex *Extractors, opts Options, rng *rand.Rand) *Generator {
	g := &Generator{
		ex:           ex,
		opts:         opts.withDefaults(),
		synthesizers: make(map[domain.QuestionType]Synthesizer),
	}
	for _, s := range []Synthesizer{
		&FillBlank{},
		NewMultipleChoice(rng),
		&TrueFalse{},
		NewShortAnswer(rng),
		&TopicQuestions{},
	} {
		g.synthesizers[s.Type()] = s
	}
	return g
}

// NewCorpus prepares a fresh feature cache for text.
func (g *Generator) NewCorpus(text string) *Corpus {
	return NewCorpus(text, g.ex, g.opts)
}

// Extractors returns the extractors corpora of this generator draw on.
func (g *Generator) Extractors() *Extractors {
	return g.ex
}

// Supports reports whether a synthesizer is registered for t.
func (g *Generator) Supports(t domain.QuestionType) bool {
	_, ok := g.synthesizers[t]
	return ok
}

// Synthesize returns at most n questions of type t from c. Questions that
// break the structural invariants are dropped.
func (g *Generator) Synthesize(c *Corpus, t domain.QuestionType, n int) ([]domain.Question, error) {
	s, ok := g.synthesizers[t]
	if !ok {
		return nil, domain.NewUnsupportedTypeError(t)
	}
	if n <= 0 {
		return nil, nil
	}

	raw := s.Synthesize(c, n, NewSentenceSet())
	questions := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		if err := q.Validate(); err != nil {
			logger.Get().Warn("Dropping malformed question",
				zap.String("type", string(t)),
				zap.Error(err),
			)
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) > n {
		questions = questions[:n]
	}

	logger.Get().Debug("Synthesized questions",
		zap.String("type", string(t)),
		zap.Int("requested", n),
		zap.Int("produced", len(questions)),
	)
	return questions, nil
}
