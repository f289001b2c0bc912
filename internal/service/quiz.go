package service

import (
	"fmt"
	"math/rand"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/questiongen"
	"strings"

	"go.uber.org/zap"
)

// Messages returned in place of a rendering when an operation cannot run.
const (
	MsgNoText       = "Please provide text to generate questions from."
	MsgNoTypes      = "Please select at least one question type."
	MsgShuffleEmpty = "Please generate a quiz first before shuffling!"
	MsgNoQuiz       = "No quiz to download. Please generate a quiz first."
)

// Rendering is what an aggregator operation hands back for display.
// Actionable is false when there is no quiz to shuffle or export.
type Rendering struct {
	Text       string `json:"rendered"`
	Actionable bool   `json:"actionable"`
}

// ExportResult describes one export attempt. Path is empty when nothing was written.
type ExportResult struct {
	Rendering
	Format export.Format
	Path   string
	Err    error
}

// AnalysisOptions bounds the analysis section.
type AnalysisOptions struct {
	Keywords int
	Entities int
	Topics   int
}

func (o AnalysisOptions) withDefaults() AnalysisOptions {
	if o.Keywords <= 0 {
		o.Keywords = 10
	}
	if o.Entities <= 0 {
		o.Entities = 10
	}
	if o.Topics <= 0 {
		o.Topics = 3
	}
	return o
}

// QuizAggregator owns the quiz of one source text: it generates, reorders,
// analyzes and exports it. It is not safe for concurrent use.
type QuizAggregator struct {
	generator *questiongen.Generator
	exporter  *export.Exporter
	rng       *rand.Rand
	analysis  AnalysisOptions
	logger    *zap.Logger

	sourceText string
	questions  []domain.Question
	types      []domain.QuestionType
	rendered   string
}

// NewQuizAggregator creates an aggregator in the empty state. The random
// source drives shuffling and must not be shared with another goroutine.
func NewQuizAggregator(
	generator *questiongen.Generator,
	exporter *export.Exporter,
	rng *rand.Rand,
	analysis AnalysisOptions,
) *QuizAggregator {
	return &QuizAggregator{
		generator: generator,
		exporter:  exporter,
		rng:       rng,
		analysis:  analysis.withDefaults(),
		logger:    logger.Get(),
	}
}

// Quotas splits total across k types: every type gets total/k and the first
// total%k types get one more.
func Quotas(total, k int) []int {
	if k <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base, rem := total/k, total%k
	quotas := make([]int, k)
	for i := range quotas {
		quotas[i] = base
		if i < rem {
			quotas[i]++
		}
	}
	return quotas
}

// Generate replaces the quiz with up to total questions drawn from text,
// split across types in selection order. Invalid input leaves the state untouched.
func (a *QuizAggregator) Generate(text string, total int, types []domain.QuestionType) Rendering {
	if strings.TrimSpace(text) == "" {
		return Rendering{Text: MsgNoText}
	}
	if len(types) == 0 {
		return Rendering{Text: MsgNoTypes}
	}

	corpus := a.generator.NewCorpus(text)
	var questions []domain.Question
	for i, quota := range Quotas(total, len(types)) {
		if quota == 0 {
			continue
		}
		batch, err := a.generator.Synthesize(corpus, types[i], quota)
		if err != nil {
			a.logger.Warn("Skipping question type", zap.String("type", string(types[i])), zap.Error(err))
			continue
		}
		questions = append(questions, batch...)
	}

	a.sourceText = text
	a.questions = questions
	a.types = append([]domain.QuestionType(nil), types...)
	a.rendered = export.RenderMarkdown(questions)

	a.logger.Info("Generated quiz",
		zap.Int("requested", total),
		zap.Int("generated", len(questions)),
		zap.Int("types", len(types)),
	)
	return a.current()
}

// Shuffle permutes the quiz in place and re-renders it.
func (a *QuizAggregator) Shuffle() Rendering {
	if len(a.questions) == 0 {
		return Rendering{Text: MsgShuffleEmpty}
	}
	a.rng.Shuffle(len(a.questions), func(i, j int) {
		a.questions[i], a.questions[j] = a.questions[j], a.questions[i]
	})
	a.rendered = export.RenderMarkdown(a.questions)
	return a.current()
}

// Analyze appends a feature summary of the source text to the rendering.
// Each call appends again; the questions are never touched. The rendering is
// actionable only when there is a quiz to go with the summary.
func (a *QuizAggregator) Analyze() Rendering {
	corpus := questiongen.NewCorpus(a.sourceText, a.generator.Extractors(), questiongen.Options{
		KeywordPool: a.analysis.Keywords,
		TopicPool:   a.analysis.Topics,
	})

	var b strings.Builder
	b.WriteString("\n---\n## Analysis\n\n")

	keywords := corpus.Keywords()
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		terms = append(terms, kw.Term)
	}
	fmt.Fprintf(&b, "**Key Terms (TF-IDF):** %s\n\n", strings.Join(terms, ", "))

	if entities := corpus.Entities(); len(entities) > 0 {
		if len(entities) > a.analysis.Entities {
			entities = entities[:a.analysis.Entities]
		}
		labelled := make([]string, 0, len(entities))
		for _, e := range entities {
			labelled = append(labelled, fmt.Sprintf("%s (%s)", e.Text, e.Label))
		}
		fmt.Fprintf(&b, "**Named Entities (NER):** %s\n\n", strings.Join(labelled, ", "))
	}

	if topics := corpus.Topics(); len(topics) > 0 {
		b.WriteString("**Topics (LDA):**\n")
		for i, topic := range topics {
			fmt.Fprintf(&b, "   Topic %d: %s\n", i+1, strings.Join(topic.Terms, ", "))
		}
	}

	a.rendered += b.String()
	return Rendering{Text: a.rendered, Actionable: len(a.questions) > 0}
}

// Export writes the quiz in format f. Failures are reported in the rendering
// and leave the state untouched.
func (a *QuizAggregator) Export(f export.Format) ExportResult {
	if len(a.questions) == 0 {
		return ExportResult{Rendering: Rendering{Text: MsgNoQuiz}, Format: f}
	}

	path, err := a.exporter.Write(f, a.questions, a.rendered)
	if err != nil {
		a.logger.Error("Failed to export quiz", zap.String("format", string(f)), zap.Error(err))
		return ExportResult{
			Rendering: Rendering{
				Text:       fmt.Sprintf("Error downloading quiz: %v\n\n%s", err, a.rendered),
				Actionable: true,
			},
			Format: f,
			Err:    domain.NewExportFailedError(string(f), err),
		}
	}

	a.logger.Info("Exported quiz", zap.String("format", string(f)), zap.String("path", path))
	return ExportResult{
		Rendering: Rendering{
			Text:       fmt.Sprintf("%s\n\nQuiz downloaded as **%s**\n\n", a.rendered, f.FileName()),
			Actionable: true,
		},
		Format: f,
		Path:   path,
	}
}

// Questions returns a copy of the active questions in display order.
func (a *QuizAggregator) Questions() []domain.Question {
	return append([]domain.Question(nil), a.questions...)
}

// Rendered returns the cached rendering.
func (a *QuizAggregator) Rendered() string {
	return a.rendered
}

// SourceText returns the text the quiz was generated from.
func (a *QuizAggregator) SourceText() string {
	return a.sourceText
}

// SelectedTypes returns the type mix of the last generation.
func (a *QuizAggregator) SelectedTypes() []domain.QuestionType {
	return append([]domain.QuestionType(nil), a.types...)
}

// Exporter returns the exporter artifacts are written with.
func (a *QuizAggregator) Exporter() *export.Exporter {
	return a.exporter
}

func (a *QuizAggregator) current() Rendering {
	return Rendering{Text: a.rendered, Actionable: len(a.questions) > 0}
}
