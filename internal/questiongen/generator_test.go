package questiongen

import (
	"errors"
	"math/rand"
	"quiz-forge/internal/adapter/embedding"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/extractor"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonText = "Guido created Python in 1991. Python is used for data science."

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(&Extractors{
		Keywords:  extractor.NewKeywordScorer(extractor.DefaultMaxFeatures),
		Topics:    extractor.NewTopicModeler(extractor.TopicOptions{}),
		Entities:  extractor.NewDefaultEntityDetector(),
		Embedding: embedding.NewTrainer(embedding.TrainerOptions{}),
	}, Options{}, rand.New(rand.NewSource(seed)))
}

func TestGenerator_FillBlankFromText(t *testing.T) {
	g := newTestGenerator(1)

	questions, err := g.Synthesize(g.NewCorpus(pythonText), domain.TypeFillBlank, 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Guido created _____ in 1991.", questions[0].Text)
	assert.Equal(t, "python", questions[0].Answer)
	assert.Equal(t, "Python is used for _____ science.", questions[1].Text)
	assert.Equal(t, "data", questions[1].Answer)
}

func TestGenerator_AllTypesRespectLimits(t *testing.T) {
	g := newTestGenerator(2)
	text := pythonText + " Guido van Rossum worked at Google in California. Google later hired him again in 2005."

	for _, qt := range domain.QuestionTypes() {
		t.Run(string(qt), func(t *testing.T) {
			questions, err := g.Synthesize(g.NewCorpus(text), qt, 3)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(questions), 3)
			for _, q := range questions {
				assert.Equal(t, qt, q.Type)
				assert.NoError(t, q.Validate())
			}
		})
	}
}

func TestGenerator_MultipleChoiceFromText(t *testing.T) {
	g := newTestGenerator(3)

	questions, err := g.Synthesize(g.NewCorpus(pythonText), domain.TypeMCQ, 5)
	require.NoError(t, err)
	require.NotEmpty(t, questions)
	for _, q := range questions {
		assert.Len(t, q.Options, domain.MCQOptionCount)
		assert.Contains(t, q.Options, q.Answer)
	}
}

func TestGenerator_UnsupportedType(t *testing.T) {
	g := newTestGenerator(1)

	_, err := g.Synthesize(g.NewCorpus(pythonText), domain.QuestionType("essay"), 1)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeUnsupportedType, domainErr.Code)
	assert.False(t, g.Supports("essay"))
	assert.True(t, g.Supports(domain.TypeTopic))
}

func TestGenerator_ZeroCount(t *testing.T) {
	g := newTestGenerator(1)
	questions, err := g.Synthesize(g.NewCorpus(pythonText), domain.TypeFillBlank, 0)
	assert.NoError(t, err)
	assert.Empty(t, questions)
}

func TestCorpus_WithoutExtractors(t *testing.T) {
	c := NewCorpus(pythonText, nil, Options{})
	assert.Len(t, c.Sentences(), 2)
	assert.Empty(t, c.Keywords())
	assert.Empty(t, c.Entities())
	assert.Empty(t, c.Topics())
	assert.Nil(t, c.Similarity())
	assert.Equal(t, pythonText, c.Text())
}

func TestCorpus_SingleSentenceDegrades(t *testing.T) {
	g := newTestGenerator(1)
	c := g.NewCorpus("Python is great.")

	assert.Empty(t, c.Keywords())
	assert.Empty(t, c.Topics())
	assert.Nil(t, c.Similarity())
	assert.NotEmpty(t, c.Entities())
}
