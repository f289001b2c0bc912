package questiongen

import (
	"math/rand"
	"quiz-forge/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortAnswer_Synthesize(t *testing.T) {
	corpus := NewFeatureCorpus(Features{
		Sentences: []string{
			"Modern photosynthesis research shows that chlorophyll absorbs light in plant leaves.",
			"Charles Darwin sailed on the Beagle.",
		},
		Keywords: []domain.Keyword{{Term: "chlorophyll"}},
		Entities: []domain.Entity{{Text: "Charles Darwin", Label: domain.LabelPerson}},
	})

	questions := NewShortAnswer(rand.New(rand.NewSource(5))).Synthesize(corpus, 5, NewSentenceSet())
	require.Len(t, questions, 2)

	kw := questions[0]
	assert.True(t, strings.Contains(kw.Text, "chlorophyll"))
	assert.Contains(t, keywordTemplatesFor("chlorophyll"), kw.Text)
	assert.Equal(t, "research shows that chlorophyll absorbs light in.", kw.Answer)
	assert.Equal(t, corpus.Sentences()[0], kw.Context)

	ent := questions[1]
	assert.Equal(t, "Who is Charles Darwin and what is their significance?", ent.Text)
	assert.Equal(t, "Charles Darwin sailed on the Beagle.", ent.Answer)
	assert.Equal(t, domain.TypeShortAnswer, ent.Type)
}

func TestShortAnswer_EntityTemplates(t *testing.T) {
	corpus := NewFeatureCorpus(Features{
		Sentences: []string{"Kenya is in Africa.", "It ended in 1945.", "The Expo drew crowds."},
		Entities: []domain.Entity{
			{Text: "Kenya", Label: domain.LabelGPE},
			{Text: "1945", Label: domain.LabelDate},
			{Text: "Expo", Label: domain.EntityLabel("MISC")},
		},
	})

	questions := NewShortAnswer(rand.New(rand.NewSource(1))).Synthesize(corpus, 3, NewSentenceSet())
	require.Len(t, questions, 3)
	assert.Equal(t, "Where is Kenya located and what is its importance?", questions[0].Text)
	assert.Equal(t, "What happened in 1945?", questions[1].Text)
	assert.Equal(t, "What is Expo?", questions[2].Text)
}

func TestAnswerWindow(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		keyword  string
		want     string
	}{
		{
			name:     "window in the middle",
			sentence: "one two three four target six seven eight nine ten",
			keyword:  "target",
			want:     "two three four target six seven eight.",
		},
		{
			name:     "short window falls back",
			sentence: "Target is short.",
			keyword:  "target",
			want:     "Target is short.",
		},
		{
			name:     "keyword only as substring",
			sentence: "The targeting system works well in many real situations.",
			keyword:  "target",
			want:     "The targeting system works well in many real situations.",
		},
		{
			name:     "trailing punctuation kept",
			sentence: "We now study how a cell divides.",
			keyword:  "cell",
			want:     "study how a cell divides.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, answerWindow(tt.sentence, tt.keyword))
		})
	}
}

func keywordTemplatesFor(term string) []string {
	out := make([]string, 0, len(keywordTemplates))
	for _, tpl := range keywordTemplates {
		out = append(out, strings.Replace(tpl, "%s", term, 1))
	}
	return out
}
