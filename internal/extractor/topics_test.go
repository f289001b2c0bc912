package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var topicCorpus = []string{
	"Python is a programming language used for data science.",
	"Data science relies on statistics and programming.",
	"The river flows through the valley into the ocean.",
	"Fish swim in the river and the ocean.",
	"Programming languages like Python help scientists analyse data.",
}

func TestTopicModeler_Topics(t *testing.T) {
	modeler := NewTopicModeler(TopicOptions{})

	topics := modeler.Topics(topicCorpus, 3)
	require.Len(t, topics, 3)

	vocab := buildTermMatrix(topicCorpus, DefaultMaxFeatures).vocab
	known := make(map[string]bool, len(vocab))
	for _, term := range vocab {
		known[term] = true
	}
	for _, topic := range topics {
		assert.Len(t, topic.Terms, DefaultTopicTerms)
		for _, term := range topic.Terms {
			assert.True(t, known[term], "unexpected term %q", term)
		}
	}
}

func TestTopicModeler_Reproducible(t *testing.T) {
	modeler := NewTopicModeler(TopicOptions{Seed: 7})
	assert.Equal(t, modeler.Topics(topicCorpus, 2), modeler.Topics(topicCorpus, 2))
}

func TestTopicModeler_CapsTopicCount(t *testing.T) {
	modeler := NewTopicModeler(TopicOptions{TopTerms: 2})
	topics := modeler.Topics(topicCorpus[:2], 5)
	require.Len(t, topics, 2)
	for _, topic := range topics {
		assert.Len(t, topic.Terms, 2)
	}
}

func TestTopicModeler_Degenerate(t *testing.T) {
	modeler := NewTopicModeler(TopicOptions{})
	assert.Empty(t, modeler.Topics([]string{"Just one sentence."}, 3))
	assert.Empty(t, modeler.Topics(topicCorpus, 0))
}

func TestTopicModeler_FitWeightsPositive(t *testing.T) {
	modeler := NewTopicModeler(TopicOptions{})
	lambda := modeler.fit(buildTermMatrix(topicCorpus, DefaultMaxFeatures), 2)
	for _, row := range lambda {
		for _, w := range row {
			assert.Greater(t, w, 0.0)
		}
	}
}
