package extractor

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"

	"go.uber.org/zap"
)

// DefaultMaxFeatures caps the TF-IDF vocabulary.
const DefaultMaxFeatures = 100

// KeywordScorer ranks terms by their mean TF-IDF weight across sentences.
type KeywordScorer struct {
	maxFeatures int
}

func NewKeywordScorer(maxFeatures int) *KeywordScorer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &KeywordScorer{maxFeatures: maxFeatures}
}

// TopKeywords returns up to n keywords, most relevant first. Fewer than two
// sentences yield no keywords.
func (s *KeywordScorer) TopKeywords(sentences []string, n int) []domain.Keyword {
	if len(sentences) < 2 || n <= 0 {
		logger.Get().Debug("Skipping keyword extraction", zap.Int("sentences", len(sentences)))
		return nil
	}

	m := buildTermMatrix(sentences, s.maxFeatures)
	if len(m.vocab) == 0 {
		return nil
	}

	means := make([]float64, len(m.vocab))
	for _, row := range m.rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(m.rows))
	}

	top := topIndices(means, n)
	keywords := make([]domain.Keyword, 0, len(top))
	for _, j := range top {
		keywords = append(keywords, domain.Keyword{Term: m.vocab[j], Score: means[j]})
	}
	return keywords
}
