package extractor

import (
	"math"
	"math/rand/v2"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultTopicTerms is the number of terms reported per topic.
	DefaultTopicTerms = 5
	// DefaultLDAMaxIter is the number of EM passes over the corpus.
	DefaultLDAMaxIter = 10
	// DefaultSeed makes topic fitting reproducible across runs.
	DefaultSeed = 42

	gammaShape       = 100.0
	maxDocUpdateIter = 100
	meanChangeTol    = 1e-3
	epsilon          = 2.220446049250313e-16
)

// TopicOptions configures the topic modeler.
type TopicOptions struct {
	MaxFeatures int
	MaxIter     int
	TopTerms    int
	Seed        int64
}

// TopicModeler fits latent Dirichlet allocation over sentence TF-IDF vectors
// with batch variational Bayes.
type TopicModeler struct {
	opts TopicOptions
}

func NewTopicModeler(opts TopicOptions) *TopicModeler {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultLDAMaxIter
	}
	if opts.TopTerms <= 0 {
		opts.TopTerms = DefaultTopicTerms
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	return &TopicModeler{opts: opts}
}

// Topics returns min(requested, len(sentences)) topics, each listing its top
// terms by weight. Fewer than two sentences yield no topics.
func (m *TopicModeler) Topics(sentences []string, requested int) []domain.Topic {
	if len(sentences) < 2 || requested <= 0 {
		logger.Get().Debug("Skipping topic modeling", zap.Int("sentences", len(sentences)))
		return nil
	}

	tm := buildTermMatrix(sentences, m.opts.MaxFeatures)
	if len(tm.vocab) == 0 {
		return nil
	}

	k := requested
	if len(sentences) < k {
		k = len(sentences)
	}

	lambda := m.fit(tm, k)

	topics := make([]domain.Topic, 0, k)
	for _, weights := range lambda {
		top := topIndices(weights, m.opts.TopTerms)
		terms := make([]string, 0, len(top))
		for _, j := range top {
			terms = append(terms, tm.vocab[j])
		}
		topics = append(topics, domain.Topic{Terms: terms})
	}
	return topics
}

// fit returns the K x V variational topic-word parameters.
func (m *TopicModeler) fit(tm *termMatrix, k int) [][]float64 {
	// Gamma(100, 1/100) initialisation: mean 1, small variance.
	draw := distuv.Gamma{
		Alpha: gammaShape,
		Beta:  gammaShape,
		Src:   rand.NewPCG(uint64(m.opts.Seed), uint64(m.opts.Seed)),
	}
	v := len(tm.vocab)
	prior := 1 / float64(k)

	lambda := make([][]float64, k)
	for t := range lambda {
		lambda[t] = make([]float64, v)
		for j := range lambda[t] {
			lambda[t][j] = draw.Rand()
		}
	}

	for iter := 0; iter < m.opts.MaxIter; iter++ {
		expElogBeta := make([][]float64, k)
		for t := range lambda {
			expElogBeta[t] = expDirichletExpectation(lambda[t])
		}

		sstats := make([][]float64, k)
		for t := range sstats {
			sstats[t] = make([]float64, v)
		}

		for _, row := range tm.rows {
			m.eStep(draw, row, expElogBeta, prior, sstats)
		}

		for t := range lambda {
			for j := range lambda[t] {
				lambda[t][j] = prior + sstats[t][j]*expElogBeta[t][j]
			}
		}
	}
	return lambda
}

// eStep fits one document's topic proportions and accumulates its sufficient statistics.
func (m *TopicModeler) eStep(draw distuv.Gamma, row []float64, expElogBeta [][]float64, prior float64, sstats [][]float64) {
	var ids []int
	var cnts []float64
	for j, c := range row {
		if c != 0 {
			ids = append(ids, j)
			cnts = append(cnts, c)
		}
	}
	if len(ids) == 0 {
		return
	}

	k := len(expElogBeta)
	gamma := make([]float64, k)
	for t := range gamma {
		gamma[t] = draw.Rand()
	}
	expElogTheta := expDirichletExpectation(gamma)

	phiNorm := make([]float64, len(ids))
	normalise := func() {
		for i, id := range ids {
			var s float64
			for t := 0; t < k; t++ {
				s += expElogTheta[t] * expElogBeta[t][id]
			}
			phiNorm[i] = s + epsilon
		}
	}
	normalise()

	last := make([]float64, k)
	for it := 0; it < maxDocUpdateIter; it++ {
		copy(last, gamma)
		for t := 0; t < k; t++ {
			var s float64
			for i, id := range ids {
				s += cnts[i] / phiNorm[i] * expElogBeta[t][id]
			}
			gamma[t] = prior + expElogTheta[t]*s
		}
		expElogTheta = expDirichletExpectation(gamma)
		normalise()

		if meanAbsDiff(last, gamma) < meanChangeTol {
			break
		}
	}

	for t := 0; t < k; t++ {
		for i, id := range ids {
			sstats[t][id] += expElogTheta[t] * cnts[i] / phiNorm[i]
		}
	}
}

// expDirichletExpectation returns exp(E[log x]) for x ~ Dirichlet(alpha).
func expDirichletExpectation(alpha []float64) []float64 {
	total := mathext.Digamma(floats.Sum(alpha))
	out := make([]float64, len(alpha))
	for i, a := range alpha {
		out[i] = math.Exp(mathext.Digamma(a) - total)
	}
	return out
}

func meanAbsDiff(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += math.Abs(a[i] - b[i])
	}
	return s / float64(len(a))
}
