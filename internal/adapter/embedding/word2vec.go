package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/textproc"
	"quiz-forge/internal/util"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tmc/langchaingo/embeddings"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// ErrUnknownTerm is returned when a query term is outside the trained vocabulary.
var ErrUnknownTerm = errors.New("term not in vocabulary")

const (
	minTokenLength = 3
	maxExp         = 6.0
	minAlphaRatio  = 1e-4
	embedBatchSize = 64
)

// TrainerOptions configures skip-gram negative-sampling training.
type TrainerOptions struct {
	VectorSize   int
	Window       int
	Epochs       int
	Negative     int
	LearningRate float64
	Seed         int64
}

// Trainer fits a word2vec model on the sentences of one source text.
type Trainer struct {
	opts TrainerOptions
}

// NewTrainer creates a Trainer, filling unset options with the defaults
// (50 dimensions, window 5, 5 epochs, 5 negatives, seed 42).
func NewTrainer(opts TrainerOptions) *Trainer {
	if opts.VectorSize <= 0 {
		opts.VectorSize = 50
	}
	if opts.Window <= 0 {
		opts.Window = 5
	}
	if opts.Epochs <= 0 {
		opts.Epochs = 5
	}
	if opts.Negative <= 0 {
		opts.Negative = 5
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.025
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	return &Trainer{opts: opts}
}

// Word2Vec is a trained embedding model over a small vocabulary. Lookups go
// through a langchaingo embedder backed by the model itself.
type Word2Vec struct {
	vocab    []string
	index    map[string]int
	vectors  [][]float32
	embedder embeddings.Embedder
}

var (
	_ embeddings.EmbedderClient = (*Word2Vec)(nil)
	_ domain.SimilarityModel    = (*Word2Vec)(nil)
)

// Model trains on sentences and returns the model, or nil when there is not
// enough usable text.
func (t *Trainer) Model(sentences []string) domain.SimilarityModel {
	m := t.Train(sentences)
	if m == nil {
		return nil
	}
	return m
}

// Train returns nil when fewer than two sentences keep any token after filtering.
func (t *Trainer) Train(sentences []string) *Word2Vec {
	corpus := tokenize(sentences)
	if len(corpus) < 2 {
		logger.Get().Debug("Skipping embedding training", zap.Int("usable_sentences", len(corpus)))
		return nil
	}

	m := &Word2Vec{index: make(map[string]int)}
	var counts []float64
	ids := make([][]int, len(corpus))
	for s, tokens := range corpus {
		ids[s] = make([]int, len(tokens))
		for i, tok := range tokens {
			id, ok := m.index[tok]
			if !ok {
				id = len(m.vocab)
				m.index[tok] = id
				m.vocab = append(m.vocab, tok)
				counts = append(counts, 0)
			}
			counts[id]++
			ids[s][i] = id
		}
	}

	src := rand.NewPCG(uint64(t.opts.Seed), uint64(t.opts.Seed))
	rng := rand.New(src)
	dim := t.opts.VectorSize
	m.vectors = make([][]float32, len(m.vocab))
	outputs := make([][]float32, len(m.vocab))
	for i := range m.vectors {
		m.vectors[i] = make([]float32, dim)
		for d := range m.vectors[i] {
			m.vectors[i][d] = float32((rng.Float64() - 0.5) / float64(dim))
		}
		outputs[i] = make([]float32, dim)
	}

	noise := newNoiseSampler(counts, src)
	total := 0
	for _, sent := range ids {
		total += len(sent)
	}
	total *= t.opts.Epochs

	grad := make([]float32, dim)
	processed := 0
	for epoch := 0; epoch < t.opts.Epochs; epoch++ {
		for _, sent := range ids {
			for pos, center := range sent {
				alpha := t.opts.LearningRate * (1 - float64(processed)/float64(total+1))
				if floor := t.opts.LearningRate * minAlphaRatio; alpha < floor {
					alpha = floor
				}
				processed++

				reduced := t.opts.Window - rng.IntN(t.opts.Window)
				for c := pos - reduced; c <= pos+reduced; c++ {
					if c < 0 || c >= len(sent) || c == pos {
						continue
					}
					t.trainPair(noise, m.vectors[center], outputs, sent[c], float32(alpha), grad)
				}
			}
		}
	}

	embedder, err := embeddings.NewEmbedder(m, embeddings.WithBatchSize(embedBatchSize))
	if err != nil {
		logger.Get().Warn("Failed to create embedder for trained model", zap.Error(err))
		return nil
	}
	m.embedder = embedder

	logger.Get().Debug("Trained embedding model",
		zap.Int("vocabulary", len(m.vocab)),
		zap.Int("sentences", len(corpus)),
	)
	return m
}

// trainPair runs one negative-sampling update predicting target from input.
func (t *Trainer) trainPair(noise *noiseSampler, input []float32, outputs [][]float32, target int, alpha float32, grad []float32) {
	for i := range grad {
		grad[i] = 0
	}
	for n := 0; n <= t.opts.Negative; n++ {
		word, label := target, float32(1)
		if n > 0 {
			word = noise.sample()
			if word == target {
				continue
			}
			label = 0
		}

		out := outputs[word]
		g := (label - sigmoid(util.Dot(input, out))) * alpha
		for i := range input {
			grad[i] += g * out[i]
			out[i] += g * input[i]
		}
	}
	for i := range input {
		input[i] += grad[i]
	}
}

// CreateEmbedding returns the vector of each text, read as a single
// vocabulary term.
func (m *Word2Vec) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		id, ok := m.index[normalizeTerm(text)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTerm, text)
		}
		vec := make([]float32, len(m.vectors[id]))
		copy(vec, m.vectors[id])
		out = append(out, vec)
	}
	return out, nil
}

// Embedder returns the langchaingo embedder over this model.
func (m *Word2Vec) Embedder() embeddings.Embedder {
	return m.embedder
}

// MostSimilar returns up to n vocabulary terms ranked by cosine similarity to
// term, excluding term itself. Unknown terms yield nothing.
func (m *Word2Vec) MostSimilar(term string, n int) []string {
	if n <= 0 {
		return nil
	}
	ctx := context.Background()
	query, err := m.embedder.EmbedQuery(ctx, term)
	if err != nil {
		return nil
	}

	self := normalizeTerm(term)
	others := make([]string, 0, len(m.vocab))
	for _, w := range m.vocab {
		if w != self {
			others = append(others, w)
		}
	}
	vectors, err := m.embedder.EmbedDocuments(ctx, others)
	if err != nil {
		logger.Get().Warn("Failed to embed vocabulary", zap.Error(err))
		return nil
	}

	type scored struct {
		term string
		sim  float64
	}
	candidates := make([]scored, 0, len(others))
	for i, vec := range vectors {
		sim, err := util.CosineSimilarity(query, vec)
		if err != nil {
			continue
		}
		candidates = append(candidates, scored{term: others[i], sim: sim})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].sim > candidates[j].sim })

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.term)
	}
	return out
}

// Vocabulary returns the trained terms in first-seen order.
func (m *Word2Vec) Vocabulary() []string {
	out := make([]string, len(m.vocab))
	copy(out, m.vocab)
	return out
}

// tokenize keeps lowercase alphanumeric non-stopword tokens longer than two
// characters and drops sentences left empty.
func tokenize(sentences []string) [][]string {
	var corpus [][]string
	for _, s := range sentences {
		var tokens []string
		for _, w := range textproc.Words(s) {
			w = strings.ToLower(w)
			if utf8.RuneCountInString(w) < minTokenLength || !alphanumeric(w) || textproc.IsStopword(w) {
				continue
			}
			tokens = append(tokens, w)
		}
		if len(tokens) > 0 {
			corpus = append(corpus, tokens)
		}
	}
	return corpus
}

func alphanumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func sigmoid(x float32) float32 {
	switch {
	case x > maxExp:
		return 1
	case x < -maxExp:
		return 0
	}
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func normalizeTerm(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// noiseSampler draws vocabulary ids with replacement from the unigram
// distribution raised to 3/4.
type noiseSampler struct {
	weights  []float64
	weighted sampleuv.Weighted
}

func newNoiseSampler(counts []float64, src rand.Source) *noiseSampler {
	weights := make([]float64, len(counts))
	for i, c := range counts {
		weights[i] = math.Pow(c, 0.75)
	}
	return &noiseSampler{weights: weights, weighted: sampleuv.NewWeighted(weights, src)}
}

func (n *noiseSampler) sample() int {
	id, _ := n.weighted.Take()
	n.weighted.Reweight(id, n.weights[id])
	return id
}
