// Package questiongen turns extracted text features into quiz questions.
package questiongen

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/extractor"
	"quiz-forge/internal/textproc"
)

// EmbeddingTrainer fits a similarity model on a set of sentences. A nil
// model means there was not enough text.
type EmbeddingTrainer interface {
	Model(sentences []string) domain.SimilarityModel
}

// Extractors bundles the feature extractors a Corpus draws on. Nil members
// yield empty features.
type Extractors struct {
	Keywords  *extractor.KeywordScorer
	Topics    *extractor.TopicModeler
	Entities  domain.EntityRecognizer
	Embedding EmbeddingTrainer
}

// Options sets how many ranked features a Corpus requests.
type Options struct {
	KeywordPool int
	TopicPool   int
}

func (o Options) withDefaults() Options {
	if o.KeywordPool <= 0 {
		o.KeywordPool = 20
	}
	if o.TopicPool <= 0 {
		o.TopicPool = 5
	}
	return o
}

// Features is a fully precomputed feature set.
type Features struct {
	Sentences  []string
	Keywords   []domain.Keyword
	Entities   []domain.Entity
	Topics     []domain.Topic
	Similarity domain.SimilarityModel
}

// Corpus holds one source text and computes each feature on first use.
// It lives for a single generation call and is not safe for concurrent use.
type Corpus struct {
	text string
	ex   *Extractors
	opts Options

	sentences []string
	keywords  []domain.Keyword
	entities  []domain.Entity
	topics    []domain.Topic
	model     domain.SimilarityModel

	haveSentences, haveKeywords, haveEntities, haveTopics, haveModel bool
}

func NewCorpus(text string, ex *Extractors, opts Options) *Corpus {
	if ex == nil {
		ex = &Extractors{}
	}
	return &Corpus{text: text, ex: ex, opts: opts.withDefaults()}
}

// NewFeatureCorpus wraps features that were computed elsewhere.
func NewFeatureCorpus(f Features) *Corpus {
	return &Corpus{
		ex:            &Extractors{},
		sentences:     f.Sentences,
		keywords:      f.Keywords,
		entities:      f.Entities,
		topics:        f.Topics,
		model:         f.Similarity,
		haveSentences: true, haveKeywords: true, haveEntities: true, haveTopics: true, haveModel: true,
	}
}

func (c *Corpus) Text() string {
	return c.text
}

func (c *Corpus) Sentences() []string {
	if !c.haveSentences {
		c.sentences = textproc.Segment(c.text)
		c.haveSentences = true
	}
	return c.sentences
}

func (c *Corpus) Keywords() []domain.Keyword {
	if !c.haveKeywords {
		if c.ex.Keywords != nil {
			c.keywords = c.ex.Keywords.TopKeywords(c.Sentences(), c.opts.KeywordPool)
		}
		c.haveKeywords = true
	}
	return c.keywords
}

func (c *Corpus) Entities() []domain.Entity {
	if !c.haveEntities {
		if c.ex.Entities != nil {
			c.entities = c.ex.Entities.Recognize(c.text)
		}
		c.haveEntities = true
	}
	return c.entities
}

func (c *Corpus) Topics() []domain.Topic {
	if !c.haveTopics {
		if c.ex.Topics != nil {
			c.topics = c.ex.Topics.Topics(c.Sentences(), c.opts.TopicPool)
		}
		c.haveTopics = true
	}
	return c.topics
}

// Similarity returns the embedding model, or nil when none could be trained.
func (c *Corpus) Similarity() domain.SimilarityModel {
	if !c.haveModel {
		if c.ex.Embedding != nil {
			c.model = c.ex.Embedding.Model(c.Sentences())
		}
		c.haveModel = true
	}
	return c.model
}

// SentenceSet records sentence indices already turned into questions.
// Each synthesis call gets its own set.
type SentenceSet map[int]struct{}

func NewSentenceSet() SentenceSet {
	return make(SentenceSet)
}

func (s SentenceSet) Used(i int) bool {
	_, ok := s[i]
	return ok
}

func (s SentenceSet) Mark(i int) {
	s[i] = struct{}{}
}

// firstUnused returns the index of the first sentence not in used that
// satisfies match, or -1.
func firstUnused(sentences []string, used SentenceSet, match func(string) bool) int {
	for i, s := range sentences {
		if used.Used(i) {
			continue
		}
		if match(s) {
			return i
		}
	}
	return -1
}
