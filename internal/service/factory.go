package service

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"quiz-forge/internal/adapter/embedding"
	"quiz-forge/internal/config"
	"quiz-forge/internal/export"
	"quiz-forge/internal/extractor"
	"quiz-forge/internal/questiongen"
	"sync/atomic"
)

// AggregatorFactory builds independent aggregators that share the stateless
// extractors. Each aggregator gets its own generator and random source.
type AggregatorFactory struct {
	extractors *questiongen.Extractors
	options    questiongen.Options
	analysis   AnalysisOptions
	exporter   *export.Exporter
	seed       int64
	built      atomic.Int64
}

// NewAggregatorFactory wires the extraction pipeline from cfg.
func NewAggregatorFactory(cfg *config.Config, exporter *export.Exporter) (*AggregatorFactory, error) {
	gazetteer := extractor.DefaultGazetteer()
	if path := cfg.Generation.GazetteerPath; path != "" {
		var err error
		gazetteer, err = extractor.LoadGazetteerFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load gazetteer: %w", err)
		}
	}

	gen := cfg.Generation
	emb := cfg.Embedding
	return &AggregatorFactory{
		extractors: &questiongen.Extractors{
			Keywords: extractor.NewKeywordScorer(gen.MaxFeatures),
			Topics: extractor.NewTopicModeler(extractor.TopicOptions{
				MaxFeatures: gen.MaxFeatures,
				MaxIter:     gen.LDAMaxIter,
				TopTerms:    gen.TopicTerms,
				Seed:        gen.Seed,
			}),
			Entities: extractor.NewEntityDetector(gazetteer),
			Embedding: embedding.NewTrainer(embedding.TrainerOptions{
				VectorSize:   emb.VectorSize,
				Window:       emb.Window,
				Epochs:       emb.Epochs,
				Negative:     emb.Negative,
				LearningRate: emb.LearningRate,
				Seed:         emb.Seed,
			}),
		},
		options: questiongen.Options{
			KeywordPool: gen.KeywordPool,
			TopicPool:   gen.TopicPool,
		},
		analysis: AnalysisOptions{
			Keywords: gen.AnalysisKeywords,
			Entities: gen.AnalysisEntities,
			Topics:   gen.AnalysisTopics,
		},
		exporter: exporter,
		seed:     gen.Seed,
	}, nil
}

// New returns an aggregator in the empty state.
func (f *AggregatorFactory) New() *QuizAggregator {
	return f.NewWithExporter(f.exporter)
}

// NewWithExporter returns an aggregator that writes artifacts with e.
func (f *AggregatorFactory) NewWithExporter(e *export.Exporter) *QuizAggregator {
	seed := f.seed + f.built.Add(1)
	generator := questiongen.NewGenerator(f.extractors, f.options, rand.New(rand.NewSource(seed)))
	return NewQuizAggregator(generator, e, rand.New(rand.NewSource(seed^0x5eed)), f.analysis)
}

// ForSession returns an empty aggregator whose artifacts go to the session's
// own directory below the default export dir.
func (f *AggregatorFactory) ForSession(id string) *QuizAggregator {
	return f.NewWithExporter(f.SessionExporter(id))
}

// SessionExporter returns the exporter used by the aggregator of session id.
func (f *AggregatorFactory) SessionExporter(id string) *export.Exporter {
	return f.exporter.WithDir(filepath.Join(f.exporter.Dir(), id))
}

// Exporter returns the default exporter.
func (f *AggregatorFactory) Exporter() *export.Exporter {
	return f.exporter
}
