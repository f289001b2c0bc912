package service

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchDocument is one source text of a batch run.
type BatchDocument struct {
	Name string
	Text string
}

// BatchOptions applies to every document of a run.
type BatchOptions struct {
	NumQuestions int
	Types        []domain.QuestionType
	Format       export.Format
	Shuffle      bool
	Analyze      bool
	Concurrency  int
}

// BatchResult reports the outcome for one document, in input order.
type BatchResult struct {
	Name      string
	Questions int
	Path      string
	Message   string
	Err       error
}

// BatchService runs the generate, shuffle, analyze and export sequence over
// many documents, each in its own aggregator.
type BatchService interface {
	Run(ctx context.Context, docs []BatchDocument, opts BatchOptions) ([]BatchResult, error)
}

type batchService struct {
	factory *AggregatorFactory
	logger  *zap.Logger
}

// NewBatchService creates a batch runner over factory. Artifacts go to
// <exporter dir>/<document stem>/.
func NewBatchService(factory *AggregatorFactory, logger *zap.Logger) BatchService {
	return &batchService{factory: factory, logger: logger}
}

// Run processes docs with at most opts.Concurrency in flight. Per-document
// failures are reported in the results; only cancellation aborts the run.
func (s *batchService) Run(ctx context.Context, docs []BatchDocument, opts BatchOptions) ([]BatchResult, error) {
	start := time.Now()
	s.logger.Info("Starting batch quiz generation",
		zap.Int("documents", len(docs)),
		zap.Int("num_questions", opts.NumQuestions),
		zap.String("format", string(opts.Format)),
	)

	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	stems := uniqueStems(docs)
	results := make([]BatchResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.process(doc, stems[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("Batch run cancelled", zap.Error(err))
		return results, fmt.Errorf("batch run cancelled: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil || r.Path == "" {
			failed++
		}
	}
	s.logger.Info("Finished batch quiz generation",
		zap.Int("documents", len(docs)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func (s *batchService) process(doc BatchDocument, stem string, opts BatchOptions) BatchResult {
	base := s.factory.Exporter()
	aggregator := s.factory.NewWithExporter(base.WithDir(filepath.Join(base.Dir(), stem)))
	result := BatchResult{Name: doc.Name}

	rendering := aggregator.Generate(doc.Text, opts.NumQuestions, opts.Types)
	result.Questions = len(aggregator.Questions())
	if !rendering.Actionable {
		result.Message = strings.TrimSpace(rendering.Text)
		s.logger.Warn("No questions generated for document", zap.String("document", doc.Name))
		return result
	}
	if opts.Shuffle {
		aggregator.Shuffle()
	}
	if opts.Analyze {
		aggregator.Analyze()
	}

	exported := aggregator.Export(opts.Format)
	result.Path = exported.Path
	result.Err = exported.Err
	if exported.Err != nil {
		result.Message = exported.Err.Error()
	}
	s.logger.Debug("Processed document",
		zap.String("document", doc.Name),
		zap.Int("questions", result.Questions),
		zap.String("path", result.Path),
	)
	return result
}

// uniqueStems derives one distinct output directory name per document,
// suffixing repeats with the first free -2, -3 and so on.
func uniqueStems(docs []BatchDocument) []string {
	taken := make(map[string]struct{}, len(docs))
	next := make(map[string]int, len(docs))
	stems := make([]string, len(docs))
	for i, doc := range docs {
		base := strings.TrimSuffix(filepath.Base(doc.Name), filepath.Ext(doc.Name))
		if base == "" || base == "." || base == string(filepath.Separator) {
			base = fmt.Sprintf("document-%d", i+1)
		}
		stem := base
		for {
			if _, ok := taken[stem]; !ok {
				break
			}
			if next[base] < 2 {
				next[base] = 2
			}
			stem = fmt.Sprintf("%s-%d", base, next[base])
			next[base]++
		}
		taken[stem] = struct{}{}
		stems[i] = stem
	}
	return stems
}

var documentExtensions = map[string]struct{}{".txt": {}, ".md": {}, ".text": {}}

// ReadDocuments loads plain-text sources. Directories are walked for .txt,
// .md and .text files in lexical order.
func ReadDocuments(fsys afero.Fs, paths []string) ([]BatchDocument, error) {
	var docs []BatchDocument
	add := func(path string) error {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, BatchDocument{Name: path, Text: string(data)})
		return nil
	}

	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}

		var found []string
		err = afero.Walk(fsys, p, func(path string, fi fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if _, ok := documentExtensions[strings.ToLower(filepath.Ext(path))]; ok {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			if err := add(f); err != nil {
				return nil, err
			}
		}
	}
	return docs, nil
}
