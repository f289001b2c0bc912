// Command quizgen generates quizzes for a batch of plain-text documents.
//
//	quizgen -n 10 -t fill_blank,mcq -f csv -o ./exports notes/*.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/service"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	configPath  string
	count       int
	types       []string
	format      string
	outDir      string
	shuffle     bool
	analyze     bool
	concurrency int
}

func parseFlags(args []string) (*options, []string, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("quizgen", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")
	fs.IntVarP(&opts.count, "num-questions", "n", 10, "questions per document")
	fs.StringSliceVarP(&opts.types, "types", "t", []string{"fill_blank", "mcq", "t/f", "short_answer"}, "question types in quota order")
	fs.StringVarP(&opts.format, "format", "f", "", "export format: csv, txt, pdf or md (default from config)")
	fs.StringVarP(&opts.outDir, "out", "o", "", "output directory (default from config)")
	fs.BoolVar(&opts.shuffle, "shuffle", false, "shuffle each quiz before export")
	fs.BoolVar(&opts.analyze, "analyze", false, "append the text analysis to native exports")
	fs.IntVarP(&opts.concurrency, "concurrency", "c", 0, "documents processed in parallel (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quizgen [flags] FILE|DIR...\n\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, nil, fmt.Errorf("no input files")
	}
	return opts, fs.Args(), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfigFrom(path)
	}
	return config.LoadConfig()
}

func parseTypes(raw []string) ([]domain.QuestionType, error) {
	types := make([]domain.QuestionType, 0, len(raw))
	for _, r := range raw {
		t, ok := domain.ParseQuestionType(r)
		if !ok {
			return nil, domain.NewUnsupportedTypeError(domain.QuestionType(r))
		}
		types = append(types, t)
	}
	return types, nil
}

func run(ctx context.Context, args []string) error {
	opts, paths, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return err
	}
	defer logger.Sync()
	appLogger := logger.Get()

	types, err := parseTypes(opts.types)
	if err != nil {
		return err
	}
	format := opts.format
	if format == "" {
		format = cfg.Batch.Format
	}
	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.Export.Dir
	}
	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = cfg.Batch.Concurrency
	}

	osFs := afero.NewOsFs()
	docs, err := service.ReadDocuments(osFs, paths)
	if err != nil {
		return err
	}

	factory, err := service.NewAggregatorFactory(cfg, export.NewExporter(osFs, outDir))
	if err != nil {
		return err
	}
	batch := service.NewBatchService(factory, appLogger)

	results, err := batch.Run(ctx, docs, service.BatchOptions{
		NumQuestions: opts.count,
		Types:        types,
		Format:       export.ParseFormat(format),
		Shuffle:      opts.shuffle,
		Analyze:      opts.analyze,
		Concurrency:  concurrency,
	})
	printSummary(results)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Path == "" {
			appLogger.Warn("Document produced no quiz", zap.String("document", r.Name), zap.String("reason", r.Message))
		}
	}
	return nil
}

func printSummary(results []service.BatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOCUMENT\tQUESTIONS\tOUTPUT")
	for _, r := range results {
		out := r.Path
		if out == "" {
			out = strings.ReplaceAll(r.Message, "\n", " ")
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Name, r.Questions, out)
	}
	_ = w.Flush()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "quizgen: %v\n", err)
		os.Exit(1)
	}
}
