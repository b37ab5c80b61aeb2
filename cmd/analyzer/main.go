package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-log-analyzer/internal/model"
	"go-log-analyzer/internal/pipeline"
	"go-log-analyzer/internal/store"
	"go-log-analyzer/pkg/storage"
	"go-log-analyzer/pkg/utils"

	"github.com/google/uuid"
)

func main() {
	var (
		input       = flag.String("input", "", "path to the input file (required)")
		output      = flag.String("output", "", "report output path (.json or .txt; default output/<run>/report.json)")
		kind        = flag.String("kind", "log", "analysis kind: log, interactions or sensor")
		chunkSize   = flag.Int("chunk-size", 0, "lines per chunk (default 50000)")
		workers     = flag.Int("workers", 0, "worker count (default NumCPU)")
		timeout     = flag.String("timeout", "", "run timeout, e.g. 5m")
		dbPath      = flag.String("db", "", "sqlite database for run tracking (optional)")
		archivePath = flag.String("archive", "", "bbolt file to archive the report into (optional)")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: analyzer -input <file> [-kind log|interactions|sensor] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *dbPath != "" {
		if err := store.InitDB(*dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to open tracking database: %v\n", err)
			os.Exit(1)
		}
		defer store.CloseDB()
	}

	var archive storage.Backend
	if *archivePath != "" {
		b, err := storage.NewBoltBackend(*archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to open report archive: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()
		archive = b
	}

	spec := model.AnalysisJobSpec{
		Input: *input,
		Kind:  model.AnalysisKind(*kind),
		Concurrency: model.Concurrency{
			ChunkSize:  *chunkSize,
			Workers:    *workers,
			JobTimeout: *timeout,
		},
	}
	if *output != "" {
		spec.Output = &model.Output{File: *output, Archive: archive != nil}
	}

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid job spec: %v\n", err)
		os.Exit(2)
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ Failed to record run: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.Concurrency.JobTimeout))
	defer cancel()

	report, err := pipeline.Run(ctx, runID, spec, archive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(pipeline.FormatReport(report))
}
