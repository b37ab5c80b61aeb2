package model

import (
	"fmt"
	"runtime"
)

// AnalysisKind selects which parser/aggregator family a run uses.
type AnalysisKind string

const (
	KindLog          AnalysisKind = "log"
	KindInteractions AnalysisKind = "interactions"
	KindSensor       AnalysisKind = "sensor"
)

// Valid reports whether the kind is one the pipeline knows how to run.
func (k AnalysisKind) Valid() bool {
	switch k {
	case KindLog, KindInteractions, KindSensor:
		return true
	}
	return false
}

// Output defines where and how the final report is persisted.
type Output struct {
	File    string `json:"file"`    // .json or .txt; empty = default path under the output dir
	Archive bool   `json:"archive"` // keep a copy in the report archive
}

// Concurrency defines batching and worker options for a run.
type Concurrency struct {
	ChunkSize  int    `json:"chunkSize"`  // lines per chunk
	Workers    int    `json:"workers"`    // parallel aggregation workers
	JobTimeout string `json:"jobTimeout"` // e.g. "5m"
}

// AnalysisJobSpec is the full configuration for one analysis run.
// It is what POST /api/v1/analyses accepts and what the CLI assembles
// from flags.
type AnalysisJobSpec struct {
	Input       string       `json:"input"`
	Kind        AnalysisKind `json:"kind"`
	Output      *Output      `json:"output,omitempty"`
	Concurrency Concurrency  `json:"concurrency"`
}

const DefaultChunkSize = 50_000

// ApplyDefaults fills unset options: chunk size 50k lines, one worker
// per CPU, log analysis by default.
func (s *AnalysisJobSpec) ApplyDefaults() {
	if s.Kind == "" {
		s.Kind = KindLog
	}
	if s.Concurrency.ChunkSize <= 0 {
		s.Concurrency.ChunkSize = DefaultChunkSize
	}
	if s.Concurrency.Workers <= 0 {
		s.Concurrency.Workers = runtime.NumCPU()
	}
}

// Validate checks the spec after defaults are applied.
func (s *AnalysisJobSpec) Validate() error {
	if s.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("unknown analysis kind: %q", s.Kind)
	}
	if s.Concurrency.ChunkSize <= 0 {
		return fmt.Errorf("chunkSize must be positive")
	}
	if s.Concurrency.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
