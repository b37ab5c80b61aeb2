package pipeline

import "errors"

// Sentinel errors for run-fatal conditions
var (
	// ErrInputNotFound means the source file does not exist. Nothing is
	// written when this happens.
	ErrInputNotFound = errors.New("input file not found")

	// ErrWorkerFailure means an aggregation worker terminated abnormally.
	// The run is aborted: a partially merged aggregate must never be
	// reported as if it covered the whole input.
	ErrWorkerFailure = errors.New("aggregation worker failed")

	// ErrUnknownKind means the job spec named an analysis kind the
	// pipeline has no parser/aggregator for.
	ErrUnknownKind = errors.New("unknown analysis kind")
)
