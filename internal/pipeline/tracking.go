package pipeline

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"go-log-analyzer/internal/store"
)

// RunTracker records per-stage timing and line throughput for one run.
// Workers bump the atomic counters lock-free; stage transitions are
// persisted so the API can report progress while a run is underway.
type RunTracker struct {
	RunID     string
	StartTime time.Time

	linesRead atomic.Int64
	chunks    atomic.Int64

	mu     sync.Mutex
	stages map[string]*stageTiming
}

type stageTiming struct {
	start time.Time
	end   *time.Time
	lines int64
}

// NewRunTracker creates a tracker for the given run.
func NewRunTracker(runID string) *RunTracker {
	return &RunTracker{
		RunID:     runID,
		StartTime: time.Now(),
		stages:    make(map[string]*stageTiming),
	}
}

// AddLines adds to the running line count.
func (t *RunTracker) AddLines(n int64) { t.linesRead.Add(n) }

// AddChunk bumps the chunk count.
func (t *RunTracker) AddChunk() { t.chunks.Add(1) }

// Lines returns the lines seen so far.
func (t *RunTracker) Lines() int64 { return t.linesRead.Load() }

// Chunks returns the chunks formed so far.
func (t *RunTracker) Chunks() int64 { return t.chunks.Load() }

// StartStage marks a stage as running and persists the transition.
func (t *RunTracker) StartStage(stage string) {
	now := time.Now()

	t.mu.Lock()
	t.stages[stage] = &stageTiming{start: now}
	t.mu.Unlock()

	if err := store.SaveStageProgress(t.RunID, stage, "started", &now, nil, 0); err != nil {
		log.Printf("⚠️ failed to save stage progress for %s/%s: %v", t.RunID, stage, err)
	}
}

// EndStage marks a stage as completed with the lines it handled.
func (t *RunTracker) EndStage(stage string, lines int64) {
	now := time.Now()

	t.mu.Lock()
	timing, ok := t.stages[stage]
	if ok {
		timing.end = &now
		timing.lines = lines
	}
	t.mu.Unlock()
	if !ok {
		return
	}

	if err := store.SaveStageProgress(t.RunID, stage, "completed", &timing.start, &now, lines); err != nil {
		log.Printf("⚠️ failed to save stage progress for %s/%s: %v", t.RunID, stage, err)
	}
}

// Elapsed is the wall time since the run started.
func (t *RunTracker) Elapsed() time.Duration { return time.Since(t.StartTime) }

// Throughput is lines per second over the whole run so far.
func (t *RunTracker) Throughput() float64 {
	secs := t.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(t.linesRead.Load()) / secs
}
