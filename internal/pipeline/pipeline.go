package pipeline

import (
	"context"
	"fmt"
	"time"

	"go-log-analyzer/internal/model"
	"go-log-analyzer/internal/store"
	"go-log-analyzer/pkg/storage"
	"go-log-analyzer/pkg/utils"
)

// ------------------- Analysis Runner -------------------

// Run executes one analysis end to end: stream lines, form chunks, fan the
// chunks out over the worker pool, reduce, build the report and persist it.
// archive may be nil when no report archive is configured. On any fatal
// error no report file is written and the run is marked failed.
func Run(ctx context.Context, runID string, spec model.AnalysisJobSpec, archive storage.Backend) (report *model.Report, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting %s analysis for run: %s\n", spec.Kind, runID)

	store.UpdateRunStatus(runID, "running")

	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	spec.ApplyDefaults()
	if err = spec.Validate(); err != nil {
		return nil, err
	}

	timeout := utils.ParseDuration(spec.Concurrency.JobTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tracker := NewRunTracker(runID)

	// --- READ STAGE ---
	tracker.StartStage("read")
	store.UpdateRunStatus(runID, "reading")

	lineCh := make(chan RawLine, 1024)
	chunkCh := make(chan Chunk, 8)
	srcErr := make(chan error, 1)

	go func() {
		srcErr <- StreamLines(ctx, spec.Input, lineCh)
	}()
	go ChunkLines(ctx, lineCh, spec.Concurrency.ChunkSize, chunkCh)

	var chunks []Chunk
	for chunk := range chunkCh {
		tracker.AddChunk()
		tracker.AddLines(int64(len(chunk)))
		chunks = append(chunks, chunk)
	}
	if err = <-srcErr; err != nil {
		return nil, err
	}

	tracker.EndStage("read", tracker.Lines())
	fmt.Printf("📄 Read %d lines into %d chunks from %s\n", tracker.Lines(), tracker.Chunks(), spec.Input)

	// --- AGGREGATION STAGE ---
	tracker.StartStage("aggregate")
	store.UpdateRunStatus(runID, "aggregating")
	workers := spec.Concurrency.Workers
	fmt.Printf("📊 Aggregating %d chunks across %d workers...\n", len(chunks), workers)

	report = NewReport(runID, spec.Kind)
	switch spec.Kind {
	case model.KindLog:
		var agg *Aggregate
		agg, err = RunPool(ctx, chunks, workers, NewAggregate, AggregateChunk, Merge)
		if err != nil {
			return nil, err
		}
		report.Log = BuildLogReport(spec.Input, agg)
	case model.KindInteractions:
		var agg *InteractionAggregate
		agg, err = RunPool(ctx, chunks, workers, NewInteractionAggregate, AggregateInteractionChunk, MergeInteractions)
		if err != nil {
			return nil, err
		}
		report.Interaction = BuildInteractionReport(spec.Input, agg)
	case model.KindSensor:
		var agg *SensorAggregate
		agg, err = RunPool(ctx, chunks, workers, NewSensorAggregate, AggregateSensorChunk, MergeSensors)
		if err != nil {
			return nil, err
		}
		report.Sensor = BuildSensorReport(spec.Input, agg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, spec.Kind)
	}

	tracker.EndStage("aggregate", tracker.Lines())
	fmt.Printf("📊 Aggregation complete: %d lines in %v\n", tracker.Lines(), tracker.Elapsed())

	// --- REPORT STAGE ---
	tracker.StartStage("report")
	store.UpdateRunStatus(runID, "reporting")

	// archive first: a failed file write must not lose the report
	archived := archive != nil && (spec.Output == nil || spec.Output.Archive)
	if archived {
		if err = ArchiveReport(archive, runID, report); err != nil {
			return nil, err
		}
		fmt.Printf("🗄️ Report archived for run %s\n", runID)
	}

	outputFile := ""
	if spec.Output != nil {
		outputFile = spec.Output.File
		if outputFile == "" {
			om := utils.NewOutputManager("output")
			outputFile, err = om.GetOutputFilePath(runID, "report.json")
			if err != nil {
				return nil, err
			}
		}
		if err = WriteReport(outputFile, report); err != nil {
			return nil, err
		}
		fmt.Printf("💾 Report written to %s\n", outputFile)
	}

	store.SaveReportMeta(runID, string(spec.Kind), outputFile, archived)
	tracker.EndStage("report", tracker.Lines())

	store.UpdateRunStatus(runID, "completed")
	fmt.Printf("🏁 Analysis completed for run %s in %v (%.0f lines/s)\n",
		runID, time.Since(start), tracker.Throughput())
	return report, nil
}
