package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-log-analyzer/internal/model"
	"go-log-analyzer/internal/store"
	"go-log-analyzer/pkg/storage"

	"github.com/stretchr/testify/require"
)

func logSpec(input string) model.AnalysisJobSpec {
	return model.AnalysisJobSpec{
		Input: input,
		Kind:  model.KindLog,
		Concurrency: model.Concurrency{
			ChunkSize: 2,
			Workers:   2,
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	input := writeTempFile(t, strings.Join([]string{
		"2024-01-01 10:00:00,000 INFO: boot ok",
		"2024-01-01 10:00:00,500 ERROR: disk full",
		"2024-01-01 10:00:01,000 ERROR: disk full",
	}, "\n")+"\n")

	outputFile := filepath.Join(t.TempDir(), "report.json")
	spec := logSpec(input)
	spec.Output = &model.Output{File: outputFile, Archive: true}

	archive := storage.NewMemoryBackend()
	report, err := Run(context.Background(), "run-e2e", spec, archive)
	require.NoError(t, err)
	require.NotNil(t, report.Log)

	require.Equal(t, int64(3), report.Log.TotalLines)
	require.Equal(t, int64(3), report.Log.ParsedLines)
	require.Equal(t, map[string]int64{"INFO": 1, "ERROR": 2}, report.Log.LevelCounts)
	require.Equal(t, "disk full", report.Log.MostFrequentError.Message)
	require.Equal(t, int64(2), report.Log.MostFrequentError.Count)

	// report file written
	_, err = os.Stat(outputFile)
	require.NoError(t, err)

	// and archived
	archived, err := LoadArchivedReport(archive, "run-e2e")
	require.NoError(t, err)
	require.NotNil(t, archived)
	require.Equal(t, report.Log.LevelCounts, archived.Log.LevelCounts)
}

func TestRun_EmptyInput(t *testing.T) {
	input := writeTempFile(t, "")

	report, err := Run(context.Background(), "run-empty", logSpec(input), nil)
	require.NoError(t, err)
	require.NotNil(t, report.Log)
	require.Zero(t, report.Log.TotalLines)
	require.Zero(t, report.Log.ParsedLines)
	require.Empty(t, report.Log.LevelCounts)
	require.Equal(t, model.ErrorSummary{Message: "", Count: 0}, report.Log.MostFrequentError)
}

func TestRun_InputNotFound(t *testing.T) {
	spec := logSpec(filepath.Join(t.TempDir(), "missing.log"))
	spec.Output = &model.Output{File: filepath.Join(t.TempDir(), "never.json")}

	_, err := Run(context.Background(), "run-missing", spec, nil)
	require.ErrorIs(t, err, ErrInputNotFound)

	// no partial output on failure
	_, statErr := os.Stat(spec.Output.File)
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_OutputWriteFailure(t *testing.T) {
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "runs.db")))
	t.Cleanup(func() { require.NoError(t, store.CloseDB()) })

	input := writeTempFile(t, "2024-01-01 10:00:00,000 ERROR db: timeout\n")

	// an existing directory as the output file makes the write fail
	// after aggregation succeeded
	spec := logSpec(input)
	spec.Output = &model.Output{File: t.TempDir(), Archive: true}

	archive := storage.NewMemoryBackend()
	require.NoError(t, store.SaveRun("run-badout", spec))

	_, err := Run(context.Background(), "run-badout", spec, archive)
	require.Error(t, err)

	run, getErr := store.GetRun("run-badout")
	require.NoError(t, getErr)
	require.Equal(t, "failed", run["status"])

	// the archived report survives the failed file write
	archived, loadErr := LoadArchivedReport(archive, "run-badout")
	require.NoError(t, loadErr)
	require.NotNil(t, archived)
	require.Equal(t, int64(1), archived.Log.TotalLines)
}

func TestRun_InvalidKind(t *testing.T) {
	spec := logSpec(writeTempFile(t, "x\n"))
	spec.Kind = "unheard-of"

	_, err := Run(context.Background(), "run-bad-kind", spec, nil)
	require.Error(t, err)
}

func TestRun_ChunkSizeInvariance(t *testing.T) {
	input := writeTempFile(t, strings.Join(sampleLines(40), "\n")+"\n")

	var base *model.LogReport
	for _, chunkSize := range []int{1, 7, 1000} {
		spec := logSpec(input)
		spec.Concurrency.ChunkSize = chunkSize
		report, err := Run(context.Background(), "run-inv", spec, nil)
		require.NoError(t, err)
		if base == nil {
			base = report.Log
			continue
		}
		require.Equal(t, base, report.Log, "chunkSize=%d", chunkSize)
	}
}
