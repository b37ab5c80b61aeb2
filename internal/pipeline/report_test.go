package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go-log-analyzer/internal/model"
	"go-log-analyzer/pkg/storage"

	"github.com/stretchr/testify/require"
)

func TestTopEntry(t *testing.T) {
	key, count := topEntry(map[string]int64{"a": 1, "b": 3, "c": 2})
	require.Equal(t, "b", key)
	require.Equal(t, int64(3), count)
}

func TestTopEntry_TieBreaksLexicographically(t *testing.T) {
	key, count := topEntry(map[string]int64{"zebra": 5, "apple": 5, "mango": 5})
	require.Equal(t, "apple", key)
	require.Equal(t, int64(5), count)
}

func TestTopEntry_Empty(t *testing.T) {
	key, count := topEntry(nil)
	require.Equal(t, "", key)
	require.Zero(t, count)
}

func TestBuildLogReport_EmptyAggregate(t *testing.T) {
	report := BuildLogReport("empty.log", NewAggregate())
	require.Zero(t, report.TotalLines)
	require.Zero(t, report.ParsedLines)
	require.Empty(t, report.LevelCounts)
	require.Equal(t, model.ErrorSummary{Message: "", Count: 0}, report.MostFrequentError)
	require.Zero(t, report.RPS.DistinctSeconds)
}

func sampleReport(runID string) *model.Report {
	report := NewReport(runID, model.KindLog)
	report.Log = BuildLogReport("app.log", AggregateChunk(chunkOf(
		"2024-01-01 10:00:00,000 INFO auth: login",
		"2024-01-01 10:00:00,500 ERROR db: timeout",
	)))
	return report
}

func TestWriteReport_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, WriteReport(path, sampleReport("run-1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc model.LogReport
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "app.log", doc.File)
	require.Equal(t, int64(2), doc.TotalLines)
	require.Equal(t, "timeout", doc.MostFrequentError.Message)
}

func TestWriteReport_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, WriteReport(path, sampleReport("run-1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Processed: app.log")
	require.Contains(t, string(data), "Levels: ERROR=1 INFO=1")
}

func TestArchiveAndLoadReport(t *testing.T) {
	backend := storage.NewMemoryBackend()
	report := sampleReport("run-42")

	require.NoError(t, ArchiveReport(backend, "run-42", report))

	got, err := LoadArchivedReport(backend, "run-42")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "run-42", got.RunID)
	require.Equal(t, model.KindLog, got.Kind)
	require.Equal(t, report.Log.LevelCounts, got.Log.LevelCounts)
}

func TestLoadArchivedReport_Missing(t *testing.T) {
	got, err := LoadArchivedReport(storage.NewMemoryBackend(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}
