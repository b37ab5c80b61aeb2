package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-log-analyzer/internal/model"
	"go-log-analyzer/pkg/storage"
)

// reportsBucket is where archived report envelopes live, keyed by run ID.
var reportsBucket = []byte("reports")

// BuildLogReport turns the fully reduced aggregate into the final report
// document: level counts, the most frequent ERROR message and the
// requests-per-second summary.
func BuildLogReport(file string, agg *Aggregate) *model.LogReport {
	topErr, topErrCount := topEntry(agg.Errors)
	peakSecond, peakValue := topEntry(agg.RPS)

	return &model.LogReport{
		File:        file,
		TotalLines:  agg.TotalLines,
		ParsedLines: agg.ParsedLines,
		LevelCounts: agg.Levels,
		MostFrequentError: model.ErrorSummary{
			Message: topErr,
			Count:   topErrCount,
		},
		RPS: model.RPSSummary{
			PeakSecond:      peakSecond,
			PeakValue:       peakValue,
			DistinctSeconds: len(agg.RPS),
		},
	}
}

// BuildInteractionReport turns the reduced interaction aggregate into its
// report document.
func BuildInteractionReport(file string, agg *InteractionAggregate) *model.InteractionReport {
	topItem, topItemCount := topEntry(agg.Items)
	topUser, topUserCount := topEntry(agg.Users)

	return &model.InteractionReport{
		File:           file,
		TotalLines:     agg.TotalLines,
		ParsedLines:    agg.ParsedLines,
		ItemPopularity: agg.Items,
		UserEngagement: agg.Users,
		TopItem:        model.TopEntry{Key: topItem, Count: topItemCount},
		TopUser:        model.TopEntry{Key: topUser, Count: topUserCount},
	}
}

// BuildSensorReport turns the reduced sensor aggregate into its report
// document.
func BuildSensorReport(file string, agg *SensorAggregate) *model.SensorReport {
	return &model.SensorReport{
		File:          file,
		TotalLines:    agg.TotalLines,
		CleanRecords:  agg.CleanCount,
		DirtyRecords:  agg.DirtyCount,
		RejectReasons: agg.Reasons,
	}
}

// topEntry picks the highest-count key from a counter map. Ties go to the
// lexicographically smaller key so reports are deterministic. An empty
// map yields ("", 0).
func topEntry(counts map[string]int64) (string, int64) {
	var bestKey string
	var bestCount int64
	for k, v := range counts {
		if v > bestCount || (v == bestCount && bestCount > 0 && k < bestKey) {
			bestKey, bestCount = k, v
		}
	}
	return bestKey, bestCount
}

// WriteReport persists the report's flat document to path, choosing the
// format from the extension: .txt gets a plain-text summary, everything
// else pretty-printed JSON. The parent directory is created on demand.
func WriteReport(path string, report *model.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(path)) == ".txt" {
		_, err = file.WriteString(FormatReport(report))
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report.Document()); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// FormatReport renders a human-readable summary of the report, the same
// lines the CLI prints after a run.
func FormatReport(report *model.Report) string {
	var b strings.Builder

	switch report.Kind {
	case model.KindLog:
		r := report.Log
		fmt.Fprintf(&b, "Processed: %s\n", r.File)
		fmt.Fprintf(&b, "Total lines: %d | Parsed: %d\n", r.TotalLines, r.ParsedLines)
		fmt.Fprintf(&b, "Levels: %s\n", formatCounts(r.LevelCounts))
		fmt.Fprintf(&b, "Top ERROR: %q (%d)\n", r.MostFrequentError.Message, r.MostFrequentError.Count)
		fmt.Fprintf(&b, "Peak RPS: %d at %s (%d distinct seconds)\n",
			r.RPS.PeakValue, r.RPS.PeakSecond, r.RPS.DistinctSeconds)
	case model.KindInteractions:
		r := report.Interaction
		fmt.Fprintf(&b, "Processed: %s\n", r.File)
		fmt.Fprintf(&b, "Total lines: %d | Parsed: %d\n", r.TotalLines, r.ParsedLines)
		fmt.Fprintf(&b, "Distinct items: %d | Distinct users: %d\n", len(r.ItemPopularity), len(r.UserEngagement))
		fmt.Fprintf(&b, "Top item: %q (%d)\n", r.TopItem.Key, r.TopItem.Count)
		fmt.Fprintf(&b, "Top user: %q (%d)\n", r.TopUser.Key, r.TopUser.Count)
	case model.KindSensor:
		r := report.Sensor
		fmt.Fprintf(&b, "Processed: %s\n", r.File)
		fmt.Fprintf(&b, "Total lines: %d\n", r.TotalLines)
		fmt.Fprintf(&b, "Clean records: %d | Dirty records: %d\n", r.CleanRecords, r.DirtyRecords)
		fmt.Fprintf(&b, "Reject reasons: %s\n", formatCounts(r.RejectReasons))
	}
	return b.String()
}

func formatCounts(counts map[string]int64) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

// ArchiveReport stores the full report envelope in the archive backend
// under the run ID, so the API can serve past reports without re-running
// the analysis.
func ArchiveReport(backend storage.Backend, runID string, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := backend.CreateBucket(reportsBucket); err != nil {
		return fmt.Errorf("failed to create reports bucket: %w", err)
	}
	if err := backend.Put(reportsBucket, []byte(runID), data); err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}
	return nil
}

// LoadArchivedReport fetches a previously archived report envelope.
// Returns (nil, nil) when no report exists for the run.
func LoadArchivedReport(backend storage.Backend, runID string) (*model.Report, error) {
	data, err := backend.Get(reportsBucket, []byte(runID))
	if err != nil || data == nil {
		return nil, err
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode archived report: %w", err)
	}
	return &report, nil
}

// NewReport wraps a kind-specific document in the archive envelope.
func NewReport(runID string, kind model.AnalysisKind) *model.Report {
	return &model.Report{
		RunID:       runID,
		Kind:        kind,
		GeneratedAt: time.Now().UTC(),
	}
}
