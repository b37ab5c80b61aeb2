package model

import "time"

// ErrorSummary is the most frequent ERROR message and how often it occurred.
type ErrorSummary struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// RPSSummary describes request-per-second behaviour over the input.
type RPSSummary struct {
	PeakSecond      string `json:"peak_second"`
	PeakValue       int64  `json:"peak_value"`
	DistinctSeconds int    `json:"distinct_seconds"`
}

// LogReport is the final document for a log analysis run.
type LogReport struct {
	File              string           `json:"file"`
	TotalLines        int64            `json:"total_lines"`
	ParsedLines       int64            `json:"parsed_lines"`
	LevelCounts       map[string]int64 `json:"level_counts"`
	MostFrequentError ErrorSummary     `json:"most_frequent_error"`
	RPS               RPSSummary       `json:"rps"`
}

// TopEntry is a category key with its count, used for top-N style summaries.
type TopEntry struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// InteractionReport is the final document for a user/item interaction run.
type InteractionReport struct {
	File           string           `json:"file"`
	TotalLines     int64            `json:"total_lines"`
	ParsedLines    int64            `json:"parsed_lines"`
	ItemPopularity map[string]int64 `json:"item_popularity"`
	UserEngagement map[string]int64 `json:"user_engagement"`
	TopItem        TopEntry         `json:"top_item"`
	TopUser        TopEntry         `json:"top_user"`
}

// SensorReport is the final document for a sensor data-quality run.
type SensorReport struct {
	File          string           `json:"file"`
	TotalLines    int64            `json:"total_lines"`
	CleanRecords  int64            `json:"clean_records"`
	DirtyRecords  int64            `json:"dirty_records"`
	RejectReasons map[string]int64 `json:"reject_reasons"`
}

// Report is the envelope persisted to the archive: exactly one of the
// kind-specific documents is set, matching Kind.
type Report struct {
	RunID       string             `json:"run_id,omitempty"`
	Kind        AnalysisKind       `json:"kind"`
	GeneratedAt time.Time          `json:"generated_at"`
	Log         *LogReport         `json:"log,omitempty"`
	Interaction *InteractionReport `json:"interaction,omitempty"`
	Sensor      *SensorReport      `json:"sensor,omitempty"`
}

// Document returns the kind-specific payload, the flat JSON the report
// writer persists to the output file.
func (r *Report) Document() interface{} {
	switch r.Kind {
	case KindLog:
		return r.Log
	case KindInteractions:
		return r.Interaction
	case KindSensor:
		return r.Sensor
	}
	return nil
}
