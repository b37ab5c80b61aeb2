package pipeline

import "strings"

// Recognized log levels
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// RejectReason says why a line could not be parsed into a record.
type RejectReason string

const (
	RejectTooFewTokens RejectReason = "too_few_tokens"
	RejectUnknownLevel RejectReason = "unknown_level"
)

// LogRecord is one successfully parsed log line.
type LogRecord struct {
	Level   string
	Second  string // timestamp truncated to whole seconds, "2006-01-02 15:04:05"
	Message string
}

// ParsedRecord is the outcome of parsing one line: either a valid record
// or a rejection reason, never both.
type ParsedRecord struct {
	Log      LogRecord
	Rejected bool
	Reason   RejectReason
}

// ParseLogLine parses a line of the form
//
//	"2024-01-01 10:00:00,123 LEVEL component: message"
//
// It is pure and total: every input maps to exactly one ParsedRecord and
// malformed lines come back rejected instead of erroring. Level aliases
// starting with WARN are normalized to WARNING; anything outside
// INFO/WARNING/ERROR is rejected. The message is the text after the first
// colon in the remainder, or the whole remainder if no colon exists.
func ParseLogLine(text string) ParsedRecord {
	parts := strings.SplitN(text, " ", 4)
	if len(parts) < 4 {
		return ParsedRecord{Rejected: true, Reason: RejectTooFewTokens}
	}
	date, timeMS, level, rest := parts[0], parts[1], parts[2], parts[3]

	// some writers glue the colon onto the level ("ERROR: disk full")
	level = strings.TrimSuffix(level, ":")
	if strings.HasPrefix(level, "WARN") {
		level = LevelWarning
	}
	switch level {
	case LevelInfo, LevelWarning, LevelError:
	default:
		return ParsedRecord{Rejected: true, Reason: RejectUnknownLevel}
	}

	// Drop sub-second precision for the per-second bucket key.
	second := date + " " + strings.SplitN(timeMS, ",", 2)[0]

	msg := rest
	if i := strings.Index(rest, ":"); i >= 0 {
		msg = rest[i+1:]
	}

	return ParsedRecord{Log: LogRecord{
		Level:   level,
		Second:  second,
		Message: strings.TrimSpace(msg),
	}}
}
