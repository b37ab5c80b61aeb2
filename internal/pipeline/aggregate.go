package pipeline

// Aggregate holds the counters for a log analysis: per-level counts,
// per-second request counts, per-message ERROR counts and the two scalar
// line totals. An Aggregate is owned by exactly one worker until it is
// handed to the reducer.
type Aggregate struct {
	Levels      map[string]int64 `json:"levels"`
	RPS         map[string]int64 `json:"rps"`
	Errors      map[string]int64 `json:"errors"`
	TotalLines  int64            `json:"total_lines"`
	ParsedLines int64            `json:"parsed_lines"`
}

// NewAggregate returns an empty aggregate with all maps allocated.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Levels: make(map[string]int64),
		RPS:    make(map[string]int64),
		Errors: make(map[string]int64),
	}
}

// AggregateChunk parses every line of one batch and folds the matches into
// a fresh partial aggregate. A batch of nothing but malformed lines still
// produces a valid (zero-category) aggregate; rejected lines count toward
// TotalLines only.
func AggregateChunk(chunk Chunk) *Aggregate {
	agg := NewAggregate()
	agg.TotalLines = int64(len(chunk))

	for _, line := range chunk {
		rec := ParseLogLine(line.Text)
		if rec.Rejected {
			continue
		}
		agg.ParsedLines++
		agg.Levels[rec.Log.Level]++
		agg.RPS[rec.Log.Second]++
		if rec.Log.Level == LevelError {
			agg.Errors[rec.Log.Message]++
		}
	}
	return agg
}

// Merge folds b into a and returns a. The operation is associative and
// commutative (key-wise addition plus scalar addition), so partial
// aggregates can be reduced in any order and yield the same result.
// b's maps must not be reused by the caller afterwards.
func Merge(a, b *Aggregate) *Aggregate {
	addCounts(a.Levels, b.Levels)
	addCounts(a.RPS, b.RPS)
	addCounts(a.Errors, b.Errors)
	a.TotalLines += b.TotalLines
	a.ParsedLines += b.ParsedLines
	return a
}

func addCounts(dst, src map[string]int64) {
	for k, v := range src {
		dst[k] += v
	}
}
