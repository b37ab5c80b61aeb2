package pipeline

import "strings"

// Interaction is one parsed user/item pair from a "user,item" line.
type Interaction struct {
	User string
	Item string
}

// ParsedInteraction is the tagged outcome of parsing one interaction line.
type ParsedInteraction struct {
	Interaction Interaction
	Rejected    bool
}

// ParseInteractionLine parses a comma-separated "user,item" pair. Blank
// lines and lines without both fields are rejected; extra fields after the
// item are ignored.
func ParseInteractionLine(text string) ParsedInteraction {
	if strings.TrimSpace(text) == "" {
		return ParsedInteraction{Rejected: true}
	}
	parts := strings.SplitN(text, ",", 3)
	if len(parts) < 2 {
		return ParsedInteraction{Rejected: true}
	}
	user := strings.TrimSpace(parts[0])
	item := strings.TrimSpace(parts[1])
	if user == "" || item == "" {
		return ParsedInteraction{Rejected: true}
	}
	return ParsedInteraction{Interaction: Interaction{User: user, Item: item}}
}

// InteractionAggregate counts item popularity and user engagement over a
// share of the input.
type InteractionAggregate struct {
	Items       map[string]int64 `json:"items"`
	Users       map[string]int64 `json:"users"`
	TotalLines  int64            `json:"total_lines"`
	ParsedLines int64            `json:"parsed_lines"`
}

// NewInteractionAggregate returns an empty aggregate with maps allocated.
func NewInteractionAggregate() *InteractionAggregate {
	return &InteractionAggregate{
		Items: make(map[string]int64),
		Users: make(map[string]int64),
	}
}

// AggregateInteractionChunk folds one batch of interaction lines into a
// fresh partial aggregate.
func AggregateInteractionChunk(chunk Chunk) *InteractionAggregate {
	agg := NewInteractionAggregate()
	agg.TotalLines = int64(len(chunk))

	for _, line := range chunk {
		p := ParseInteractionLine(line.Text)
		if p.Rejected {
			continue
		}
		agg.ParsedLines++
		agg.Items[p.Interaction.Item]++
		agg.Users[p.Interaction.User]++
	}
	return agg
}

// MergeInteractions folds b into a and returns a. Same algebra as Merge:
// key-wise addition, associative and commutative.
func MergeInteractions(a, b *InteractionAggregate) *InteractionAggregate {
	addCounts(a.Items, b.Items)
	addCounts(a.Users, b.Users)
	a.TotalLines += b.TotalLines
	a.ParsedLines += b.ParsedLines
	return a
}
