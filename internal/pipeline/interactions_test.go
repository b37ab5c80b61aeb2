package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInteractionLine(t *testing.T) {
	p := ParseInteractionLine("alice,book")
	require.False(t, p.Rejected)
	require.Equal(t, Interaction{User: "alice", Item: "book"}, p.Interaction)
}

func TestParseInteractionLine_TrimsAndIgnoresExtras(t *testing.T) {
	p := ParseInteractionLine(" bob , laptop ,2024-01-01,ignored")
	require.False(t, p.Rejected)
	require.Equal(t, Interaction{User: "bob", Item: "laptop"}, p.Interaction)
}

func TestParseInteractionLine_Rejects(t *testing.T) {
	for _, line := range []string{"", "   ", "alice", "alice,", ",book", " , "} {
		require.True(t, ParseInteractionLine(line).Rejected, "line %q", line)
	}
}

func TestAggregateInteractionChunk(t *testing.T) {
	agg := AggregateInteractionChunk(chunkOf(
		"alice,book",
		"bob,book",
		"alice,pen",
		"broken line",
	))
	require.Equal(t, int64(4), agg.TotalLines)
	require.Equal(t, int64(3), agg.ParsedLines)
	require.Equal(t, map[string]int64{"book": 2, "pen": 1}, agg.Items)
	require.Equal(t, map[string]int64{"alice": 2, "bob": 1}, agg.Users)
}

func TestMergeInteractions_OrderInvariant(t *testing.T) {
	a := AggregateInteractionChunk(chunkOf("alice,book", "bob,pen"))
	b := AggregateInteractionChunk(chunkOf("alice,pen"))

	x := MergeInteractions(NewInteractionAggregate(), AggregateInteractionChunk(chunkOf("alice,book", "bob,pen")))
	x = MergeInteractions(x, AggregateInteractionChunk(chunkOf("alice,pen")))

	y := MergeInteractions(NewInteractionAggregate(), b)
	y = MergeInteractions(y, a)

	require.Equal(t, x, y)
}

func TestRunPool_Interactions(t *testing.T) {
	chunks := chunksOf(2,
		"alice,book",
		"bob,book",
		"carol,pen",
		"alice,pen",
		"junk",
	)
	agg, err := RunPool(context.Background(), chunks, 2, NewInteractionAggregate, AggregateInteractionChunk, MergeInteractions)
	require.NoError(t, err)

	report := BuildInteractionReport("interactions.csv", agg)
	require.Equal(t, int64(5), report.TotalLines)
	require.Equal(t, int64(4), report.ParsedLines)
	require.Equal(t, "book", report.TopItem.Key)
	require.Equal(t, int64(2), report.TopItem.Count)
	require.Equal(t, "alice", report.TopUser.Key)
	require.Equal(t, int64(2), report.TopUser.Count)
}
