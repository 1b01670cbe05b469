package detect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/graph"
)

func TestDetectCycles_TriangleFoundOnce(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 1000, 0),
		tx("T2", "B", "C", 900, 2),
		tx("T3", "C", "A", 810, 5),
	})

	hits := DetectCycles(g, nil)

	require.Len(t, hits, 1)
	require.Equal(t, []string{"A", "B", "C"}, hits[0].Members)
	require.Equal(t, 3, hits[0].Length())
	require.InDelta(t, 5.0, hits[0].SpanHours(), 1e-9)
	require.True(t, hits[0].AmountDecay())
}

func TestDetectCycles_DecayOutsideBand(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 1000, 0),
		tx("T2", "B", "C", 1000, 2),
		tx("T3", "C", "A", 1000, 5),
	})

	hits := DetectCycles(g, nil)

	require.Len(t, hits, 1)
	require.False(t, hits[0].AmountDecay())
}

func TestDetectCycles_ParallelEdgesPickEarliestAndLargest(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 500, 10),
		tx("T2", "A", "B", 1000, 1),
		tx("T3", "B", "C", 900, 2),
		tx("T4", "C", "A", 810, 5),
	})

	hits := DetectCycles(g, nil)

	require.Len(t, hits, 1)
	// The largest A->B transfer feeds the decay check, the earliest the span.
	require.Equal(t, 1000.0, hits[0].Amounts[0])
	require.InDelta(t, 4.0, hits[0].SpanHours(), 1e-9)
}

func TestDetectCycles_FourAndFiveHop(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 100, 0),
		tx("T2", "B", "C", 100, 1),
		tx("T3", "C", "D", 100, 2),
		tx("T4", "D", "A", 100, 3),
		tx("T5", "P", "Q", 100, 0),
		tx("T6", "Q", "R", 100, 1),
		tx("T7", "R", "S", 100, 2),
		tx("T8", "S", "U", 100, 3),
		tx("T9", "U", "P", 100, 4),
	})

	hits := DetectCycles(g, nil)

	require.Len(t, hits, 2)
	lengths := []int{hits[0].Length(), hits[1].Length()}
	require.ElementsMatch(t, []int{4, 5}, lengths)
}

func TestDetectCycles_TwoHopLoopIgnored(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 100, 0),
		tx("T2", "B", "A", 100, 1),
	})

	require.Empty(t, DetectCycles(g, nil))
}

func TestDetectCycles_LegitimateMemberBreaksCycle(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 1000, 0),
		tx("T2", "B", "C", 900, 2),
		tx("T3", "C", "A", 810, 5),
	})

	hits := DetectCycles(g, map[string]string{"B": ReasonMerchant})

	require.Empty(t, hits)
}

func TestDetectCycles_SharedEdgeCyclesBothReported(t *testing.T) {
	// Two triangles sharing the A->B edge.
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 100, 0),
		tx("T2", "B", "C", 100, 1),
		tx("T3", "C", "A", 100, 2),
		tx("T4", "B", "D", 100, 3),
		tx("T5", "D", "A", 100, 4),
	})

	hits := DetectCycles(g, nil)

	require.Len(t, hits, 2)
}
