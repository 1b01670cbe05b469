package detect

import (
	"sort"
	"strings"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/graph"
)

const (
	minCycleLength = 3
	maxCycleLength = 5
	maxCycles      = 500
)

// Amount-decay acceptance band for successive hop ratios.
const (
	decayRatioFloor   = 0.65
	decayRatioCeiling = 0.98
)

// CycleHit records one simple directed cycle, discovered from its
// lexicographically smallest member. Timestamps hold the earliest
// transfer per hop, Amounts the largest.
type CycleHit struct {
	Members    []string
	Amounts    []float64
	Timestamps []time.Time
}

// Length returns the number of accounts in the cycle.
func (c CycleHit) Length() int {
	return len(c.Members)
}

// SpanHours is the temporal spread of the cycle's hop transfers.
func (c CycleHit) SpanHours() float64 {
	if len(c.Timestamps) == 0 {
		return 0
	}
	earliest, latest := c.Timestamps[0], c.Timestamps[0]
	for _, ts := range c.Timestamps[1:] {
		if ts.Before(earliest) {
			earliest = ts
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	return latest.Sub(earliest).Hours()
}

// AmountDecay reports whether every successive hop ratio sits inside the
// skim-per-hop band.
func (c CycleHit) AmountDecay() bool {
	if len(c.Amounts) < 2 {
		return false
	}
	for i := 1; i < len(c.Amounts); i++ {
		prev := c.Amounts[i-1]
		if prev <= 0 {
			return false
		}
		ratio := c.Amounts[i] / prev
		if ratio < decayRatioFloor || ratio > decayRatioCeiling {
			return false
		}
	}
	return true
}

// DetectCycles enumerates simple directed cycles of length 3 to 5 using a
// canonical DFS: from each start node only lexicographically greater
// neighbours are traversed, so every cycle is found exactly once from its
// smallest member. Enumeration stops at the global cycle cap. Legitimate
// accounts are excluded both as start and interior nodes.
func DetectCycles(g *graph.Graph, legitimate map[string]string) []CycleHit {
	hits := make([]CycleHit, 0)
	seen := make(map[string]struct{})

	for _, start := range g.Accounts {
		if len(hits) >= maxCycles {
			break
		}
		if _, ok := legitimate[start]; ok {
			continue
		}
		path := []string{start}
		onPath := map[string]struct{}{start: {}}
		cycleDFS(g, legitimate, start, path, onPath, seen, &hits)
	}

	return hits
}

func cycleDFS(g *graph.Graph, legitimate map[string]string, start string, path []string, onPath map[string]struct{}, seen map[string]struct{}, hits *[]CycleHit) {
	if len(*hits) >= maxCycles {
		return
	}
	current := path[len(path)-1]

	for _, next := range g.OutNeighbors(current) {
		if len(*hits) >= maxCycles {
			return
		}
		if next == start {
			if len(path) >= minCycleLength && len(path) <= maxCycleLength {
				recordCycle(g, path, seen, hits)
			}
			continue
		}
		if next <= start {
			continue
		}
		if _, ok := legitimate[next]; ok {
			continue
		}
		if _, ok := onPath[next]; ok {
			continue
		}
		if len(path) >= maxCycleLength {
			continue
		}
		onPath[next] = struct{}{}
		cycleDFS(g, legitimate, start, append(path, next), onPath, seen, hits)
		delete(onPath, next)
	}
}

func recordCycle(g *graph.Graph, path []string, seen map[string]struct{}, hits *[]CycleHit) {
	key := cycleKey(path)
	if _, ok := seen[key]; ok {
		return
	}
	seen[key] = struct{}{}

	members := make([]string, len(path))
	copy(members, path)

	amounts := make([]float64, 0, len(members))
	timestamps := make([]time.Time, 0, len(members))
	for i := range members {
		source := members[i]
		target := members[(i+1)%len(members)]
		if earliest, ok := g.EarliestTransfer(source, target); ok {
			timestamps = append(timestamps, earliest.Timestamp)
		}
		if largest, ok := g.LargestTransfer(source, target); ok {
			amounts = append(amounts, largest.Amount)
		}
	}

	*hits = append(*hits, CycleHit{
		Members:    members,
		Amounts:    amounts,
		Timestamps: timestamps,
	})
}

func cycleKey(path []string) string {
	sorted := make([]string, len(path))
	copy(sorted, path)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
