package detect

import (
	"strings"

	"github.com/vanshika/ringtrace/backend/internal/graph"
)

const (
	shellActivityCeiling = 3
	shellMinChainNodes   = 3
	shellMaxExpandNodes  = 6
	shellMinInteriors    = 2
	shellStepBudget      = 50000
	maxShellChains       = 300
)

// ShellHit records one low-activity pass-through chain.
type ShellHit struct {
	Path           []string
	ShellInteriors []string
}

// HopCount returns the number of edges in the chain.
func (h ShellHit) HopCount() int {
	if len(h.Path) == 0 {
		return 0
	}
	return len(h.Path) - 1
}

// DetectShellChains runs a budgeted BFS from each non-legitimate start
// node, recording chains whose interior accounts are low-activity shells.
// BFS records shorter chains first; the step budget guarantees
// termination on large graphs.
func DetectShellChains(g *graph.Graph, legitimate map[string]string) []ShellHit {
	hits := make([]ShellHit, 0)
	seenPaths := make(map[string]struct{})
	steps := 0

	for _, start := range g.Accounts {
		if len(hits) >= maxShellChains || steps >= shellStepBudget {
			break
		}
		if _, ok := legitimate[start]; ok {
			continue
		}

		queue := [][]string{{start}}
		enqueued := map[string]struct{}{start: {}}

		for len(queue) > 0 {
			if len(hits) >= maxShellChains || steps >= shellStepBudget {
				break
			}

			path := queue[0]
			queue = queue[1:]
			steps++

			if len(path) > shellMaxExpandNodes {
				continue
			}

			current := path[len(path)-1]
			for _, next := range g.OutNeighbors(current) {
				if _, ok := enqueued[next]; ok {
					continue
				}
				extended := append(append([]string(nil), path...), next)
				key := strings.Join(extended, "->")
				if _, ok := seenPaths[key]; ok {
					continue
				}
				seenPaths[key] = struct{}{}

				if len(extended) >= shellMinChainNodes {
					// Every interior must be a shell, and there must be at least two.
					if interiors := shellInteriors(g, extended); len(interiors) >= shellMinInteriors && len(interiors) == len(extended)-2 {
						hits = append(hits, ShellHit{Path: extended, ShellInteriors: interiors})
						if len(hits) >= maxShellChains {
							break
						}
					}
				}

				enqueued[next] = struct{}{}
				queue = append(queue, extended)
			}
		}
	}

	return hits
}

func shellInteriors(g *graph.Graph, path []string) []string {
	var interiors []string
	for _, id := range path[1 : len(path)-1] {
		stats, ok := g.Stats[id]
		if !ok {
			continue
		}
		if stats.Degree() <= shellActivityCeiling {
			interiors = append(interiors, id)
		}
	}
	return interiors
}
