package report

import (
	"math"
	"sort"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/graph"
)

const maxGraphNodes = 800

// Node is one rendered account in the graph payload.
type Node struct {
	ID         string  `json:"id"`
	TxIn       int     `json:"tx_in"`
	TxOut      int     `json:"tx_out"`
	TxTotal    int     `json:"tx_total"`
	TotalIn    float64 `json:"total_in"`
	TotalOut   float64 `json:"total_out"`
	Suspicious bool    `json:"suspicious"`
	RingID     *string `json:"ring_id"`
}

// Edge is one rendered transfer relationship.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Amount float64 `json:"amount"`
}

// Payload is the pruned graph sent to the renderer.
type Payload struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildPayload selects up to maxGraphNodes accounts for rendering.
// Suspicious accounts are always included; remaining slots are filled by
// descending total degree with lexicographic tiebreak. Edges are emitted
// only between included nodes, one per ordered pair.
func BuildPayload(g *graph.Graph, txs []domain.Transaction, accounts []domain.SuspiciousAccount) Payload {
	suspicious := make(map[string]struct{}, len(accounts))
	ringByAccount := make(map[string]*string, len(accounts))
	for _, acc := range accounts {
		suspicious[acc.AccountID] = struct{}{}
		ringByAccount[acc.AccountID] = acc.RingID
	}

	display := make(map[string]struct{})
	if len(g.Accounts) <= maxGraphNodes {
		for _, id := range g.Accounts {
			display[id] = struct{}{}
		}
	} else {
		for id := range suspicious {
			display[id] = struct{}{}
		}
		normal := make([]string, 0, len(g.Accounts))
		for _, id := range g.Accounts {
			if _, ok := suspicious[id]; !ok {
				normal = append(normal, id)
			}
		}
		// g.Accounts is ascending, so the stable sort leaves degree ties
		// in lexicographic order.
		sort.SliceStable(normal, func(i, j int) bool {
			return g.Stats[normal[i]].Degree() > g.Stats[normal[j]].Degree()
		})
		slots := maxGraphNodes - len(display)
		for i := 0; i < slots && i < len(normal); i++ {
			display[normal[i]] = struct{}{}
		}
	}

	ids := make([]string, 0, len(display))
	for id := range display {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		stats := g.Stats[id]
		_, isSuspicious := suspicious[id]
		nodes = append(nodes, Node{
			ID:         id,
			TxIn:       stats.TxIn,
			TxOut:      stats.TxOut,
			TxTotal:    stats.Degree(),
			TotalIn:    round2(stats.TotalIn),
			TotalOut:   round2(stats.TotalOut),
			Suspicious: isSuspicious,
			RingID:     ringByAccount[id],
		})
	}

	seen := make(map[[2]string]struct{})
	edges := make([]Edge, 0)
	for _, tx := range txs {
		if _, ok := display[tx.SenderID]; !ok {
			continue
		}
		if _, ok := display[tx.ReceiverID]; !ok {
			continue
		}
		key := [2]string{tx.SenderID, tx.ReceiverID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		edges = append(edges, Edge{
			Source: tx.SenderID,
			Target: tx.ReceiverID,
			Amount: round2(tx.Amount),
		})
	}

	return Payload{Nodes: nodes, Edges: edges}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
