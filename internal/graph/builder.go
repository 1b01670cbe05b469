package graph

import (
	"sort"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/domain"
)

// Transfer is a single payment as seen from one endpoint of an edge.
type Transfer struct {
	TxID      string
	Partner   string
	Amount    float64
	Timestamp time.Time
}

// NodeStats aggregates per-account activity.
type NodeStats struct {
	TxIn       int
	TxOut      int
	TotalIn    float64
	TotalOut   float64
	Timestamps []time.Time
}

// Degree returns the total number of transactions touching the account.
func (s *NodeStats) Degree() int {
	return s.TxIn + s.TxOut
}

// Graph is the directed multigraph over one batch of transactions.
// Edge sequences preserve ingest order; Timestamps are sorted ascending
// after construction.
type Graph struct {
	Adj           map[string]map[string]struct{}
	Rev           map[string]map[string]struct{}
	EdgesBySource map[string][]Transfer
	EdgesByTarget map[string][]Transfer
	Stats         map[string]*NodeStats
	Accounts      []string
	TotalVolume   float64
}

// Build constructs the graph in one pass over the validated transactions.
func Build(txs []domain.Transaction) *Graph {
	g := &Graph{
		Adj:           make(map[string]map[string]struct{}),
		Rev:           make(map[string]map[string]struct{}),
		EdgesBySource: make(map[string][]Transfer),
		EdgesByTarget: make(map[string][]Transfer),
		Stats:         make(map[string]*NodeStats),
	}

	for _, tx := range txs {
		sender := g.ensureNode(tx.SenderID)
		receiver := g.ensureNode(tx.ReceiverID)

		if _, ok := g.Adj[tx.SenderID][tx.ReceiverID]; !ok {
			g.Adj[tx.SenderID][tx.ReceiverID] = struct{}{}
		}
		if _, ok := g.Rev[tx.ReceiverID][tx.SenderID]; !ok {
			g.Rev[tx.ReceiverID][tx.SenderID] = struct{}{}
		}

		g.EdgesBySource[tx.SenderID] = append(g.EdgesBySource[tx.SenderID], Transfer{
			TxID:      tx.ID,
			Partner:   tx.ReceiverID,
			Amount:    tx.Amount,
			Timestamp: tx.Timestamp,
		})
		g.EdgesByTarget[tx.ReceiverID] = append(g.EdgesByTarget[tx.ReceiverID], Transfer{
			TxID:      tx.ID,
			Partner:   tx.SenderID,
			Amount:    tx.Amount,
			Timestamp: tx.Timestamp,
		})

		sender.TxOut++
		sender.TotalOut += tx.Amount
		sender.Timestamps = append(sender.Timestamps, tx.Timestamp)

		receiver.TxIn++
		receiver.TotalIn += tx.Amount
		receiver.Timestamps = append(receiver.Timestamps, tx.Timestamp)

		g.TotalVolume += tx.Amount
	}

	g.Accounts = make([]string, 0, len(g.Stats))
	for id, stats := range g.Stats {
		g.Accounts = append(g.Accounts, id)
		sort.Slice(stats.Timestamps, func(i, j int) bool {
			return stats.Timestamps[i].Before(stats.Timestamps[j])
		})
	}
	sort.Strings(g.Accounts)

	return g
}

func (g *Graph) ensureNode(id string) *NodeStats {
	stats, ok := g.Stats[id]
	if !ok {
		stats = &NodeStats{}
		g.Stats[id] = stats
		g.Adj[id] = make(map[string]struct{})
		g.Rev[id] = make(map[string]struct{})
	}
	return stats
}

// OutNeighbors returns the outgoing partner set in ascending order.
func (g *Graph) OutNeighbors(id string) []string {
	partners := g.Adj[id]
	out := make([]string, 0, len(partners))
	for p := range partners {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// InNeighbors returns the incoming partner set in ascending order.
func (g *Graph) InNeighbors(id string) []string {
	partners := g.Rev[id]
	in := make([]string, 0, len(partners))
	for p := range partners {
		in = append(in, p)
	}
	sort.Strings(in)
	return in
}

// EarliestTransfer picks the earliest-timestamp transfer between the pair.
// Reported ok is false when no such edge exists.
func (g *Graph) EarliestTransfer(source, target string) (Transfer, bool) {
	var best Transfer
	found := false
	for _, t := range g.EdgesBySource[source] {
		if t.Partner != target {
			continue
		}
		if !found || t.Timestamp.Before(best.Timestamp) {
			best = t
			found = true
		}
	}
	return best, found
}

// LargestTransfer picks the largest-amount transfer between the pair.
func (g *Graph) LargestTransfer(source, target string) (Transfer, bool) {
	var best Transfer
	found := false
	for _, t := range g.EdgesBySource[source] {
		if t.Partner != target {
			continue
		}
		if !found || t.Amount > best.Amount {
			best = t
			found = true
		}
	}
	return best, found
}
