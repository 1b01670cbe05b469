package detect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/graph"
)

func fanIn(hub string, senders int, hoursApart float64) []domain.Transaction {
	txs := make([]domain.Transaction, 0, senders)
	for i := 0; i < senders; i++ {
		txs = append(txs, tx(fmt.Sprintf("T%d", i), fmt.Sprintf("S_%02d", i), hub, 500, float64(i)*hoursApart))
	}
	return txs
}

func TestDetectSmurfing_FanInHub(t *testing.T) {
	g := graph.Build(fanIn("HUB", 12, 1))

	hits := DetectSmurfing(g, nil)

	require.Len(t, hits, 1)
	hit := hits[0]
	require.Equal(t, "HUB", hit.Hub)
	require.Equal(t, RoleFanIn, hit.Role)
	require.Len(t, hit.Partners, 12)
	require.Equal(t, 12, hit.MaxWindowCount)
	require.Equal(t, 12, hit.BurstCount)
}

func TestDetectSmurfing_BelowThresholdIgnored(t *testing.T) {
	g := graph.Build(fanIn("HUB", 9, 1))

	require.Empty(t, DetectSmurfing(g, nil))
}

func TestDetectSmurfing_WindowCountsRespectSpacing(t *testing.T) {
	// 12 deposits 12 hours apart span 132h: at most 7 fit in 72h and 3 in 24h.
	g := graph.Build(fanIn("HUB", 12, 12))

	hits := DetectSmurfing(g, nil)

	require.Len(t, hits, 1)
	require.Equal(t, 7, hits[0].MaxWindowCount)
	require.Equal(t, 3, hits[0].BurstCount)
}

func TestDetectSmurfing_FanOutHub(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 11; i++ {
		txs = append(txs, tx(fmt.Sprintf("T%d", i), "HUB", fmt.Sprintf("R_%02d", i), 900, float64(i)))
	}
	g := graph.Build(txs)

	hits := DetectSmurfing(g, nil)

	require.Len(t, hits, 1)
	require.Equal(t, RoleFanOut, hits[0].Role)
	require.Len(t, hits[0].Partners, 11)
}

func TestDetectSmurfing_BothDirectionsYieldTwoHits(t *testing.T) {
	txs := fanIn("HUB", 10, 0.5)
	for i := 0; i < 10; i++ {
		txs = append(txs, tx(fmt.Sprintf("TO%d", i), "HUB", fmt.Sprintf("R_%02d", i), 400, 10+float64(i)))
	}
	g := graph.Build(txs)

	hits := DetectSmurfing(g, nil)

	require.Len(t, hits, 2)
	roles := []string{hits[0].Role, hits[1].Role}
	require.ElementsMatch(t, []string{RoleFanIn, RoleFanOut}, roles)
}

func TestDetectSmurfing_LegitimateHubSkipped(t *testing.T) {
	g := graph.Build(fanIn("HUB", 12, 1))

	hits := DetectSmurfing(g, map[string]string{"HUB": ReasonMerchant})

	require.Empty(t, hits)
}
