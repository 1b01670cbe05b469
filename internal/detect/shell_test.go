package detect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/graph"
)

func TestDetectShellChains_SimpleChain(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "SRC", "SH1", 12000, 0),
		tx("T2", "SH1", "SH2", 11800, 5),
		tx("T3", "SH2", "DEST", 11600, 12),
	})

	hits := DetectShellChains(g, nil)

	require.Len(t, hits, 1)
	hit := hits[0]
	require.Equal(t, []string{"SRC", "SH1", "SH2", "DEST"}, hit.Path)
	require.Equal(t, []string{"SH1", "SH2"}, hit.ShellInteriors)
	require.Equal(t, 3, hit.HopCount())
}

func TestDetectShellChains_BusyInteriorNotShell(t *testing.T) {
	txs := []domain.Transaction{
		tx("T1", "SRC", "SH1", 12000, 0),
		tx("T2", "SH1", "SH2", 11800, 5),
		tx("T3", "SH2", "DEST", 11600, 12),
	}
	// Extra traffic lifts SH1 above the pass-through activity ceiling.
	for i := 0; i < 4; i++ {
		txs = append(txs, tx(fmt.Sprintf("TN%d", i), fmt.Sprintf("N_%02d", i), "SH1", 50, 20+float64(i)))
	}
	g := graph.Build(txs)

	hits := DetectShellChains(g, nil)

	for _, hit := range hits {
		require.NotContains(t, hit.ShellInteriors, "SH1")
	}
}

func TestDetectShellChains_TooFewInteriors(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "SRC", "SH1", 5000, 0),
		tx("T2", "SH1", "DEST", 4900, 4),
	})

	require.Empty(t, DetectShellChains(g, nil))
}

func TestDetectShellChains_LegitimateStartSkipped(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "SRC", "SH1", 12000, 0),
		tx("T2", "SH1", "SH2", 11800, 5),
		tx("T3", "SH2", "DEST", 11600, 12),
	})

	hits := DetectShellChains(g, map[string]string{"SRC": ReasonMerchant})

	require.Empty(t, hits)
}

func TestDetectShellChains_LongChainCappedAtSixHops(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 8; i++ {
		txs = append(txs, tx(fmt.Sprintf("T%d", i), fmt.Sprintf("H_%02d", i), fmt.Sprintf("H_%02d", i+1), 1000, float64(i)))
	}
	g := graph.Build(txs)

	hits := DetectShellChains(g, nil)

	require.NotEmpty(t, hits)
	for _, hit := range hits {
		require.LessOrEqual(t, hit.HopCount(), 6)
	}
}
