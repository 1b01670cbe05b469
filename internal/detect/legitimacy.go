package detect

import "github.com/vanshika/ringtrace/backend/internal/graph"

// Classification reasons for structurally legitimate accounts.
const (
	ReasonMerchant         = "merchant"
	ReasonPayrollDisburser = "payroll_disburser"
	ReasonPayrollConduit   = "payroll_conduit"
)

const legitimacyEpsilon = 1e-9

// LegitimateAccounts classifies accounts whose transaction shape matches
// ordinary commerce or payroll so the detectors skip them. The returned
// map is keyed by account id with the matched reason as value.
func LegitimateAccounts(g *graph.Graph) map[string]string {
	legitimate := make(map[string]string)
	for _, id := range g.Accounts {
		stats := g.Stats[id]
		in := len(g.Rev[id])
		out := len(g.Adj[id])

		switch {
		case in >= 12 && out <= 5 && stats.TotalIn > 2*stats.TotalOut:
			legitimate[id] = ReasonMerchant
		case out >= 15 && in <= 3:
			legitimate[id] = ReasonPayrollDisburser
		case stats.TxIn <= 3 && stats.TxOut >= 15 && stats.TotalIn > 0 && payrollBalanced(stats.TotalIn, stats.TotalOut):
			legitimate[id] = ReasonPayrollConduit
		}
	}
	return legitimate
}

func payrollBalanced(totalIn, totalOut float64) bool {
	denom := totalIn
	if denom < legitimacyEpsilon {
		denom = legitimacyEpsilon
	}
	diff := totalIn - totalOut
	if diff < 0 {
		diff = -diff
	}
	return diff/denom < 0.15
}
