package detect

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/graph"
)

func tx(id, sender, receiver string, amount float64, hours float64) domain.Transaction {
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	return domain.Transaction{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Amount:     amount,
		Timestamp:  base.Add(time.Duration(hours * float64(time.Hour))),
	}
}

func TestLegitimateAccounts_Merchant(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 12; i++ {
		txs = append(txs, tx(fmt.Sprintf("T%d", i), fmt.Sprintf("CUST_%02d", i), "MERCHANT", 100, float64(i)))
	}
	txs = append(txs, tx("T_OUT", "MERCHANT", "SUPPLIER", 200, 50))

	g := graph.Build(txs)
	legit := LegitimateAccounts(g)

	require.Equal(t, ReasonMerchant, legit["MERCHANT"])
	require.NotContains(t, legit, "CUST_00")
}

func TestLegitimateAccounts_PayrollDisburser(t *testing.T) {
	var txs []domain.Transaction
	txs = append(txs, tx("T_FUND", "EMPLOYER", "PAYROLL", 50000, 0))
	for i := 0; i < 15; i++ {
		txs = append(txs, tx(fmt.Sprintf("T%d", i), "PAYROLL", fmt.Sprintf("EMP_%02d", i), 3000, 2))
	}

	g := graph.Build(txs)
	legit := LegitimateAccounts(g)

	require.Equal(t, ReasonPayrollDisburser, legit["PAYROLL"])
}

func TestLegitimateAccounts_PayrollConduit(t *testing.T) {
	// Recurring payments to a handful of recipients: the unique out-degree
	// stays below the disburser bound while transaction counts and
	// balanced flow match the conduit shape.
	var txs []domain.Transaction
	txs = append(txs, tx("T_FUND", "SRC_A", "CONDUIT", 45000, 0))
	n := 0
	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 5; i++ {
			txs = append(txs, tx(fmt.Sprintf("T%d", n), "CONDUIT", fmt.Sprintf("EMP_%02d", i), 2950, float64(cycle*24+i)))
			n++
		}
	}

	g := graph.Build(txs)
	legit := LegitimateAccounts(g)

	require.Equal(t, ReasonPayrollConduit, legit["CONDUIT"])
}

func TestLegitimateAccounts_OrdinaryAccountNotFlagged(t *testing.T) {
	g := graph.Build([]domain.Transaction{
		tx("T1", "A", "B", 100, 0),
		tx("T2", "B", "C", 90, 1),
	})
	legit := LegitimateAccounts(g)

	require.Empty(t, legit)
}
