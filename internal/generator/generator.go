package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/domain"
)

// Generator produces a synthetic transaction dataset with embedded
// fraud patterns alongside legitimate and random background activity.
type Generator struct {
	cfg  Config
	rand *rand.Rand
	next int
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = defaults.BaseTime
	}
	if cfg.NormalAccounts <= 0 {
		cfg.NormalAccounts = defaults.NormalAccounts
	}
	if cfg.NormalTransactions <= 0 {
		cfg.NormalTransactions = defaults.NormalTransactions
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaults.Seed
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
		next: 1,
	}
}

// Generate synthesises the full dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	add := func(sender, receiver string, amount float64, hours float64) {
		txs = append(txs, domain.Transaction{
			ID:         fmt.Sprintf("TX_%05d", g.next),
			SenderID:   sender,
			ReceiverID: receiver,
			Amount:     amount,
			Timestamp:  g.cfg.BaseTime.Add(time.Duration(hours * float64(time.Hour))),
		})
		g.next++
	}

	// Cycle ring: a tight 3-hop loop plus a second loop through a mule.
	add("ACC_A001", "ACC_A002", 5000, 0)
	add("ACC_A002", "ACC_A003", 4800, 2)
	add("ACC_A003", "ACC_A001", 4600, 5)
	add("ACC_A001", "ACC_A002", 3200, 24)
	add("ACC_A002", "ACC_A004", 3000, 26)
	add("ACC_A004", "ACC_A001", 2900, 30)

	// 4-hop cycle.
	add("ACC_B001", "ACC_B002", 8000, 1)
	add("ACC_B002", "ACC_B003", 7800, 3)
	add("ACC_B003", "ACC_B004", 7500, 6)
	add("ACC_B004", "ACC_B001", 7200, 10)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Smurfing fan-in: 14 senders into one aggregator.
	for i := 1; i <= 14; i++ {
		add(fmt.Sprintf("ACC_C%03d", i), "ACC_C_AGG", 500+float64(i)*10, float64(i)*0.5)
	}
	add("ACC_C_AGG", "ACC_C_OUT1", 3000, 20)
	add("ACC_C_AGG", "ACC_C_OUT2", 2800, 21)

	// Smurfing fan-out: one hub to 13 receivers.
	add("ACC_D_SRC", "ACC_D_HUB", 15000, 0)
	for i := 1; i <= 13; i++ {
		add("ACC_D_HUB", fmt.Sprintf("ACC_D%03d", i), 900+float64(i)*5, float64(i)*2)
	}

	// Shell network: three low-activity intermediaries.
	add("ACC_E_SRC", "ACC_E_SH1", 12000, 0)
	add("ACC_E_SH1", "ACC_E_SH2", 11800, 5)
	add("ACC_E_SH2", "ACC_E_SH3", 11600, 12)
	add("ACC_E_SH3", "ACC_E_DEST", 11400, 20)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Legitimate merchant: many customers in, very little out.
	for i := 1; i <= 21; i++ {
		add(fmt.Sprintf("ACC_CUST%03d", i), "ACC_MERCHANT", 50+float64(i)*5, float64(i))
	}
	add("ACC_MERCHANT", "ACC_SUPPLIER", 900, 100)

	// Legitimate payroll: one funding source dispersing to employees.
	add("ACC_EMPLOYER", "ACC_PAYROLL", 50000, 70)
	for i := 1; i <= 22; i++ {
		add("ACC_PAYROLL", fmt.Sprintf("ACC_EMP%03d", i), 2800+float64(g.rand.Intn(500)), 72)
	}

	// Background noise between normal accounts.
	normals := make([]string, g.cfg.NormalAccounts)
	for i := range normals {
		normals[i] = fmt.Sprintf("ACC_N%02d", i+1)
	}
	for i := 0; i < g.cfg.NormalTransactions; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sender := normals[g.rand.Intn(len(normals))]
		receiver := normals[g.rand.Intn(len(normals))]
		for receiver == sender {
			receiver = normals[g.rand.Intn(len(normals))]
		}
		add(sender, receiver, float64(100+g.rand.Intn(2901)), float64(i)*1.5)
	}

	return txs, nil
}
