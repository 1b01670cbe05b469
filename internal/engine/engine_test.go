package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/generator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnSampleDataset(t *testing.T) {
	txs, err := generator.New(generator.DefaultConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}

	eng := New(testLogger())
	eng.WithIDGenerator(func() string { return "analysis-fixed" })

	result, err := eng.Run(context.Background(), txs)
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	if result.AnalysisID != "analysis-fixed" {
		t.Fatalf("expected fixed analysis id, got %s", result.AnalysisID)
	}
	if result.Summary.TotalTransactions != len(txs) {
		t.Fatalf("expected %d transactions, got %d", len(txs), result.Summary.TotalTransactions)
	}
	if result.Summary.CyclesFound < 3 {
		t.Fatalf("expected at least 3 cycles in sample dataset, got %d", result.Summary.CyclesFound)
	}
	if result.Summary.SmurfingHubsFound < 2 {
		t.Fatalf("expected at least 2 smurfing hubs, got %d", result.Summary.SmurfingHubsFound)
	}
	if result.Summary.ShellChainsFound == 0 {
		t.Fatal("expected shell chains in sample dataset")
	}
	if result.Summary.SuspiciousAccountsFlagged != len(result.SuspiciousAccounts) {
		t.Fatal("summary flag count disagrees with account list")
	}
	if result.Summary.FraudRingsDetected != len(result.FraudRings) {
		t.Fatal("summary ring count disagrees with ring list")
	}
}

func TestRunFlagsPlantedRings(t *testing.T) {
	txs, err := generator.New(generator.DefaultConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}

	result, err := New(testLogger()).Run(context.Background(), txs)
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	flagged := make(map[string]bool)
	for _, acc := range result.SuspiciousAccounts {
		flagged[acc.AccountID] = true
	}
	for _, id := range []string{"ACC_A001", "ACC_A002", "ACC_A003", "ACC_B001", "ACC_C_AGG", "ACC_D_HUB"} {
		if !flagged[id] {
			t.Fatalf("expected %s to be flagged", id)
		}
	}

	// Ordinary merchant and payroll traffic must stay clean.
	for _, id := range []string{"ACC_MERCHANT", "ACC_PAYROLL"} {
		if flagged[id] {
			t.Fatalf("expected %s to stay unflagged", id)
		}
	}

	for i := 1; i < len(result.FraudRings); i++ {
		if result.FraudRings[i].RiskScore > result.FraudRings[i-1].RiskScore {
			t.Fatal("rings not sorted by descending risk")
		}
	}
	if len(result.FraudRings) > 0 && result.FraudRings[0].RingID != "R001" {
		t.Fatalf("expected dense ring ids starting at R001, got %s", result.FraudRings[0].RingID)
	}
}

func TestRunDeterministicScores(t *testing.T) {
	txs, err := generator.New(generator.DefaultConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}

	eng := New(testLogger())
	first, err := eng.Run(context.Background(), txs)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := eng.Run(context.Background(), txs)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first.SuspiciousAccounts) != len(second.SuspiciousAccounts) {
		t.Fatal("runs disagree on suspicious account count")
	}
	for i := range first.SuspiciousAccounts {
		a, b := first.SuspiciousAccounts[i], second.SuspiciousAccounts[i]
		if a.AccountID != b.AccountID || a.SuspicionScore != b.SuspicionScore {
			t.Fatalf("runs disagree at index %d: %v vs %v", i, a, b)
		}
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	txs, err := generator.New(generator.DefaultConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(testLogger()).Run(ctx, txs); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestRunProcessingTimeUsesClock(t *testing.T) {
	txs, err := generator.New(generator.DefaultConfig()).Generate(context.Background())
	if err != nil {
		t.Fatalf("failed to generate dataset: %v", err)
	}

	eng := New(testLogger())
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	eng.WithClock(func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(1234 * time.Millisecond)
	})

	result, err := eng.Run(context.Background(), txs)
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}
	if result.Summary.ProcessingTimeSeconds != 1.23 {
		t.Fatalf("expected processing time 1.23, got %v", result.Summary.ProcessingTimeSeconds)
	}
}
