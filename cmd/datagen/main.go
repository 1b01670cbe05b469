package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		accounts     = flag.Int("normal-accounts", cfg.NormalAccounts, "number of background accounts")
		transactions = flag.Int("normal-transactions", cfg.NormalTransactions, "number of background transactions")
		output       = flag.String("output", "sample_transactions.csv", "path of the CSV file to write")
	)
	flag.Parse()

	genCfg := generator.Config{
		Seed:               *seed,
		BaseTime:           cfg.BaseTime,
		NormalAccounts:     *accounts,
		NormalTransactions: *transactions,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	txs, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := generator.WriteCSV(txs, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d transactions into %s\n", len(txs), *output)
}
