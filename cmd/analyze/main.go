package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/config"
	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/engine"
	"github.com/vanshika/ringtrace/backend/internal/ingest"
	"github.com/vanshika/ringtrace/backend/internal/logging"
	"github.com/vanshika/ringtrace/backend/internal/report"
	"github.com/vanshika/ringtrace/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		outputDir   = flag.String("output-dir", "reports", "directory to write report JSON files")
		workers     = flag.Int("workers", cfg.Analysis.Workers, "number of concurrent analyses for multiple inputs")
		writeStdout = flag.Bool("stdout", false, "write a single report to stdout instead of a file")
	)
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] <transactions.csv> [more.csv ...]")
		os.Exit(2)
	}

	// Logs go to stderr so -stdout report output stays clean.
	logger := logging.Component(logging.NewWithWriter(cfg.Logging, os.Stderr), "analyze")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	datasets := make([][]domain.Transaction, 0, len(paths))
	for _, path := range paths {
		txs, err := loadDataset(path)
		if err != nil {
			logger.Error("failed to load dataset", "error", err, "path", path)
			os.Exit(1)
		}
		if len(txs) == 0 {
			logger.Error("dataset contains no valid transactions", "path", path)
			os.Exit(1)
		}
		datasets = append(datasets, txs)
	}

	pipeline := engine.New(logger)
	start := time.Now()

	var reports []report.Report
	if len(datasets) == 1 {
		result, err := pipeline.Run(ctx, datasets[0])
		if err != nil {
			logger.Error("analysis failed", "error", err, "path", paths[0])
			os.Exit(1)
		}
		reports = []report.Report{result}
	} else {
		batch := service.NewBatchAnalyzer(pipeline, *workers)
		results, err := batch.AnalyzeAll(ctx, datasets)
		if err != nil {
			logger.Error("batch analysis finished with errors", "error", err)
		}
		reports = results
	}

	if *writeStdout {
		if len(reports) != 1 {
			logger.Error("stdout output requires exactly one input file")
			os.Exit(1)
		}
		if err := json.NewEncoder(os.Stdout).Encode(reports[0]); err != nil {
			logger.Error("failed to write report to stdout", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Error("failed to create output directory", "error", err, "dir", *outputDir)
		os.Exit(1)
	}

	written := 0
	for i, result := range reports {
		if result.AnalysisID == "" {
			continue
		}
		path := filepath.Join(*outputDir, "fraud_report_"+result.AnalysisID+".json")
		if err := writeReport(result, path); err != nil {
			logger.Error("failed to write report", "error", err, "path", path, "input", paths[i])
			os.Exit(1)
		}
		logger.Info("report written",
			"input", paths[i],
			"output", path,
			"suspicious_accounts", result.Summary.SuspiciousAccountsFlagged,
			"fraud_rings", result.Summary.FraudRingsDetected,
		)
		written++
	}

	logger.Info("analysis complete", "inputs", len(paths), "reports", written, "duration", time.Since(start).String())
}

func loadDataset(path string) ([]domain.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := ingest.DecodeUpload(data)
	parsed, err := ingest.ParseCSV(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, msg := range parsed.Errors {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, msg)
	}
	return parsed.Transactions, nil
}

func writeReport(result report.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
