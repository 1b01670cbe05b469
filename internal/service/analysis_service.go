package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/generator"
	"github.com/vanshika/ringtrace/backend/internal/ingest"
	"github.com/vanshika/ringtrace/backend/internal/report"
)

// ErrNoValidRows is returned when every row of an upload was rejected.
var ErrNoValidRows = errors.New("no valid transactions in upload")

// Analyzer is the pipeline contract required by the analysis service.
type Analyzer interface {
	Run(ctx context.Context, txs []domain.Transaction) (report.Report, error)
}

// IngestStats summarises row-level ingest outcomes for API clients.
type IngestStats struct {
	Accepted int
	Skipped  int
	Errors   []string
}

// AnalysisService orchestrates ingest, the detection pipeline, and
// short-lived report retention for downloads.
type AnalysisService struct {
	analyzer Analyzer
	store    *reportStore
	logger   *slog.Logger
	nowFn    func() time.Time
}

// NewAnalysisService constructs an AnalysisService around the given analyzer.
func NewAnalysisService(analyzer Analyzer, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		analyzer: analyzer,
		store:    newReportStore(defaultStoreCapacity),
		logger:   logger,
		nowFn:    time.Now,
	}
}

// WithReportCapacity resizes the retained-report window.
func (s *AnalysisService) WithReportCapacity(capacity int) {
	if capacity > 0 {
		s.store = newReportStore(capacity)
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AnalysisService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// AnalyzeCSV decodes and parses an uploaded CSV, runs the pipeline over
// the surviving rows, and retains the report for download.
func (s *AnalysisService) AnalyzeCSV(ctx context.Context, data []byte) (report.Report, IngestStats, error) {
	text := ingest.DecodeUpload(data)
	parsed, err := ingest.ParseCSV(bytes.NewReader([]byte(text)))
	if err != nil {
		return report.Report{}, IngestStats{}, err
	}

	stats := IngestStats{
		Accepted: parsed.Accepted,
		Skipped:  parsed.Skipped,
		Errors:   parsed.Errors,
	}
	if parsed.Skipped > 0 {
		s.logger.Warn("rows skipped during ingest", "skipped", parsed.Skipped, "accepted", parsed.Accepted)
	}
	if len(parsed.Transactions) == 0 {
		return report.Report{}, stats, ErrNoValidRows
	}

	result, err := s.analyzer.Run(ctx, parsed.Transactions)
	if err != nil {
		return report.Report{}, stats, fmt.Errorf("running analysis: %w", err)
	}

	s.store.put(result)
	return result, stats, nil
}

// AnalyzeSample generates the built-in synthetic dataset and analyzes it.
func (s *AnalysisService) AnalyzeSample(ctx context.Context) (report.Report, error) {
	txs, err := generator.New(generator.DefaultConfig()).Generate(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("generating sample dataset: %w", err)
	}

	result, err := s.analyzer.Run(ctx, txs)
	if err != nil {
		return report.Report{}, fmt.Errorf("running analysis: %w", err)
	}

	s.store.put(result)
	return result, nil
}

// Report returns a previously produced report by analysis id.
func (s *AnalysisService) Report(id string) (report.Report, bool) {
	return s.store.get(id)
}
