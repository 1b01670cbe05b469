package engine

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/ringtrace/backend/internal/detect"
	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/graph"
	"github.com/vanshika/ringtrace/backend/internal/report"
	"github.com/vanshika/ringtrace/backend/internal/ring"
)

// Soft upper bound on transactions per run; larger batches are
// processed but logged.
const softTransactionLimit = 10000

// Engine runs the full detection pipeline over one transaction batch.
// Each run is a pure function of its input modulo analysis id and
// processing time.
type Engine struct {
	logger *slog.Logger
	nowFn  func() time.Time
	newID  func() string
}

// New constructs an Engine with the default clock and id generator.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger,
		nowFn:  time.Now,
		newID:  uuid.NewString,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (e *Engine) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		e.nowFn = nowFn
	}
}

// WithIDGenerator overrides the analysis id generator (used primarily in tests).
func (e *Engine) WithIDGenerator(newID func() string) {
	if newID != nil {
		e.newID = newID
	}
}

// Run executes the pipeline: graph construction, legitimacy filtering,
// the three detectors, ring consolidation, and payload assembly. The
// context is checked between stages; detector budgets bound the rest.
func (e *Engine) Run(ctx context.Context, txs []domain.Transaction) (report.Report, error) {
	start := e.nowFn()

	if len(txs) > softTransactionLimit {
		e.logger.Warn("transaction batch exceeds soft limit", "count", len(txs), "limit", softTransactionLimit)
	}

	g := graph.Build(txs)
	e.logger.Debug("graph built", "accounts", len(g.Accounts), "volume", g.TotalVolume)

	legitimate := detect.LegitimateAccounts(g)
	e.logger.Debug("legitimacy filter applied", "legitimate", len(legitimate))

	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}

	cycles := detect.DetectCycles(g, legitimate)
	smurfing := detect.DetectSmurfing(g, legitimate)
	shells := detect.DetectShellChains(g, legitimate)
	e.logger.Debug("detectors finished",
		"cycles", len(cycles), "smurfing_hits", len(smurfing), "shell_chains", len(shells))

	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}

	consolidated := ring.Consolidate(ring.Hits{
		Cycles:   cycles,
		Smurfing: smurfing,
		Shells:   shells,
	}, legitimate)

	accounts, rings := report.FromDomain(consolidated.Accounts, consolidated.Rings)
	payload := report.BuildPayload(g, txs, consolidated.Accounts)

	elapsed := e.nowFn().Sub(start).Seconds()
	result := report.Report{
		AnalysisID:         e.newID(),
		SuspiciousAccounts: accounts,
		FraudRings:         rings,
		Graph:              payload,
		Summary: report.Summary{
			TotalAccountsAnalyzed:     len(g.Accounts),
			TotalTransactions:         len(txs),
			SuspiciousAccountsFlagged: len(accounts),
			FraudRingsDetected:        len(rings),
			CyclesFound:               len(cycles),
			SmurfingHubsFound:         len(smurfing),
			ShellChainsFound:          len(shells),
			ProcessingTimeSeconds:     math.Round(elapsed*100) / 100,
		},
	}

	e.logger.Info("analysis complete",
		"analysis_id", result.AnalysisID,
		"accounts", result.Summary.TotalAccountsAnalyzed,
		"suspicious", result.Summary.SuspiciousAccountsFlagged,
		"rings", result.Summary.FraudRingsDetected,
	)

	return result, nil
}
