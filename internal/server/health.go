package server

import (
	"context"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/service"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// PipelineHealthService verifies the detection pipeline end to end by
// running it over a tiny fixed dataset.
type PipelineHealthService struct {
	Analyzer service.Analyzer
}

// Probe implements the HealthService interface.
func (s PipelineHealthService) Probe(ctx context.Context) error {
	if s.Analyzer == nil {
		return nil
	}
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "PROBE_1", SenderID: "P_A", ReceiverID: "P_B", Amount: 100, Timestamp: base},
		{ID: "PROBE_2", SenderID: "P_B", ReceiverID: "P_C", Amount: 90, Timestamp: base.Add(time.Hour)},
	}
	_, err := s.Analyzer.Run(ctx, txs)
	return err
}
