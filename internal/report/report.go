package report

import (
	"math"

	"github.com/vanshika/ringtrace/backend/internal/domain"
)

// SuspiciousAccount is the wire form of a scored account.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   int      `json:"suspicion_score"`
	RingID           *string  `json:"ring_id"`
	DetectedPatterns []string `json:"detected_patterns"`
}

// FraudRing is the wire form of a consolidated ring.
type FraudRing struct {
	RingID         string       `json:"ring_id"`
	PatternType    string       `json:"pattern_type"`
	MemberAccounts []string     `json:"member_accounts"`
	RiskScore      int          `json:"risk_score"`
	Evidence       RingEvidence `json:"evidence"`
}

// RingEvidence carries the pattern-specific facts backing a ring.
type RingEvidence struct {
	CycleLength    int      `json:"cycle_length,omitempty"`
	SpanHours      float64  `json:"span_hours,omitempty"`
	AmountDecay    bool     `json:"amount_decay,omitempty"`
	HubAccount     string   `json:"hub_account,omitempty"`
	Role           string   `json:"role,omitempty"`
	PartnerCount   int      `json:"partner_count,omitempty"`
	WindowCount    int      `json:"window_count,omitempty"`
	Path           []string `json:"path,omitempty"`
	ShellInteriors int      `json:"shell_interiors,omitempty"`
}

// Summary aggregates run-level counters.
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	TotalTransactions         int     `json:"total_transactions"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	CyclesFound               int     `json:"cycles_found"`
	SmurfingHubsFound         int     `json:"smurfing_hubs_found"`
	ShellChainsFound          int     `json:"shell_chains_found"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// Report is the serialisable result of one analysis run.
type Report struct {
	AnalysisID         string              `json:"analysis_id"`
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	Graph              Payload             `json:"graph"`
	Summary            Summary             `json:"summary"`
}

// FromDomain converts consolidated domain results into wire form.
func FromDomain(accounts []domain.SuspiciousAccount, rings []domain.FraudRing) ([]SuspiciousAccount, []FraudRing) {
	outAccounts := make([]SuspiciousAccount, 0, len(accounts))
	for _, acc := range accounts {
		outAccounts = append(outAccounts, SuspiciousAccount{
			AccountID:        acc.AccountID,
			SuspicionScore:   acc.SuspicionScore,
			RingID:           acc.RingID,
			DetectedPatterns: acc.DetectedPatterns,
		})
	}

	outRings := make([]FraudRing, 0, len(rings))
	for _, r := range rings {
		outRings = append(outRings, FraudRing{
			RingID:         r.RingID,
			PatternType:    r.PatternType,
			MemberAccounts: r.MemberAccounts,
			RiskScore:      r.RiskScore,
			Evidence: RingEvidence{
				CycleLength:    r.Evidence.CycleLength,
				SpanHours:      roundHours(r.Evidence.SpanHours),
				AmountDecay:    r.Evidence.AmountDecay,
				HubAccount:     r.Evidence.HubAccount,
				Role:           r.Evidence.Role,
				PartnerCount:   r.Evidence.PartnerCount,
				WindowCount:    r.Evidence.WindowCount,
				Path:           r.Evidence.Path,
				ShellInteriors: r.Evidence.ShellInteriors,
			},
		})
	}

	return outAccounts, outRings
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
