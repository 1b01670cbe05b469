package domain

// Pattern types carried by emitted fraud rings.
const (
	PatternCycle    = "cycle"
	PatternSmurfing = "smurfing"
	PatternShell    = "shell_network"
)

// Detected-pattern tags attached to suspicious accounts.
const (
	TagCycleLength3      = "cycle_length_3"
	TagCycleLength4      = "cycle_length_4"
	TagCycleLength5      = "cycle_length_5"
	TagTemporalBurst72h  = "temporal_burst_72h"
	TagTemporalBurstWeek = "temporal_burst_week"
	TagAmountDecay       = "amount_decay"
	TagFanInHub          = "fan_in_hub"
	TagFanOutHub         = "fan_out_hub"
	TagFanInContributor  = "fan_in_contributor"
	TagFanOutReceiver    = "fan_out_receiver"
	TagHighVelocity      = "high_velocity"
	TagShellChainMember  = "shell_chain_member"
)

// SuspiciousAccount is one scored account in the final report. Peripheral
// contributors and receivers carry pattern tags but no ring id.
type SuspiciousAccount struct {
	AccountID        string
	SuspicionScore   int
	RingID           *string
	DetectedPatterns []string
}

// FraudRing groups the accounts implicated in one detected pattern instance.
type FraudRing struct {
	RingID         string
	PatternType    string
	MemberAccounts []string
	RiskScore      int
	Evidence       RingEvidence
}

// RingEvidence carries the pattern-specific facts backing a ring. Only the
// fields relevant to the ring's pattern type are populated.
type RingEvidence struct {
	CycleLength    int
	SpanHours      float64
	AmountDecay    bool
	HubAccount     string
	Role           string
	PartnerCount   int
	WindowCount    int
	Path           []string
	ShellInteriors int
}
