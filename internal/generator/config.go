package generator

import "time"

// Config drives the synthetic dataset generator.
type Config struct {
	Seed               int64
	BaseTime           time.Time
	NormalAccounts     int
	NormalTransactions int
}

// DefaultConfig returns baseline settings whose output exercises every
// detector: two cycle rings, a fan-in and a fan-out hub, a shell chain,
// a merchant, a payroll account, and background noise.
func DefaultConfig() Config {
	return Config{
		Seed:               42,
		BaseTime:           time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
		NormalAccounts:     15,
		NormalTransactions: 35,
	}
}
