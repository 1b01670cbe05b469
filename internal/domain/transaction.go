package domain

import "time"

// Transaction is a single validated money transfer between two accounts.
type Transaction struct {
	ID         string
	SenderID   string
	ReceiverID string
	Amount     float64
	Timestamp  time.Time
}
