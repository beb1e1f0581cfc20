package models

import "time"

// Payout records money sent to a helper outside the platform.
type Payout struct {
	ID            string
	AssignmentID  string
	HelperID      string
	Amount        float64
	TransactionID string
	Notes         string
	PaidAt        time.Time
}
