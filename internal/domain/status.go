package domain

import "strings"

// Status is the lifecycle state of an assignment.
type Status string

const (
	StatusPending             Status = "pending"
	StatusAccepted            Status = "accepted"
	StatusDue                 Status = "due"
	StatusCompleted           Status = "completed"
	StatusPendingClientReview Status = "pending_client_review"
	StatusReadyForPayout      Status = "ready_for_payout"
	StatusPaid                Status = "paid"
	StatusCancelled           Status = "cancelled"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusDue,
	StatusCompleted,
	StatusPendingClientReview,
	StatusReadyForPayout,
	StatusPaid,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Label renders s for humans: "pending_client_review" -> "Pending Client Review".
func (s Status) Label() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Complexity is the owner's estimate of how hard an assignment is.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

func (c Complexity) Valid() bool {
	return c == ComplexityLow || c == ComplexityMedium || c == ComplexityHigh
}
