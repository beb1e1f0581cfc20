package domain

import (
	"errors"
	"time"
)

// Attachment is an uploaded file referenced by URL.
type Attachment struct {
	URL      string `json:"url" validate:"required"`
	Filename string `json:"filename"`
}

// Assignment is a unit of work posted by an owner and fulfilled by a helper.
type Assignment struct {
	ID                       string       `json:"_id" validate:"required"`
	Owner                    UserRef      `json:"ownerId"`
	Helper                   UserRef      `json:"helperId"`
	Title                    string       `json:"title"`
	Description              string       `json:"description"`
	Complexity               Complexity   `json:"complexity,omitempty"`
	Category                 string       `json:"category"`
	Deadline                 time.Time    `json:"deadline"`
	PaymentAmount            float64      `json:"paymentAmount" validate:"gte=0"`
	HelperPayout             *float64     `json:"adminDeterminedHelperPayout,omitempty"`
	Attachments              []Attachment `json:"attachments" validate:"dive"`
	CompletedWorkAttachments []Attachment `json:"completedWorkAttachments" validate:"dive"`
	Status                   Status       `json:"status" validate:"required,assignment_status"`
	ReviewNotes              string       `json:"reviewNotes,omitempty"`
	TransactionID            string       `json:"transactionId,omitempty"`
	CreatedAt                time.Time    `json:"createdAt"`
	UpdatedAt                time.Time    `json:"updatedAt"`
	CompletedAt              *time.Time   `json:"completedAt,omitempty"`
	PaidAt                   *time.Time   `json:"paidAt,omitempty"`
}

var (
	ErrHelperWhilePending = errors.New("pending assignment must not have a helper")
	ErrNonPositivePayout  = errors.New("helper payout must be greater than zero")
	ErrNonPositiveAmount  = errors.New("payment amount must be greater than zero")
)

// PayoutSet reports whether the admin has fixed a positive helper payout.
func (a *Assignment) PayoutSet() bool {
	return a.HelperPayout != nil && *a.HelperPayout > 0
}

// Payout returns the helper payout or 0 when it is not set.
func (a *Assignment) Payout() float64 {
	if a.HelperPayout == nil {
		return 0
	}
	return *a.HelperPayout
}

// Validate checks the structural invariants that hold in every state.
func (a *Assignment) Validate() error {
	if a.Status == StatusPending && !a.Helper.Empty() {
		return ErrHelperWhilePending
	}
	if a.HelperPayout != nil && *a.HelperPayout <= 0 {
		return ErrNonPositivePayout
	}
	if a.PaymentAmount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// Filenames returns the attachment filenames in order.
func Filenames(atts []Attachment) []string {
	out := make([]string, 0, len(atts))
	for _, a := range atts {
		out = append(out, a.Filename)
	}
	return out
}

func (a *Assignment) applyDefaults() {
	if a.Attachments == nil {
		a.Attachments = []Attachment{}
	}
	if a.CompletedWorkAttachments == nil {
		a.CompletedWorkAttachments = []Attachment{}
	}
}

// Float returns a pointer to v, for optional amounts.
func Float(v float64) *float64 {
	return &v
}
