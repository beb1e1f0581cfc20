// Package workflow is the assignment status machine. It decides which
// transitions are legal from a status, who may perform them and what the
// assignment looks like afterwards.
//
// The client runs the cheap pre-checks before dispatching a request; the
// backend runs Check and Apply authoritatively inside a transaction.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// Transition is an action that moves an assignment through its lifecycle.
type Transition string

const (
	Accept     Transition = "accept"
	SubmitWork Transition = "submit_work"
	Approve    Transition = "approve"
	Reject     Transition = "reject"
	MarkPaid   Transition = "mark_paid"
	Cancel     Transition = "cancel"
	SetPayout  Transition = "set_payout"
	MarkDue    Transition = "mark_due"
)

var (
	ErrIllegalTransition    = errors.New("transition not allowed from current status")
	ErrForbidden            = errors.New("actor may not perform this transition")
	ErrPayoutNotSet         = errors.New("helper payout has not been set")
	ErrAlreadyAssigned      = errors.New("assignment already has a helper")
	ErrInactiveUser         = errors.New("account is inactive")
	ErrMissingTransactionID = errors.New("transaction id is required")
	ErrNoFiles              = errors.New("at least one file is required")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
)

// PreconditionError reports which transition was refused and why.
type PreconditionError struct {
	Transition Transition
	Err        error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Transition, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func refuse(t Transition, err error) error {
	return &PreconditionError{Transition: t, Err: err}
}

// Input carries the data some transitions need.
type Input struct {
	Files         []domain.Attachment
	Notes         string
	TransactionID string
	Payout        float64
}

// sources lists the statuses each status-changing transition may start from.
var sources = map[Transition][]domain.Status{
	Accept:     {domain.StatusPending},
	MarkDue:    {domain.StatusAccepted},
	SubmitWork: {domain.StatusAccepted, domain.StatusDue, domain.StatusCompleted},
	Approve:    {domain.StatusPendingClientReview},
	Reject:     {domain.StatusPendingClientReview},
	MarkPaid:   {domain.StatusReadyForPayout},
}

var targets = map[Transition]domain.Status{
	Accept:     domain.StatusAccepted,
	MarkDue:    domain.StatusDue,
	SubmitWork: domain.StatusPendingClientReview,
	Approve:    domain.StatusReadyForPayout,
	Reject:     domain.StatusAccepted,
	MarkPaid:   domain.StatusPaid,
	Cancel:     domain.StatusCancelled,
}

// Allowed reports whether t may start from status, ignoring the actor.
func Allowed(status domain.Status, t Transition) bool {
	switch t {
	case Cancel, SetPayout:
		return !status.Terminal()
	}
	for _, s := range sources[t] {
		if s == status {
			return true
		}
	}
	return false
}

// Target returns the status t leads to. SetPayout keeps the status.
func Target(t Transition) (domain.Status, bool) {
	s, ok := targets[t]
	return s, ok
}

// Available lists the transitions actor could perform on a right now.
func Available(actor *domain.User, a *domain.Assignment) []Transition {
	all := []Transition{Accept, SubmitWork, Approve, Reject, MarkPaid, SetPayout, Cancel}
	out := make([]Transition, 0, len(all))
	for _, t := range all {
		if Check(actor, a, t, Input{Files: []domain.Attachment{{}}, TransactionID: "-", Payout: 1}) == nil {
			out = append(out, t)
		}
	}
	return out
}

// Check validates that actor may perform t on a with the given input.
// A nil actor stands for the system (deadline passage).
func Check(actor *domain.User, a *domain.Assignment, t Transition, in Input) error {
	// mark-paid on an already paid assignment is an idempotent no-op
	if t == MarkPaid && a.Status == domain.StatusPaid {
		if actor == nil || !actor.IsAdmin() {
			return refuse(t, ErrForbidden)
		}
		return nil
	}

	if !Allowed(a.Status, t) {
		return refuse(t, fmt.Errorf("%w: %s", ErrIllegalTransition, a.Status))
	}

	if t == MarkDue {
		if actor != nil {
			return refuse(t, ErrForbidden)
		}
		return nil
	}

	if actor == nil {
		return refuse(t, ErrForbidden)
	}
	if !actor.IsActive {
		return refuse(t, ErrInactiveUser)
	}

	switch t {
	case Accept:
		if !actor.IsHelper() {
			return refuse(t, ErrForbidden)
		}
		if !a.Helper.Empty() {
			return refuse(t, ErrAlreadyAssigned)
		}
		if !a.PayoutSet() {
			return refuse(t, ErrPayoutNotSet)
		}

	case SubmitWork:
		if !a.Helper.Is(actor.ID) {
			return refuse(t, ErrForbidden)
		}
		if len(in.Files) == 0 {
			return refuse(t, ErrNoFiles)
		}

	case Approve, Reject:
		if !a.Owner.Is(actor.ID) {
			return refuse(t, ErrForbidden)
		}

	case MarkPaid:
		if !actor.IsAdmin() {
			return refuse(t, ErrForbidden)
		}
		if in.TransactionID == "" {
			return refuse(t, ErrMissingTransactionID)
		}

	case SetPayout:
		if !actor.IsAdmin() {
			return refuse(t, ErrForbidden)
		}
		if in.Payout <= 0 {
			return refuse(t, ErrInvalidAmount)
		}

	case Cancel:
		if !actor.IsAdmin() && !a.Owner.Is(actor.ID) {
			return refuse(t, ErrForbidden)
		}
	}

	return nil
}

// Apply checks t and returns the updated copy of a. The input assignment
// is not modified.
func Apply(actor *domain.User, a domain.Assignment, t Transition, in Input, now time.Time) (domain.Assignment, error) {
	if err := Check(actor, &a, t, in); err != nil {
		return a, err
	}

	if t == MarkPaid && a.Status == domain.StatusPaid {
		return a, nil
	}

	switch t {
	case Accept:
		a.Helper = domain.Ref(actor.ID)
	case SubmitWork:
		a.CompletedWorkAttachments = append([]domain.Attachment(nil), in.Files...)
		completed := now
		a.CompletedAt = &completed
	case Approve, Reject:
		a.ReviewNotes = in.Notes
	case MarkPaid:
		paid := now
		a.PaidAt = &paid
		a.TransactionID = in.TransactionID
	case SetPayout:
		a.HelperPayout = domain.Float(in.Payout)
	}

	if target, ok := Target(t); ok {
		a.Status = target
	}
	a.UpdatedAt = now
	return a, nil
}

// Overdue reports whether an accepted assignment is past its deadline and
// should move to due.
func Overdue(a *domain.Assignment, now time.Time) bool {
	return a.Status == domain.StatusAccepted && !a.Deadline.IsZero() && now.After(a.Deadline)
}
