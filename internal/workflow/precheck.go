package workflow

import "github.com/dmitrijs2005/assignhub/internal/domain"

// Precheck runs only the checks a client can make from its own cached data
// before sending a request: role membership, the active flag, payout
// presence, an empty helper slot, a transaction id and attached files.
// Status legality and ownership stay with the backend.
func Precheck(actor *domain.User, a *domain.Assignment, t Transition, in Input) error {
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
		if a != nil && !a.Helper.Empty() {
			return refuse(t, ErrAlreadyAssigned)
		}
		if a != nil && !a.PayoutSet() {
			return refuse(t, ErrPayoutNotSet)
		}
	case SubmitWork:
		if len(in.Files) == 0 {
			return refuse(t, ErrNoFiles)
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
	}
	return nil
}
