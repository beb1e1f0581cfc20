package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/assignhub/internal/client/view"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/filex"
)

func (a *App) adminAssignments(ctx context.Context, args []string) error {
	return a.list("All assignments:", a.admin.Assignments)(ctx, args)
}

func (a *App) users(ctx context.Context, _ []string) error {
	list, err := a.admin.Users(ctx)
	if err != nil {
		return err
	}
	return view.Users(a.out, list)
}

func (a *App) findUser(ctx context.Context, id string) (*domain.User, error) {
	list, err := a.admin.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, common.ErrorNotFound)
}

func (a *App) user(ctx context.Context, args []string) error {
	u, err := a.findUser(ctx, args[0])
	if err != nil {
		return err
	}
	return view.User(a.out, u)
}

// editUser changes a user's roles and active flag. An empty roles answer
// keeps the current roles.
func (a *App) editUser(ctx context.Context, args []string) error {
	u, err := a.findUser(ctx, args[0])
	if err != nil {
		return err
	}
	if err := view.User(a.out, u); err != nil {
		return err
	}

	raw, err := GetList(a.reader, "Roles (client, helper, admin, requester; empty keeps current)", a.out)
	if err != nil {
		return err
	}
	roles := u.Roles
	if len(raw) > 0 {
		roles = domain.ParseRoles(raw)
	}

	current := "n"
	if u.IsActive {
		current = "y"
	}
	active, err := GetChoice(a.reader, "Active", []string{"y", "n"}, current, a.out)
	if err != nil {
		return err
	}

	if err := a.admin.UpdateUser(ctx, u.ID, domain.UserUpdate{Roles: roles, IsActive: active == "y"}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User updated.")
	return nil
}

func (a *App) deleteUser(ctx context.Context, args []string) error {
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete user %s? This cannot be undone", args[0]), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	msg, err := a.admin.DeleteUser(ctx, args[0])
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "User deleted."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) setPayout(ctx context.Context, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	updated, err := a.admin.SetPayout(ctx, args[0], amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Helper payout set to %s.\n", view.FormatCurrency(amount))
	return view.Assignment(a.out, updated)
}

// pay records that the helper was paid outside the platform.
func (a *App) pay(ctx context.Context, args []string) error {
	as, err := a.assignments.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if err := view.Assignment(a.out, as); err != nil {
		return err
	}

	var rec domain.PayoutRecord
	if rec.TransactionID, err = getSimpleText(a.reader, "Transaction ID", a.out); err != nil {
		return err
	}
	if rec.Notes, err = getSimpleText(a.reader, "Notes (optional)", a.out); err != nil {
		return err
	}

	updated, err := a.admin.RecordPayout(ctx, as, rec)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Payout recorded.")
	return view.Assignment(a.out, updated)
}

func (a *App) finance(ctx context.Context, _ []string) error {
	s, err := a.admin.FinancialSummary(ctx)
	if err != nil {
		return err
	}
	return view.RenderSummary(a.out, *s, view.Options{Color: a.config != nil && a.config.Color})
}

// registration shows the helper registration switch, or flips it when an
// argument is given.
func (a *App) registration(ctx context.Context, args []string) error {
	var (
		st  *domain.RegistrationStatus
		err error
	)
	switch {
	case len(args) == 0:
		st, err = a.admin.RegistrationStatus(ctx)
	case args[0] == "open":
		st, err = a.admin.SetRegistration(ctx, true)
	case args[0] == "close":
		st, err = a.admin.SetRegistration(ctx, false)
	default:
		return fmt.Errorf("unknown registration state %q, use open or close", args[0])
	}
	if err != nil {
		return err
	}

	state := "CLOSED"
	if st.IsOpen {
		state = "OPEN"
	}
	fmt.Fprintf(a.out, "Helper registration is %s.\n", state)
	if st.Message != "" {
		fmt.Fprintln(a.out, st.Message)
	}
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	err := filex.WriteFile(args[0], func(w io.Writer) error {
		return a.admin.ExportReport(ctx, w)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Report saved to", args[0])
	return nil
}
