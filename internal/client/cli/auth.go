package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/client/guard"
	"github.com/dmitrijs2005/assignhub/internal/client/view"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) welcome(route guard.Route) {
	name := "there"
	if u := a.auth.Current(); u != nil {
		name = u.Username
	}
	fmt.Fprintf(a.out, "Welcome, %s! Type 'home' to open %s.\n", name, route)
}

// login signs in with a local username and password.
func (a *App) login(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}

	route, err := a.auth.LocalLogin(ctx, domain.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	a.welcome(route)
	return nil
}

func (a *App) discord(_ context.Context, _ []string) error {
	fmt.Fprintln(a.out, "Open this link in your browser to sign in with Discord:")
	fmt.Fprintln(a.out, "  "+a.auth.OAuthURL())
	fmt.Fprintln(a.out, "Then paste the code you are given: oauth <code>")
	return nil
}

func (a *App) oauth(ctx context.Context, args []string) error {
	route, err := a.auth.CompleteOAuth(ctx, args[0])
	if err != nil {
		return err
	}
	a.welcome(route)
	return nil
}

// register walks through the helper registration form. The form is only
// offered while the backend reports registration as open.
func (a *App) register(ctx context.Context, _ []string) error {
	status, err := a.auth.RegistrationOpen(ctx)
	if err != nil {
		return err
	}
	if !status.IsOpen {
		msg := status.Message
		if msg == "" {
			msg = "Helper registration is currently closed."
		}
		fmt.Fprintln(a.out, msg)
		return nil
	}

	var form domain.HelperRegistration

	if form.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Email (optional)", a.out); err != nil {
		return err
	}
	if form.Password, err = getPassword(a.out, "Password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = getPassword(a.out, "Confirm password"); err != nil {
		return err
	}

	region, err := GetChoice(a.reader, "Region", []string{string(domain.RegionLocal), string(domain.RegionForeign)}, "", a.out)
	if err != nil {
		return err
	}
	form.Region = domain.Region(region)

	if err := a.payoutDestination(&form); err != nil {
		return err
	}

	if cats, err := a.assignments.Categories(ctx); err == nil {
		fmt.Fprintln(a.out, "Categories:", strings.Join(cats.Names(), ", "))
	} else {
		a.log.Debug(ctx, "categories unavailable", "error", err)
	}
	if form.SpecializedCategories, err = GetList(a.reader, fmt.Sprintf("Pick at least %d categories", domain.MinSpecializedCategories), a.out); err != nil {
		return err
	}

	route, err := a.auth.RegisterHelper(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registration complete.")
	a.welcome(route)
	return nil
}

func (a *App) payoutDestination(form *domain.HelperRegistration) error {
	var err error
	p := &form.PayoutDestination

	if form.Region == domain.RegionLocal {
		if p.AccountNumber, err = getSimpleText(a.reader, "Account number", a.out); err != nil {
			return err
		}
		p.AccountName, err = getSimpleText(a.reader, "Account name", a.out)
		return err
	}

	wallets := []string{string(domain.WalletPayPal), string(domain.WalletCashApp), string(domain.WalletCrypto)}
	wallet, err := GetChoice(a.reader, "Wallet type", wallets, "", a.out)
	if err != nil {
		return err
	}
	p.WalletType = domain.WalletType(wallet)

	switch p.WalletType {
	case domain.WalletPayPal:
		p.PaypalEmail, err = getSimpleText(a.reader, "PayPal email", a.out)
	case domain.WalletCashApp:
		p.CashAppTag, err = getSimpleText(a.reader, "CashApp tag", a.out)
	case domain.WalletCrypto:
		if p.CryptoWalletAddress, err = getSimpleText(a.reader, "Wallet address", a.out); err != nil {
			return err
		}
		p.CryptoNetwork, err = GetChoice(a.reader, "Network", domain.CryptoNetworks, "", a.out)
	}
	return err
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// whoami re-reads the identity from the backend when signed in.
func (a *App) whoami(ctx context.Context, _ []string) error {
	if a.auth.Current() == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	u, err := a.auth.RefreshIdentity(ctx)
	if err != nil {
		return err
	}
	return view.User(a.out, u)
}

// home opens the dashboard the header link points at.
func (a *App) home(ctx context.Context, _ []string) error {
	target := guard.Home(a.auth.Current())
	if target == guard.Login {
		fmt.Fprintln(a.out, "Please sign in first (login or discord).")
		return nil
	}
	if d := a.navigate(target); d.Kind != guard.Allow {
		fmt.Fprintln(a.out, "Your account is not active. Contact an administrator.")
		return nil
	}
	return a.dashboard(ctx, target)
}

func (a *App) dashboard(ctx context.Context, target guard.Route) error {
	switch target {
	case guard.AdminDashboard:
		if err := a.finance(ctx, nil); err != nil {
			return err
		}
		if err := a.registration(ctx, nil); err != nil {
			return err
		}
		return a.adminAssignments(ctx, nil)
	case guard.HelperDashboard:
		if err := a.available(ctx, nil); err != nil {
			return err
		}
		return a.mine(ctx, nil)
	default:
		return a.owned(ctx, nil)
	}
}
