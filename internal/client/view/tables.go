package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

const dateLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func payout(a *domain.Assignment) string {
	if !a.PayoutSet() {
		return "not set"
	}
	return FormatCurrency(a.Payout())
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Assignments prints one row per assignment.
func Assignments(w io.Writer, list []domain.Assignment) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No assignments.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tAMOUNT\tPAYOUT\tDEADLINE\tOWNER\tHELPER")
	for i := range list {
		a := &list[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Title, a.Category, a.Status.Label(),
			FormatCurrency(a.PaymentAmount), payout(a), date(a.Deadline),
			orDash(a.Owner.Name()), orDash(a.Helper.Name()),
		)
	}
	return tw.Flush()
}

// Assignment prints the detail view of a.
func Assignment(w io.Writer, a *domain.Assignment) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", a.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", a.Title)
	fmt.Fprintf(tw, "Category:\t%s\n", a.Category)
	if a.Complexity != "" {
		fmt.Fprintf(tw, "Complexity:\t%s\n", a.Complexity)
	}
	fmt.Fprintf(tw, "Status:\t%s\n", a.Status.Label())
	fmt.Fprintf(tw, "Deadline:\t%s\n", date(a.Deadline))
	fmt.Fprintf(tw, "Payment amount:\t%s\n", FormatCurrency(a.PaymentAmount))
	fmt.Fprintf(tw, "Helper payout:\t%s\n", payout(a))
	fmt.Fprintf(tw, "Owner:\t%s\n", orDash(a.Owner.Name()))
	fmt.Fprintf(tw, "Helper:\t%s\n", orDash(a.Helper.Name()))
	if a.ReviewNotes != "" {
		fmt.Fprintf(tw, "Review notes:\t%s\n", a.ReviewNotes)
	}
	if a.PaidAt != nil {
		fmt.Fprintf(tw, "Paid at:\t%s\n", date(*a.PaidAt))
		fmt.Fprintf(tw, "Transaction:\t%s\n", orDash(a.TransactionID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nDescription:\n%s\n", indent(a.Description)); err != nil {
		return err
	}
	if err := attachments(w, "Attachments", a.Attachments); err != nil {
		return err
	}
	return attachments(w, "Completed work", a.CompletedWorkAttachments)
}

func attachments(w io.Writer, title string, atts []domain.Attachment) error {
	if len(atts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s:\n", title); err != nil {
		return err
	}
	for _, at := range atts {
		if _, err := fmt.Fprintf(w, "  %s  %s\n", orDash(at.Filename), at.URL); err != nil {
			return err
		}
	}
	return nil
}

func indent(s string) string {
	if s == "" {
		return "  -"
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func active(u *domain.User) string {
	if u.IsActive {
		return "active"
	}
	return "inactive"
}

func roles(rs domain.Roles) string {
	if len(rs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

// Users prints the admin user table.
func Users(w io.Writer, list []domain.User) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No users.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLES\tAUTH\tSTATUS\tEARNINGS")
	for i := range list {
		u := &list[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, roles(u.Roles), orDash(string(u.AuthType)), active(u), FormatCurrency(u.TotalEarnings))
	}
	return tw.Flush()
}

// User prints one user including the payout destination.
func User(w io.Writer, u *domain.User) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(u.Email))
	fmt.Fprintf(tw, "Roles:\t%s\n", roles(u.Roles))
	fmt.Fprintf(tw, "Admin:\t%t\n", u.IsAdmin())
	fmt.Fprintf(tw, "Status:\t%s\n", active(u))
	fmt.Fprintf(tw, "Auth:\t%s\n", orDash(string(u.AuthType)))
	fmt.Fprintf(tw, "Total earnings:\t%s\n", FormatCurrency(u.TotalEarnings))
	if u.Region != "" {
		fmt.Fprintf(tw, "Region:\t%s\n", u.Region)
		fmt.Fprintf(tw, "Payout to:\t%s\n", destination(u))
	}
	return tw.Flush()
}

func destination(u *domain.User) string {
	p := u.PayoutDestination
	switch u.Region {
	case domain.RegionLocal:
		return fmt.Sprintf("%s (%s)", orDash(p.AccountNumber), orDash(p.AccountName))
	case domain.RegionForeign:
		switch p.WalletType {
		case domain.WalletPayPal:
			return "PayPal " + p.PaypalEmail
		case domain.WalletCashApp:
			return "CashApp " + p.CashAppTag
		case domain.WalletCrypto:
			return fmt.Sprintf("%s %s", p.CryptoNetwork, p.CryptoWalletAddress)
		}
	}
	return "-"
}
