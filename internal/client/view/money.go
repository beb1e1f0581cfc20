// Package view renders client data for the terminal: currency, the
// financial summary, and assignment and user tables.
package view

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

var printer = message.NewPrinter(language.English)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// FormatCurrency renders amount with two decimals and thousands grouping,
// e.g. -1234.5 becomes "-$1,234.50".
func FormatCurrency(amount float64) string {
	cents := math.Round(amount * 100)
	sign := ""
	if cents < 0 {
		sign = "-"
	}
	return sign + printer.Sprintf("$%.2f", math.Abs(cents)/100)
}

// negative reports whether amount is below zero once rounded to cents.
func negative(amount float64) bool {
	return math.Round(amount*100) < 0
}

// Options controls terminal-specific rendering.
type Options struct {
	Color bool
}

// RenderSummary prints the three backend aggregates. Profit is shown as
// reported; a negative value is marked as a loss.
func RenderSummary(w io.Writer, s domain.FinancialSummary, opts Options) error {
	profit := FormatCurrency(s.PlatformProfit)
	if negative(s.PlatformProfit) {
		profit += "  LOSS"
		if opts.Color {
			profit = ansiRed + profit + ansiReset
		}
	}

	_, err := fmt.Fprintf(w,
		"Financial summary\n  Total client payments: %s\n  Total helper payouts:  %s\n  Platform profit:       %s\n",
		FormatCurrency(s.TotalClientPayments),
		FormatCurrency(s.TotalHelperPayouts),
		profit,
	)
	return err
}
