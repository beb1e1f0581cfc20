package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/assignments"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/repomanager"
)

const (
	sheetAssignments = "Assignments"
	sheetPayouts     = "Payouts"
	sheetSummary     = "Summary"
)

var assignmentColumns = []any{
	"ID", "Title", "Category", "Complexity", "Status", "Owner", "Helper",
	"Deadline", "Payment", "Helper payout", "Transaction ID", "Created", "Paid",
}

// ReportService renders the admin spreadsheet export.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: m}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func assignmentRow(a domain.Assignment) []any {
	var payout any
	if a.PayoutSet() {
		payout = a.Payout()
	}
	return []any{
		a.ID, a.Title, a.Category, string(a.Complexity), a.Status.Label(), a.Owner.Name(), a.Helper.Name(),
		formatTime(&a.Deadline), a.PaymentAmount, payout, a.TransactionID, formatTime(&a.CreatedAt), formatTime(a.PaidAt),
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// WriteAssignments writes an xlsx workbook with every assignment, every
// recorded payout and the financial summary.
func (s *ReportService) WriteAssignments(ctx context.Context, w io.Writer) error {
	list, err := s.repomanager.Assignments(s.db).List(ctx, assignments.Filter{})
	if err != nil {
		return err
	}
	payouts, err := s.repomanager.Payouts(s.db).List(ctx)
	if err != nil {
		return err
	}
	sum, err := s.repomanager.Assignments(s.db).FinancialSummary(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetAssignments); err != nil {
		return err
	}
	if err := writeRow(f, sheetAssignments, 1, assignmentColumns); err != nil {
		return err
	}
	for i, a := range list {
		if err := writeRow(f, sheetAssignments, i+2, assignmentRow(a)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetPayouts); err != nil {
		return err
	}
	if err := writeRow(f, sheetPayouts, 1, []any{"Assignment ID", "Helper ID", "Amount", "Transaction ID", "Notes", "Paid"}); err != nil {
		return err
	}
	for i, p := range payouts {
		row := []any{p.AssignmentID, p.HelperID, p.Amount, p.TransactionID, p.Notes, formatTime(&p.PaidAt)}
		if err := writeRow(f, sheetPayouts, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	summary := [][]any{
		{"Total client payments", sum.TotalClientPayments},
		{"Total helper payouts", sum.TotalHelperPayouts},
		{"Platform profit", sum.PlatformProfit},
		{"Assignments", len(list)},
	}
	for i, row := range summary {
		if err := writeRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
