// Package assignments persists assignments in PostgreSQL.
package assignments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

const selectAssignment = `SELECT a.id, a.owner_id, COALESCE(o.username, ''), a.helper_id, h.username,
		a.title, a.description, a.complexity, a.category, a.deadline, a.payment_amount, a.helper_payout,
		a.attachments, a.completed_work_attachments, a.status, a.review_notes, a.transaction_id,
		a.created_at, a.updated_at, a.completed_at, a.paid_at
	FROM assignments a
	LEFT JOIN users o ON o.id = a.owner_id
	LEFT JOIN users h ON h.id = a.helper_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ref builds a populated reference so clients can show the username.
func ref(id, username string) domain.UserRef {
	if id == "" {
		return domain.UserRef{}
	}
	r := domain.Ref(id)
	if username != "" {
		r.User = &domain.User{ID: id, Username: username, Roles: domain.Roles{}}
	}
	return r
}

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	var (
		a                      domain.Assignment
		ownerID, ownerName     string
		helperID, helperName   sql.NullString
		complexity, status     string
		payout                 sql.NullFloat64
		attachments, completed []byte
		completedAt, paidAt    sql.NullTime
	)
	err := row.Scan(&a.ID, &ownerID, &ownerName, &helperID, &helperName,
		&a.Title, &a.Description, &complexity, &a.Category, &a.Deadline, &a.PaymentAmount, &payout,
		&attachments, &completed, &status, &a.ReviewNotes, &a.TransactionID,
		&a.CreatedAt, &a.UpdatedAt, &completedAt, &paidAt)
	if err != nil {
		return nil, err
	}

	a.Owner = ref(ownerID, ownerName)
	a.Helper = ref(helperID.String, helperName.String)
	a.Complexity = domain.Complexity(complexity)
	a.Status = domain.Status(status)
	if payout.Valid {
		a.HelperPayout = domain.Float(payout.Float64)
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	if paidAt.Valid {
		t := paidAt.Time
		a.PaidAt = &t
	}
	if err := json.Unmarshal(attachments, &a.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	if err := json.Unmarshal(completed, &a.CompletedWorkAttachments); err != nil {
		return nil, fmt.Errorf("decode completed work: %w", err)
	}
	if a.Attachments == nil {
		a.Attachments = []domain.Attachment{}
	}
	if a.CompletedWorkAttachments == nil {
		a.CompletedWorkAttachments = []domain.Attachment{}
	}
	return &a, nil
}

func attachmentsJSON(atts []domain.Attachment) ([]byte, error) {
	if atts == nil {
		atts = []domain.Attachment{}
	}
	return json.Marshal(atts)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func (r *PostgresRepository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	atts, err := attachmentsJSON(a.Attachments)
	if err != nil {
		return nil, err
	}
	status := a.Status
	if status == "" {
		status = domain.StatusPending
	}

	query :=
		`INSERT INTO assignments (owner_id, title, description, complexity, category, deadline,
		   payment_amount, helper_payout, attachments, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		a.Owner.ID, a.Title, a.Description, string(a.Complexity), a.Category, a.Deadline,
		a.PaymentAmount, nullFloat(a.HelperPayout), atts, string(status)).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.Status = status
	if a.Attachments == nil {
		a.Attachments = []domain.Attachment{}
	}
	if a.CompletedWorkAttachments == nil {
		a.CompletedWorkAttachments = []domain.Attachment{}
	}
	return a, nil
}

func (r *PostgresRepository) get(ctx context.Context, id, suffix string) (*domain.Assignment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	a, err := scanAssignment(r.db.QueryRowContext(ctx, selectAssignment+" WHERE a.id = $1"+suffix, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	return r.get(ctx, id, "")
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*domain.Assignment, error) {
	return r.get(ctx, id, " FOR UPDATE OF a")
}

// List returns matching assignments, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]domain.Assignment, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("a.status = $%d", string(f.Status))
	}
	if f.OwnerID != "" {
		if _, err := uuid.Parse(f.OwnerID); err != nil {
			return []domain.Assignment{}, nil
		}
		add("a.owner_id = $%d", f.OwnerID)
	}
	if f.HelperID != "" {
		if _, err := uuid.Parse(f.HelperID); err != nil {
			return []domain.Assignment{}, nil
		}
		add("a.helper_id = $%d", f.HelperID)
	}
	if f.Unassigned {
		where = append(where, "a.helper_id IS NULL")
	}

	query := selectAssignment
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// ListOverdue returns the ids of accepted assignments whose deadline passed.
func (r *PostgresRepository) ListOverdue(ctx context.Context, now time.Time) ([]string, error) {
	query :=
		`SELECT id FROM assignments
		 WHERE status = $1 AND deadline < $2
		 ORDER BY deadline
		 `

	rows, err := r.db.QueryContext(ctx, query, string(domain.StatusAccepted), now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

// Update writes every field a transition may change.
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Assignment) error {
	completed, err := attachmentsJSON(a.CompletedWorkAttachments)
	if err != nil {
		return err
	}

	query :=
		`UPDATE assignments
		 SET helper_id = $2, helper_payout = $3, completed_work_attachments = $4, status = $5,
		     review_notes = $6, transaction_id = $7, updated_at = $8, completed_at = $9, paid_at = $10
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.ID, nullString(a.Helper.ID), nullFloat(a.HelperPayout), completed, string(a.Status),
		a.ReviewNotes, a.TransactionID, a.UpdatedAt, nullTime(a.CompletedAt), nullTime(a.PaidAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// FinancialSummary aggregates paid assignments: what clients paid, what
// helpers received and the difference.
func (r *PostgresRepository) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	query :=
		`SELECT COALESCE(SUM(payment_amount), 0),
		        COALESCE(SUM(helper_payout), 0),
		        COALESCE(SUM(payment_amount), 0) - COALESCE(SUM(helper_payout), 0)
		 FROM assignments
		 WHERE status = $1
		 `

	var s domain.FinancialSummary
	err := r.db.QueryRowContext(ctx, query, string(domain.StatusPaid)).
		Scan(&s.TotalClientPayments, &s.TotalHelperPayouts, &s.PlatformProfit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}
