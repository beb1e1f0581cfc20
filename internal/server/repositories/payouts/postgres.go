// Package payouts records helper payouts made outside the platform.
package payouts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Payout) error {
	query :=
		`INSERT INTO payouts (assignment_id, helper_id, amount, transaction_id, notes, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	helper := sql.NullString{String: p.HelperID, Valid: p.HelperID != ""}
	err := r.db.QueryRowContext(ctx, query,
		p.AssignmentID, helper, p.Amount, p.TransactionID, p.Notes, p.PaidAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns every payout, most recent first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Payout, error) {
	query :=
		`SELECT id, assignment_id, COALESCE(helper_id::text, ''), amount, transaction_id, notes, paid_at
		 FROM payouts
		 ORDER BY paid_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Payout, 0)
	for rows.Next() {
		var p models.Payout
		if err := rows.Scan(&p.ID, &p.AssignmentID, &p.HelperID, &p.Amount, &p.TransactionID, &p.Notes, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
