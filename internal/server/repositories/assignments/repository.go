package assignments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// Filter narrows List. Zero values do not filter.
type Filter struct {
	Status     domain.Status
	OwnerID    string
	HelperID   string
	Unassigned bool
}

type Repository interface {
	Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	// GetForUpdate is GetByID that also locks the row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Assignment, error)
	List(ctx context.Context, f Filter) ([]domain.Assignment, error)
	ListOverdue(ctx context.Context, now time.Time) ([]string, error)
	Update(ctx context.Context, a *domain.Assignment) error
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
}
