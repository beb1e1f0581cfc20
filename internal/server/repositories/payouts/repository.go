package payouts

import (
	"context"

	"github.com/dmitrijs2005/assignhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Payout) error
	List(ctx context.Context) ([]models.Payout, error)
}
