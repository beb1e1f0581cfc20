package users

import (
	"context"

	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateRoles(ctx context.Context, id string, roles domain.Roles) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdateDiscordProfile(ctx context.Context, id, avatarURL, email string) error
	Delete(ctx context.Context, id string) error
}
