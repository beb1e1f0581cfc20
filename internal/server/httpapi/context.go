package httpapi

import (
	"context"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

type ctxKey string

const userKey ctxKey = "user"

func contextWithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// userFromContext returns the authenticated user, or nil outside
// authenticated routes.
func userFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}
