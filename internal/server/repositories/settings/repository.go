package settings

import "context"

// Repository is a key/value store for runtime switches toggled by admins.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
