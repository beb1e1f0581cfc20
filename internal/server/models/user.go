// Package models defines server-side records persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// User is the stored account: the public profile plus the local password
// hash, which never leaves the server.
type User struct {
	domain.User
	PasswordHash string
	CreatedAt    time.Time
}

// Public returns the profile as sent to clients.
func (u *User) Public() *domain.User {
	out := u.User
	if out.Roles == nil {
		out.Roles = domain.Roles{}
	}
	return &out
}
