package domain

import (
	"bytes"
	"encoding/json"
)

// Region decides which payout destination fields a helper must provide.
type Region string

const (
	RegionLocal   Region = "local"
	RegionForeign Region = "foreign"
)

// User is an account as the backend reports it.
type User struct {
	ID                    string   `json:"_id" validate:"required"`
	DiscordID             string   `json:"discordId,omitempty"`
	Username              string   `json:"username" validate:"required"`
	AvatarURL             string   `json:"avatarUrl,omitempty"`
	Email                 string   `json:"email,omitempty"`
	Roles                 Roles    `json:"roles"`
	Admin                 bool     `json:"isAdmin"`
	AuthType              AuthType `json:"authType,omitempty"`
	IsActive              bool     `json:"isActive"`
	TotalEarnings         float64  `json:"totalEarnings"`
	Region                Region   `json:"region,omitempty"`
	SpecializedCategories []string `json:"specializedCategories,omitempty"`

	PayoutDestination
}

// IsAdmin is true when the admin flag is set or the admin role is held.
func (u *User) IsAdmin() bool {
	return u.Admin || u.Roles.Has(RoleAdmin)
}

func (u *User) IsHelper() bool {
	return u.Roles.Has(RoleHelper)
}

func (u *User) applyDefaults() {
	if u.Roles == nil {
		u.Roles = Roles{}
	}
}

// UserRef points at a user. The backend sends either the bare id or the
// populated user object depending on the endpoint; null means "nobody".
type UserRef struct {
	ID   string
	User *User
}

// Ref builds a UserRef holding only an id.
func Ref(id string) UserRef {
	return UserRef{ID: id}
}

func (r UserRef) Empty() bool {
	return r.ID == ""
}

// Is reports whether r points at the user with the given id.
func (r UserRef) Is(id string) bool {
	return id != "" && r.ID == id
}

// Name returns the username when populated, otherwise the id.
func (r UserRef) Name() string {
	if r.User != nil && r.User.Username != "" {
		return r.User.Username
	}
	return r.ID
}

func (r *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = UserRef{}
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		return json.Unmarshal(b, &r.ID)
	default:
		var u User
		if err := json.Unmarshal(b, &u); err != nil {
			return err
		}
		u.applyDefaults()
		r.ID = u.ID
		r.User = &u
		return nil
	}
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.Empty():
		return []byte("null"), nil
	case r.User != nil:
		return json.Marshal(r.User)
	default:
		return json.Marshal(r.ID)
	}
}
