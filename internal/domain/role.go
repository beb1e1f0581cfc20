package domain

// Role is a capability granted to a user. A user may hold several.
type Role string

const (
	RoleClient    Role = "client"
	RoleHelper    Role = "helper"
	RoleAdmin     Role = "admin"
	RoleRequester Role = "requester"
)

var knownRoles = []Role{RoleClient, RoleHelper, RoleAdmin, RoleRequester}

func (r Role) Valid() bool {
	for _, k := range knownRoles {
		if r == k {
			return true
		}
	}
	return false
}

// Roles is the set of roles held by a user.
type Roles []Role

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Normalize drops unknown and duplicate roles, keeping first-seen order.
// The result is never nil.
func (rs Roles) Normalize() Roles {
	out := make(Roles, 0, len(rs))
	for _, r := range rs {
		if !r.Valid() || out.Has(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseRoles builds a normalized Roles from raw strings.
func ParseRoles(raw []string) Roles {
	rs := make(Roles, 0, len(raw))
	for _, s := range raw {
		rs = append(rs, Role(s))
	}
	return rs.Normalize()
}

// AuthType records how an account signs in.
type AuthType string

const (
	AuthTypeDiscord AuthType = "discord"
	AuthTypeLocal   AuthType = "local"
)
