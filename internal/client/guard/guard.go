// Package guard decides whether the current identity may open a route and
// where to send it otherwise.
package guard

import (
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// Route is a client location such as "/admin-dashboard" or
// "/accept-assignment/123".
type Route string

const (
	Landing         Route = "/"
	Login           Route = "/login"
	LocalLogin      Route = "/local-login"
	RegisterHelper  Route = "/register-helper"
	AdminDashboard  Route = "/admin-dashboard"
	HelperDashboard Route = "/helper-dashboard"
	ClientDashboard Route = "/client-dashboard"
)

func AcceptAssignment(id string) Route { return Route("/accept-assignment/" + id) }
func ReviewAssignment(id string) Route { return Route("/review-assignment/" + id) }
func PayHelper(id string) Route        { return Route("/admin/pay-helper/" + id) }

// Kind is the outcome of a guard decision.
type Kind int

const (
	Allow Kind = iota
	RedirectLogin
	RedirectHome
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect to login"
	case RedirectHome:
		return "redirect home"
	default:
		return "unknown"
	}
}

// Decision is what Decide returns. Target is where to go when Kind is not
// Allow.
type Decision struct {
	Kind   Kind
	Target Route
}

type access int

const (
	public access = iota
	authenticated
	needAdmin
	needHelper
	needClient
)

type rule struct {
	prefix string
	exact  bool
	access access
}

var rules = []rule{
	{prefix: string(Landing), exact: true, access: authenticated},
	{prefix: string(Login), exact: true, access: public},
	{prefix: string(LocalLogin), exact: true, access: public},
	{prefix: string(RegisterHelper), exact: true, access: public},
	{prefix: string(AdminDashboard), exact: true, access: needAdmin},
	{prefix: string(HelperDashboard), exact: true, access: needHelper},
	{prefix: string(ClientDashboard), exact: true, access: needClient},
	{prefix: "/accept-assignment/", access: authenticated},
	{prefix: "/review-assignment/", access: authenticated},
	{prefix: "/admin/pay-helper/", access: needAdmin},
}

// Known reports whether route is one of the client's routes.
func Known(route Route) bool {
	_, ok := lookup(route)
	return ok
}

func lookup(route Route) (access, bool) {
	r := string(route)
	for _, rl := range rules {
		if rl.exact && r == rl.prefix {
			return rl.access, true
		}
		if !rl.exact && strings.HasPrefix(r, rl.prefix) && len(r) > len(rl.prefix) {
			return rl.access, true
		}
	}
	return authenticated, false
}

// Decide evaluates route for identity. A nil identity is a signed-out
// user. Unknown routes are treated as protected.
func Decide(identity *domain.User, route Route) Decision {
	acc, _ := lookup(route)

	if acc == public {
		if identity != nil && identity.IsActive && (identity.IsAdmin() || identity.IsHelper()) {
			return Decision{Kind: RedirectHome, Target: Home(identity)}
		}
		return Decision{Kind: Allow}
	}

	if identity == nil || !identity.IsActive {
		return Decision{Kind: RedirectLogin, Target: Login}
	}

	if route == Landing {
		switch {
		case identity.IsAdmin():
			return Decision{Kind: RedirectHome, Target: AdminDashboard}
		case identity.IsHelper():
			return Decision{Kind: RedirectHome, Target: HelperDashboard}
		}
		return Decision{Kind: RedirectLogin, Target: Login}
	}

	if !permits(identity, acc) {
		return Decision{Kind: RedirectLogin, Target: Login}
	}
	return Decision{Kind: Allow}
}

func permits(u *domain.User, acc access) bool {
	switch acc {
	case needAdmin:
		return u.IsAdmin()
	case needHelper:
		return u.IsHelper()
	case needClient:
		return u.Roles.Has(domain.RoleClient)
	default:
		return true
	}
}

// Home is the dashboard linked from the header: admin first, then helper,
// then client. Signed-out users go to the login page.
func Home(identity *domain.User) Route {
	switch {
	case identity == nil:
		return Login
	case identity.IsAdmin():
		return AdminDashboard
	case identity.IsHelper():
		return HelperDashboard
	case identity.Roles.Has(domain.RoleClient):
		return ClientDashboard
	default:
		return Login
	}
}
