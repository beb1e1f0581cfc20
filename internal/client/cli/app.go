package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/client/client"
	"github.com/dmitrijs2005/assignhub/internal/client/config"
	"github.com/dmitrijs2005/assignhub/internal/client/guard"
	"github.com/dmitrijs2005/assignhub/internal/client/inflight"
	"github.com/dmitrijs2005/assignhub/internal/client/services"
	"github.com/dmitrijs2005/assignhub/internal/client/session"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	auth        services.AuthService
	assignments services.AssignmentService
	admin       services.AdminService
	reader      *bufio.Reader
	out         io.Writer
	log         logging.Logger
	db          *sql.DB
}

// NewApp opens the session database and wires the HTTP client and services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := session.NewStore(db)

	api, err := client.NewHTTPClient(c.ServerURL, store, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(api, store, log)

	return &App{
		config:      c,
		auth:        as,
		assignments: services.NewAssignmentService(api, as, log),
		admin:       services.NewAdminService(api, as, log),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		log:         log,
		db:          db,
	}, nil
}

// Run restores the stored session and blocks in the REPL until the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	s, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to restore session", "error", err)
	}

	fmt.Fprintln(a.out, "Welcome to assignhub (type 'help' for commands)")
	if s.State == session.StateAuthenticated && s.User != nil {
		fmt.Fprintf(a.out, "Signed in as %s. Type 'home' to open your dashboard.\n", s.User.Username)
	}

	runREPL(ctx, a, a.status, a.reader)
}

// status is the prompt label: "username (roles)" or "guest".
func (a *App) status() string {
	u := a.auth.Current()
	if u == nil {
		return "guest"
	}
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	if u.Admin && !u.Roles.Has(domain.RoleAdmin) {
		roles = append(roles, string(domain.RoleAdmin))
	}
	return fmt.Sprintf("%s (%s)", u.Username, strings.Join(roles, ", "))
}

func (a *App) navigate(route guard.Route) guard.Decision {
	return a.auth.Navigate(route)
}

func (a *App) signedIn() bool {
	return a.auth.Current() != nil
}

func (a *App) report(ctx context.Context, err error) {
	a.log.Debug(ctx, "command failed", "error", err)
	fmt.Fprintln(a.out, "Error:", userMessage(err))
}

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session is no longer valid. Please sign in again."
	case errors.Is(err, client.ErrUnavailable):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, inflight.ErrInFlight):
		return "That action is already in progress."
	case errors.Is(err, services.ErrLogoutPending):
		return "Sign-in was cancelled because you just logged out. Please start again."
	case errors.Is(err, services.ErrNotSignedIn):
		return "Please sign in first (login or discord)."
	}
	return err.Error()
}

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login", route: fixed(guard.LocalLogin), run: a.login},
		{name: "discord", usage: "discord", route: fixed(guard.Login), run: a.discord},
		{name: "oauth", usage: "oauth <code>", args: 1, route: fixed(guard.Login), run: a.oauth},
		{name: "register", usage: "register", route: fixed(guard.RegisterHelper), run: a.register},
		{name: "logout", usage: "logout", run: a.logout},
		{name: "whoami", usage: "whoami", run: a.whoami},
		{name: "home", usage: "home", run: a.home},

		{name: "available", usage: "available", route: fixed(guard.HelperDashboard), run: a.available},
		{name: "mine", usage: "mine", route: fixed(guard.HelperDashboard), run: a.mine},
		{name: "owned", usage: "owned", route: fixed(guard.ClientDashboard), run: a.owned},
		{name: "show", usage: "show <id>", args: 1, route: byID(guard.AcceptAssignment), run: a.show},
		{name: "accept", usage: "accept <id>", args: 1, route: byID(guard.AcceptAssignment), run: a.accept},
		{name: "submit", usage: "submit <id> <file...>", args: 2, route: fixed(guard.HelperDashboard), run: a.submit},
		{name: "review", usage: "review <id>", args: 1, route: byID(guard.ReviewAssignment), run: a.review},
		{name: "create", usage: "create", route: fixed(guard.ClientDashboard), run: a.create},
		{name: "suggest", usage: "suggest", route: fixed(guard.ClientDashboard), run: a.suggest},
		{name: "categories", usage: "categories", route: fixed(guard.ClientDashboard), run: a.categories},
		{name: "summarize", usage: "summarize <id> [fileUrl]", args: 1, route: byID(guard.ReviewAssignment), run: a.summarize},
		{name: "download", usage: "download <url> <path>", args: 2, route: byID(guard.ReviewAssignment), run: a.download},

		{name: "assignments", usage: "assignments", route: fixed(guard.AdminDashboard), run: a.adminAssignments},
		{name: "users", usage: "users", route: fixed(guard.AdminDashboard), run: a.users},
		{name: "user", usage: "user <id>", args: 1, route: fixed(guard.AdminDashboard), run: a.user},
		{name: "edituser", usage: "edituser <id>", args: 1, route: fixed(guard.AdminDashboard), run: a.editUser},
		{name: "deleteuser", usage: "deleteuser <id>", args: 1, route: fixed(guard.AdminDashboard), run: a.deleteUser},
		{name: "setpayout", usage: "setpayout <id> <amount>", args: 2, route: fixed(guard.AdminDashboard), run: a.setPayout},
		{name: "pay", usage: "pay <id>", args: 1, route: byID(guard.PayHelper), run: a.pay},
		{name: "finance", usage: "finance", route: fixed(guard.AdminDashboard), run: a.finance},
		{name: "registration", usage: "registration [open|close]", route: fixed(guard.AdminDashboard), run: a.registration},
		{name: "export", usage: "export <path>", args: 1, route: fixed(guard.AdminDashboard), run: a.export},
	}
}

// byID binds a parameterised route to the command's first argument. Help
// evaluates it without arguments.
func byID(route func(id string) guard.Route) func([]string) guard.Route {
	return func(args []string) guard.Route {
		id := ":id"
		if len(args) > 0 {
			id = args[0]
		}
		return route(id)
	}
}
