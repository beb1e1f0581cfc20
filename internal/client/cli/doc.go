// Package cli provides the interactive assignhub terminal client.
//
// It wires configuration, the local session store, the HTTP API client and
// the application services, then runs a REPL. The prompt shows the signed-in
// user as "username (roles)".
//
// Every command that stands for a page of the marketplace (a dashboard, the
// accept or review page, the pay-helper page) first asks the identity guard
// whether the current user may open it, and is refused otherwise.
//
// Command groups:
//   - Session: login, discord, oauth, register, logout, whoami, home
//   - Owners and helpers: available, mine, owned, show, accept, submit,
//     review, create, suggest, categories, summarize, download
//   - Admin: assignments, users, user, edituser, deleteuser, setpayout, pay,
//     finance, registration, export
//
// Errors are printed inline and never end the session. Nothing is retried.
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
