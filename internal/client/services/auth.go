// Package services contains the application services behind the client
// commands: signing in and out, working with assignments and the admin
// console. Services run the cheap client-side checks, keep each action to a
// single outstanding request and re-fetch state after every mutation.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/assignhub/internal/client/client"
	"github.com/dmitrijs2005/assignhub/internal/client/guard"
	"github.com/dmitrijs2005/assignhub/internal/client/session"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
)

// SessionStore is the persistence the auth service needs.
type SessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, token string, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	BeginLogout(ctx context.Context) error
	ConsumeLogout(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// AuthService signs users in and out and answers guard questions for the
// current identity.
//
// Contract:
//   - Restore: load the stored session at start-up, dropping a pending
//     logout marker.
//   - LocalLogin / CompleteOAuth / RegisterHelper: authenticate, persist the
//     session and return the route to land on.
//   - Logout: forget the session and block a late OAuth callback.
//   - Navigate: run the guard for the cached identity.
//   - HandleError: drop the session when the backend rejects the token.
type AuthService interface {
	Restore(ctx context.Context) (session.Session, error)
	Current() *domain.User
	LocalLogin(ctx context.Context, creds domain.Credentials) (guard.Route, error)
	OAuthURL() string
	CompleteOAuth(ctx context.Context, code string) (guard.Route, error)
	RegistrationOpen(ctx context.Context) (*domain.RegistrationStatus, error)
	RegisterHelper(ctx context.Context, form domain.HelperRegistration) (guard.Route, error)
	RefreshIdentity(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
	Navigate(route guard.Route) guard.Decision
	HandleError(ctx context.Context, err error) error
}

type authService struct {
	client client.Client
	store  SessionStore
	log    logging.Logger

	mu      sync.RWMutex
	current *domain.User
}

// NewAuthService constructs an AuthService over the API client and the
// session store.
func NewAuthService(c client.Client, store SessionStore, log logging.Logger) AuthService {
	return &authService{client: c, store: store, log: log}
}

func (a *authService) setCurrent(u *domain.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = u
}

// Current returns the cached identity, nil when signed out. The copy is
// not refreshed on its own; see RefreshIdentity.
func (a *authService) Current() *domain.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *authService) Restore(ctx context.Context) (session.Session, error) {
	pending, err := a.store.ConsumeLogout(ctx)
	if err != nil {
		return session.Session{}, fmt.Errorf("read logout marker: %w", err)
	}
	if pending {
		a.log.Debug(ctx, "logout marker found, skipping re-authentication")
	}

	sess, err := a.store.Load(ctx)
	if err != nil {
		return session.Session{}, fmt.Errorf("load session: %w", err)
	}
	a.setCurrent(sess.User)
	return sess, nil
}

func (a *authService) signedIn(ctx context.Context, res *client.AuthResult) (guard.Route, error) {
	if err := a.store.Save(ctx, res.Token, res.User); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	a.setCurrent(res.User)
	a.log.Info(ctx, "signed in", "user", res.User.Username, "roles", res.User.Roles)
	return guard.Home(res.User), nil
}

func (a *authService) LocalLogin(ctx context.Context, creds domain.Credentials) (guard.Route, error) {
	if err := domain.Validate(creds); err != nil {
		return "", err
	}

	res, err := a.client.LocalLogin(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("login error: %w", err)
	}
	return a.signedIn(ctx, res)
}

func (a *authService) OAuthURL() string {
	return a.client.OAuthURL()
}

// CompleteOAuth exchanges an authorization code for a session unless a
// logout happened since the flow was started.
func (a *authService) CompleteOAuth(ctx context.Context, code string) (guard.Route, error) {
	pending, err := a.store.ConsumeLogout(ctx)
	if err != nil {
		return "", fmt.Errorf("read logout marker: %w", err)
	}
	if pending {
		return "", ErrLogoutPending
	}
	if code == "" {
		return "", domain.NewValidationError("code", "Authorization code is required.")
	}

	res, err := a.client.ExchangeDiscordCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange error: %w", err)
	}
	return a.signedIn(ctx, res)
}

func (a *authService) RegistrationOpen(ctx context.Context) (*domain.RegistrationStatus, error) {
	return a.client.RegistrationOpen(ctx)
}

func (a *authService) RegisterHelper(ctx context.Context, form domain.HelperRegistration) (guard.Route, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	res, err := a.client.RegisterHelper(ctx, form)
	if err != nil {
		return "", fmt.Errorf("registration error: %w", err)
	}
	return a.signedIn(ctx, res)
}

// RefreshIdentity re-reads the signed-in user from the backend so role or
// status changes made by an admin are seen without signing in again.
func (a *authService) RefreshIdentity(ctx context.Context) (*domain.User, error) {
	if a.Current() == nil {
		return nil, ErrNotSignedIn
	}

	u, err := a.client.Me(ctx)
	if err != nil {
		return nil, a.HandleError(ctx, err)
	}
	if err := a.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	a.setCurrent(u)
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.BeginLogout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.setCurrent(nil)
	return nil
}

func (a *authService) Navigate(route guard.Route) guard.Decision {
	return guard.Decide(a.Current(), route)
}

// HandleError returns err unchanged. When err says the token was rejected
// the stored session is dropped first, so the next guard check treats the
// user as signed out.
func (a *authService) HandleError(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	if cerr := a.store.Clear(ctx); cerr != nil {
		a.log.Error(ctx, "failed to clear session", "error", cerr)
	}
	a.setCurrent(nil)
	a.log.Warn(ctx, "session rejected by server, signed out")
	return err
}
