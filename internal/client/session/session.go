// Package session persists the signed-in identity and bearer token of the
// interactive client.
//
// The session lives in the local SQLite store under three keys: the token,
// the cached user and a one-shot marker written on logout. The marker stops
// an OAuth callback that is still in flight from signing the user back in;
// it is read and removed in one step by ConsumeLogout.
//
// Two clients sharing one store race on login and logout. There is no
// cross-process coordination.
package session

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/assignhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

const (
	KeyToken      = "token"
	KeyUserData   = "userData"
	KeyLoggingOut = "isLoggingOutFlag"
)

// State tags what Load found in the store.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateLoggingOut
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging out"
	default:
		return "anonymous"
	}
}

// Session is a snapshot of the store. Token and User are set only when
// State is StateAuthenticated.
type Session struct {
	State State
	Token string
	User  *domain.User
}

// Store reads and writes the session through the metadata repository.
type Store struct {
	db      *sql.DB
	newRepo func(dbx.DBTX) metadata.Repository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
		newRepo: func(tx dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(tx)
		},
	}
}

// Load returns the stored session. A token without a parseable identity
// (or the other way round) is treated as corrupt: both keys are removed
// and the session is anonymous.
func (s *Store) Load(ctx context.Context) (Session, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (Session, error) {
		repo := s.newRepo(tx)

		flag, err := repo.Get(ctx, KeyLoggingOut)
		if err != nil {
			return Session{}, fmt.Errorf("read logout marker: %w", err)
		}
		token, err := repo.Get(ctx, KeyToken)
		if err != nil {
			return Session{}, fmt.Errorf("read token: %w", err)
		}
		raw, err := repo.Get(ctx, KeyUserData)
		if err != nil {
			return Session{}, fmt.Errorf("read user: %w", err)
		}

		empty := Session{State: StateAnonymous}
		if flag != nil {
			empty.State = StateLoggingOut
		}

		if len(token) == 0 && raw == nil {
			return empty, nil
		}

		user, perr := parseUser(raw)
		if len(token) == 0 || perr != nil {
			if err := repo.Delete(ctx, KeyToken, KeyUserData); err != nil {
				return Session{}, fmt.Errorf("drop corrupt session: %w", err)
			}
			return empty, nil
		}

		return Session{State: StateAuthenticated, Token: string(token), User: user}, nil
	})
}

func parseUser(raw []byte) (*domain.User, error) {
	if raw == nil {
		return nil, fmt.Errorf("no user data")
	}
	var u domain.User
	if err := domain.Decode(bytes.NewReader(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Save stores token and user together and clears any logout marker: an
// explicit sign-in supersedes an earlier logout.
func (s *Store) Save(ctx context.Context, token string, user *domain.User) error {
	if token == "" || user == nil || user.ID == "" {
		return fmt.Errorf("save session: token and user id are required")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		if err := repo.Set(ctx, KeyToken, []byte(token)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyUserData, raw); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyLoggingOut)
	})
}

// UpdateUser replaces the cached identity, keeping the token. It does
// nothing when nobody is signed in.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("update session: user id is required")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		token, err := repo.Get(ctx, KeyToken)
		if err != nil {
			return err
		}
		if len(token) == 0 {
			return nil
		}
		return repo.Set(ctx, KeyUserData, raw)
	})
}

// BeginLogout removes the token and identity and records the logout
// marker. Calling it again is harmless.
func (s *Store) BeginLogout(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		if err := repo.Set(ctx, KeyLoggingOut, []byte("true")); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyToken, KeyUserData)
	})
}

// ConsumeLogout reports whether a logout marker was set and removes it.
// It returns true at most once per logout.
func (s *Store) ConsumeLogout(ctx context.Context) (bool, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (bool, error) {
		repo := s.newRepo(tx)
		flag, err := repo.Get(ctx, KeyLoggingOut)
		if err != nil {
			return false, err
		}
		if flag == nil {
			return false, nil
		}
		if err := repo.Delete(ctx, KeyLoggingOut); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Clear drops the token and identity without recording a logout. Used when
// the backend rejects the token.
func (s *Store) Clear(ctx context.Context) error {
	return s.newRepo(s.db).Delete(ctx, KeyToken, KeyUserData)
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Store) Token(ctx context.Context) (string, error) {
	b, err := s.newRepo(s.db).Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
