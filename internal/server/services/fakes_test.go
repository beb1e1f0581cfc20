package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/models"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/assignments"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/payouts"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/settings"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	users.Repository
	byID    map[string]*models.User
	created []*models.User
	roles   map[string]domain.Roles
	active  map[string]bool
	deleted []string
	err     error
}

func newFakeUsersRepo(list ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}, roles: map[string]domain.Roles{}, active: map[string]bool{}}
	for _, u := range list {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, err := f.find(func(x *models.User) bool { return x.Username == u.Username }); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "u-new"
	f.byID[u.ID] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, name string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == name })
}

func (f *fakeUsersRepo) GetByDiscordID(ctx context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.DiscordID == id })
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsersRepo) UpdateRoles(ctx context.Context, id string, roles domain.Roles) error {
	f.roles[id] = roles
	return nil
}

func (f *fakeUsersRepo) SetActive(ctx context.Context, id string, active bool) error {
	f.active[id] = active
	return nil
}

func (f *fakeUsersRepo) UpdateDiscordProfile(ctx context.Context, id, avatarURL, email string) error {
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

// --- assignments ---

type fakeAssignmentsRepo struct {
	assignments.Repository
	byID       map[string]domain.Assignment
	updates    int
	filter     assignments.Filter
	overdue    []string
	summary    *domain.FinancialSummary
	summaryHit int
}

func newFakeAssignmentsRepo(list ...domain.Assignment) *fakeAssignmentsRepo {
	f := &fakeAssignmentsRepo{byID: map[string]domain.Assignment{}}
	for _, a := range list {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAssignmentsRepo) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	a.ID = "a-new"
	f.byID[a.ID] = *a
	return a, nil
}

func (f *fakeAssignmentsRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (f *fakeAssignmentsRepo) GetForUpdate(ctx context.Context, id string) (*domain.Assignment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAssignmentsRepo) List(ctx context.Context, flt assignments.Filter) ([]domain.Assignment, error) {
	f.filter = flt
	out := make([]domain.Assignment, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssignmentsRepo) ListOverdue(ctx context.Context, now time.Time) ([]string, error) {
	return f.overdue, nil
}

func (f *fakeAssignmentsRepo) Update(ctx context.Context, a *domain.Assignment) error {
	f.updates++
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAssignmentsRepo) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	f.summaryHit++
	cp := *f.summary
	return &cp, nil
}

// --- settings / payouts ---

type fakeSettingsRepo struct {
	settings.Repository
	values map[string][]byte
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeSettingsRepo) Set(ctx context.Context, key string, value []byte) error {
	if f.values == nil {
		f.values = map[string][]byte{}
	}
	f.values[key] = value
	return nil
}

type fakePayoutsRepo struct {
	payouts.Repository
	created []models.Payout
}

func (f *fakePayoutsRepo) Create(ctx context.Context, p *models.Payout) error {
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePayoutsRepo) List(ctx context.Context) ([]models.Payout, error) {
	return f.created, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAssignmentsRepo
	s *fakeSettingsRepo
	p *fakePayoutsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		a: newFakeAssignmentsRepo(),
		s: &fakeSettingsRepo{},
		p: &fakePayoutsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Assignments(dbx.DBTX) assignments.Repository  { return m.a }
func (m *fakeRepoManager) Settings(dbx.DBTX) settings.Repository        { return m.s }
func (m *fakeRepoManager) Payouts(dbx.DBTX) payouts.Repository          { return m.p }

// --- storage / events ---

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) Put(ctx context.Context, key, contentType string, body io.ReadSeeker) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *fakeStorage) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://s3.example/" + key + "?sig=1", nil
}

type publishedEvent struct {
	assignment domain.Assignment
	prev       domain.Status
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) StatusChanged(ctx context.Context, a domain.Assignment, prev domain.Status) error {
	p.events = append(p.events, publishedEvent{assignment: a, prev: prev})
	return p.err
}

func (p *fakePublisher) Close() error { return nil }
