package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/server/config"
	"github.com/dmitrijs2005/assignhub/internal/server/services"
)

var (
	clientUser = &domain.User{ID: "c1", Username: "carl", Roles: domain.Roles{domain.RoleClient}, IsActive: true}
	helperUser = &domain.User{ID: "h1", Username: "hana", Roles: domain.Roles{domain.RoleHelper}, IsActive: true}
	adminUser  = &domain.User{ID: "ad", Username: "root", Roles: domain.Roles{domain.RoleAdmin}, Admin: true, IsActive: true}
)

type fakeUsers struct {
	UserService
	tokens   map[string]*domain.User
	loginErr error
	regErr   error
	gotRoles domain.Roles
	deleted  string
}

func (f *fakeUsers) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "inactive" {
		return nil, common.ErrInactiveUser
	}
	u, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return u, nil
}

func (f *fakeUsers) Login(ctx context.Context, creds domain.Credentials) (*services.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.AuthResult{Message: "ok", Token: "tok-" + creds.Username, User: clientUser}, nil
}

func (f *fakeUsers) RegisterHelper(ctx context.Context, form domain.HelperRegistration) (*services.AuthResult, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &services.AuthResult{Token: "tok", User: helperUser}, nil
}

func (f *fakeUsers) DiscordAuthURL(state string) (string, error) {
	return "https://discord.example/authorize?state=" + state, nil
}

func (f *fakeUsers) ExchangeDiscordCode(ctx context.Context, code string) (*services.AuthResult, error) {
	return &services.AuthResult{Token: "tok-" + code, User: clientUser}, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]domain.User, error) {
	return []domain.User{*clientUser, *helperUser}, nil
}

func (f *fakeUsers) UpdateRoles(ctx context.Context, actor *domain.User, id string, roles domain.Roles) error {
	f.gotRoles = roles
	return nil
}

func (f *fakeUsers) SetActive(ctx context.Context, actor *domain.User, id string, active bool) error {
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, actor *domain.User, id string) error {
	f.deleted = id
	return nil
}

type uploaded struct {
	name    string
	content string
}

type fakeAssignments struct {
	AssignmentService
	result    *domain.Assignment
	err       error
	gotForm   domain.NewAssignment
	gotFiles  []uploaded
	gotFilter services.ListFilter
	gotStatus domain.Status
	gotRecord domain.PayoutRecord
	gotAmount float64
	fileURL   string
}

func (f *fakeAssignments) Categories() catalog.Catalog {
	return catalog.Catalog{{Name: "Calculus", HandlerType: catalog.HandlerSTEM}}
}

func (f *fakeAssignments) read(files []services.File) {
	for _, file := range files {
		b, _ := io.ReadAll(file.Content)
		f.gotFiles = append(f.gotFiles, uploaded{name: file.Filename, content: string(b)})
	}
}

func (f *fakeAssignments) Create(ctx context.Context, actor *domain.User, form domain.NewAssignment, files []services.File) (*domain.Assignment, error) {
	f.gotForm = form
	f.read(files)
	return f.result, f.err
}

func (f *fakeAssignments) Get(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error) {
	return f.result, f.err
}

func (f *fakeAssignments) List(ctx context.Context, actor *domain.User, flt services.ListFilter) ([]domain.Assignment, error) {
	f.gotFilter = flt
	return nil, f.err
}

func (f *fakeAssignments) ListOwned(ctx context.Context, actor *domain.User) ([]domain.Assignment, error) {
	return []domain.Assignment{*f.result}, f.err
}

func (f *fakeAssignments) ListAll(ctx context.Context, status domain.Status) ([]domain.Assignment, error) {
	f.gotStatus = status
	return nil, f.err
}

func (f *fakeAssignments) Accept(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error) {
	return f.result, f.err
}

func (f *fakeAssignments) Complete(ctx context.Context, actor *domain.User, id string, files []services.File) (*domain.Assignment, error) {
	f.read(files)
	return f.result, f.err
}

func (f *fakeAssignments) Review(ctx context.Context, actor *domain.User, id string, r domain.Review) (*domain.Assignment, error) {
	return f.result, f.err
}

func (f *fakeAssignments) Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error) {
	return f.result, f.err
}

func (f *fakeAssignments) SetPayout(ctx context.Context, actor *domain.User, id string, amount float64) (*domain.Assignment, error) {
	f.gotAmount = amount
	return f.result, f.err
}

func (f *fakeAssignments) Pay(ctx context.Context, actor *domain.User, id string, rec domain.PayoutRecord) (*domain.Assignment, error) {
	f.gotRecord = rec
	return f.result, f.err
}

func (f *fakeAssignments) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	return &domain.FinancialSummary{TotalClientPayments: 10, TotalHelperPayouts: 6, PlatformProfit: 4}, f.err
}

func (f *fakeAssignments) SummarizeDescription(ctx context.Context, actor *domain.User, id string) (string, error) {
	return "short", f.err
}

func (f *fakeAssignments) SummarizeDocument(ctx context.Context, actor *domain.User, id, fileURL string) (string, error) {
	return "doc:" + fileURL, f.err
}

func (f *fakeAssignments) FileURL(ctx context.Context, key string) (string, error) {
	f.fileURL = key
	return "https://s3.example/" + key, nil
}

type fakeSettings struct {
	open bool
}

func (f *fakeSettings) HelperRegistration(ctx context.Context) (*domain.RegistrationStatus, error) {
	return &domain.RegistrationStatus{IsOpen: f.open}, nil
}

func (f *fakeSettings) SetHelperRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error) {
	f.open = open
	return &domain.RegistrationStatus{IsOpen: open}, nil
}

type fakeReports struct{}

func (fakeReports) WriteAssignments(ctx context.Context, w io.Writer) error {
	_, err := w.Write([]byte("PK-xlsx"))
	return err
}

type testServer struct {
	*httptest.Server
	users       *fakeUsers
	assignments *fakeAssignments
	settings    *fakeSettings
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := &fakeUsers{tokens: map[string]*domain.User{"client": clientUser, "helper": helperUser, "admin": adminUser}}
	as := &fakeAssignments{result: &domain.Assignment{ID: "a1", Title: "Essay", Status: domain.StatusPending}}
	st := &fakeSettings{open: true}

	cfg := &config.Config{RequestTimeout: 5 * time.Second, AllowedOrigins: []string{"*"}}
	srv := NewServer(cfg, logging.Discard(), users, as, st, fakeReports{})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, users: users, assignments: as, settings: st}
}

// noRedirect keeps redirects observable in tests.
func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
}
