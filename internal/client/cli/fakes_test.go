package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/client/config"
	"github.com/dmitrijs2005/assignhub/internal/client/guard"
	"github.com/dmitrijs2005/assignhub/internal/client/session"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
)

type fakeAuth struct {
	current *domain.User

	loginCreds   domain.Credentials
	registration *domain.RegistrationStatus
	registered   *domain.HelperRegistration
	oauthCode    string
	loggedOut    bool
	err          error
}

func (f *fakeAuth) Restore(context.Context) (session.Session, error) { return session.Session{}, nil }
func (f *fakeAuth) Current() *domain.User                            { return f.current }
func (f *fakeAuth) LocalLogin(_ context.Context, c domain.Credentials) (guard.Route, error) {
	f.loginCreds = c
	if f.err != nil {
		return "", f.err
	}
	f.current = &domain.User{ID: "u1", Username: c.Username, IsActive: true, Roles: domain.Roles{domain.RoleHelper}}
	return guard.HelperDashboard, nil
}
func (f *fakeAuth) OAuthURL() string { return "http://api.test/auth/discord" }
func (f *fakeAuth) CompleteOAuth(_ context.Context, code string) (guard.Route, error) {
	f.oauthCode = code
	return guard.AdminDashboard, f.err
}
func (f *fakeAuth) RegistrationOpen(context.Context) (*domain.RegistrationStatus, error) {
	return f.registration, f.err
}
func (f *fakeAuth) RegisterHelper(_ context.Context, form domain.HelperRegistration) (guard.Route, error) {
	f.registered = &form
	return guard.HelperDashboard, f.err
}
func (f *fakeAuth) RefreshIdentity(context.Context) (*domain.User, error) { return f.current, f.err }
func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	f.current = nil
	return f.err
}
func (f *fakeAuth) Navigate(route guard.Route) guard.Decision      { return guard.Decide(f.current, route) }
func (f *fakeAuth) HandleError(_ context.Context, err error) error { return err }

type fakeAssignments struct {
	items      map[string]*domain.Assignment
	available  []domain.Assignment
	mine       []domain.Assignment
	owned      []domain.Assignment
	cats       catalog.Catalog
	created    *domain.NewAssignment
	accepted   []string
	submitted  []string
	reviews    []domain.Review
	downloaded string
	err        error
}

func (f *fakeAssignments) Get(_ context.Context, id string) (*domain.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[id], nil
}
func (f *fakeAssignments) ListAvailable(context.Context) ([]domain.Assignment, error) {
	return f.available, f.err
}
func (f *fakeAssignments) ListMine(context.Context) ([]domain.Assignment, error) { return f.mine, f.err }
func (f *fakeAssignments) ListOwned(context.Context) ([]domain.Assignment, error) {
	return f.owned, f.err
}
func (f *fakeAssignments) Create(_ context.Context, form domain.NewAssignment) (*domain.Assignment, error) {
	f.created = &form
	return &domain.Assignment{ID: "new", Title: form.Title, Category: form.Category, Status: domain.StatusPending}, f.err
}
func (f *fakeAssignments) Accept(_ context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	f.accepted = append(f.accepted, a.ID)
	out := *a
	out.Status = domain.StatusAccepted
	return &out, f.err
}
func (f *fakeAssignments) SubmitWork(_ context.Context, a *domain.Assignment, files []domain.FileUpload) (*domain.Assignment, error) {
	for _, fu := range files {
		b, _ := io.ReadAll(fu.Content)
		f.submitted = append(f.submitted, fu.Filename+"="+string(b))
	}
	return a, f.err
}
func (f *fakeAssignments) Review(_ context.Context, a *domain.Assignment, r domain.Review) (*domain.Assignment, error) {
	f.reviews = append(f.reviews, r)
	return a, f.err
}
func (f *fakeAssignments) SummarizeDescription(context.Context, string) (string, error) {
	return "short description summary", f.err
}
func (f *fakeAssignments) SummarizeDocument(_ context.Context, _, url string) (string, error) {
	return "summary of " + url, f.err
}
func (f *fakeAssignments) Categories(context.Context) (catalog.Catalog, error) { return f.cats, f.err }
func (f *fakeAssignments) SuggestCategory(_ context.Context, description string) (string, bool, error) {
	name, ok := catalog.Suggest(description, f.cats)
	return name, ok, f.err
}
func (f *fakeAssignments) Download(_ context.Context, url string, w io.Writer) error {
	f.downloaded = url
	_, err := io.WriteString(w, "file-bytes")
	return err
}

type fakeAdmin struct {
	users        []domain.User
	updated      map[string]domain.UserUpdate
	deleted      []string
	summary      domain.FinancialSummary
	registration domain.RegistrationStatus
	payouts      map[string]float64
	records      []domain.PayoutRecord
	err          error
}

func (f *fakeAdmin) Assignments(context.Context) ([]domain.Assignment, error) { return nil, f.err }
func (f *fakeAdmin) Users(context.Context) ([]domain.User, error)             { return f.users, f.err }
func (f *fakeAdmin) UpdateUser(_ context.Context, id string, upd domain.UserUpdate) error {
	if f.updated == nil {
		f.updated = map[string]domain.UserUpdate{}
	}
	f.updated[id] = upd
	return f.err
}
func (f *fakeAdmin) DeleteUser(_ context.Context, id string) (string, error) {
	f.deleted = append(f.deleted, id)
	return "User deleted successfully", f.err
}
func (f *fakeAdmin) FinancialSummary(context.Context) (*domain.FinancialSummary, error) {
	return &f.summary, f.err
}
func (f *fakeAdmin) RegistrationStatus(context.Context) (*domain.RegistrationStatus, error) {
	return &f.registration, f.err
}
func (f *fakeAdmin) SetRegistration(_ context.Context, open bool) (*domain.RegistrationStatus, error) {
	f.registration.IsOpen = open
	return &f.registration, f.err
}
func (f *fakeAdmin) SetPayout(_ context.Context, id string, amount float64) (*domain.Assignment, error) {
	if f.payouts == nil {
		f.payouts = map[string]float64{}
	}
	f.payouts[id] = amount
	return &domain.Assignment{ID: id, HelperPayout: domain.Float(amount)}, f.err
}
func (f *fakeAdmin) RecordPayout(_ context.Context, a *domain.Assignment, rec domain.PayoutRecord) (*domain.Assignment, error) {
	f.records = append(f.records, rec)
	out := *a
	out.Status = domain.StatusPaid
	return &out, f.err
}
func (f *fakeAdmin) ExportReport(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "xlsx")
	return err
}

type testApp struct {
	*App
	auth        *fakeAuth
	assignments *fakeAssignments
	admin       *fakeAdmin
	out         *bytes.Buffer
}

func newTestApp(user *domain.User, input ...string) *testApp {
	ta := &testApp{
		auth:        &fakeAuth{current: user},
		assignments: &fakeAssignments{items: map[string]*domain.Assignment{}},
		admin:       &fakeAdmin{},
		out:         &bytes.Buffer{},
	}
	ta.App = &App{
		config:      &config.Config{},
		auth:        ta.auth,
		assignments: ta.assignments,
		admin:       ta.admin,
		reader:      bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:         ta.out,
		log:         logging.New(io.Discard, logging.FormatText, false),
	}
	return ta
}
