package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/client/client"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// fakeClient implements client.Client. Unset hooks return zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	loginFn     func(domain.Credentials) (*client.AuthResult, error)
	exchangeFn  func(code string) (*client.AuthResult, error)
	registerFn  func(domain.HelperRegistration) (*client.AuthResult, error)
	meFn        func() (*domain.User, error)
	getFn       func(id string) (*domain.Assignment, error)
	listFn      func(client.ListFilter) ([]domain.Assignment, error)
	acceptFn    func(id string) (string, error)
	submitFn    func(id string, files []domain.FileUpload) (string, error)
	reviewFn    func(id string, r domain.Review) (string, error)
	createFn    func(domain.NewAssignment) (*domain.Assignment, error)
	categories  catalog.Catalog
	rolesFn     func(id string, roles domain.Roles) error
	statusFn    func(id string, active bool) error
	setRegFn    func(open bool) (*domain.RegistrationStatus, error)
	regStatus   *domain.RegistrationStatus
	setPayoutFn func(id string, amount float64) (string, error)
	payFn       func(id string, rec domain.PayoutRecord) (string, error)
	summary     *domain.FinancialSummary
	summaryErr  error
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) LocalLogin(_ context.Context, creds domain.Credentials) (*client.AuthResult, error) {
	f.record("LocalLogin")
	if f.loginFn != nil {
		return f.loginFn(creds)
	}
	return nil, nil
}

func (f *fakeClient) ExchangeDiscordCode(_ context.Context, code string) (*client.AuthResult, error) {
	f.record("ExchangeDiscordCode")
	if f.exchangeFn != nil {
		return f.exchangeFn(code)
	}
	return nil, nil
}

func (f *fakeClient) RegisterHelper(_ context.Context, form domain.HelperRegistration) (*client.AuthResult, error) {
	f.record("RegisterHelper")
	if f.registerFn != nil {
		return f.registerFn(form)
	}
	return nil, nil
}

func (f *fakeClient) Me(context.Context) (*domain.User, error) {
	f.record("Me")
	if f.meFn != nil {
		return f.meFn()
	}
	return nil, nil
}

func (f *fakeClient) OAuthURL() string { return "http://backend/auth/discord" }

func (f *fakeClient) RegistrationOpen(context.Context) (*domain.RegistrationStatus, error) {
	f.record("RegistrationOpen")
	return f.regStatus, nil
}

func (f *fakeClient) Categories(context.Context) (catalog.Catalog, error) {
	f.record("Categories")
	return f.categories, nil
}

func (f *fakeClient) CreateAssignment(_ context.Context, form domain.NewAssignment) (*domain.Assignment, error) {
	f.record("CreateAssignment")
	if f.createFn != nil {
		return f.createFn(form)
	}
	return nil, nil
}

func (f *fakeClient) GetAssignment(_ context.Context, id string) (*domain.Assignment, error) {
	f.record("GetAssignment")
	if f.getFn != nil {
		return f.getFn(id)
	}
	return nil, nil
}

func (f *fakeClient) ListAssignments(_ context.Context, flt client.ListFilter) ([]domain.Assignment, error) {
	f.record("ListAssignments")
	if f.listFn != nil {
		return f.listFn(flt)
	}
	return nil, nil
}

func (f *fakeClient) ListOwnedAssignments(context.Context) ([]domain.Assignment, error) {
	f.record("ListOwnedAssignments")
	return nil, nil
}

func (f *fakeClient) AcceptAssignment(_ context.Context, id string) (string, error) {
	f.record("AcceptAssignment")
	if f.acceptFn != nil {
		return f.acceptFn(id)
	}
	return "", nil
}

func (f *fakeClient) SubmitWork(_ context.Context, id string, files []domain.FileUpload) (string, error) {
	f.record("SubmitWork")
	if f.submitFn != nil {
		return f.submitFn(id, files)
	}
	return "", nil
}

func (f *fakeClient) ReviewAssignment(_ context.Context, id string, r domain.Review) (string, error) {
	f.record("ReviewAssignment")
	if f.reviewFn != nil {
		return f.reviewFn(id, r)
	}
	return "", nil
}

func (f *fakeClient) SummarizeDescription(context.Context, string) (string, error) {
	f.record("SummarizeDescription")
	return "summary", nil
}

func (f *fakeClient) SummarizeDocument(context.Context, string, string) (string, error) {
	f.record("SummarizeDocument")
	return "doc summary", nil
}

func (f *fakeClient) AdminAssignments(context.Context) ([]domain.Assignment, error) {
	f.record("AdminAssignments")
	return nil, nil
}

func (f *fakeClient) AdminUsers(context.Context) ([]domain.User, error) {
	f.record("AdminUsers")
	return nil, nil
}

func (f *fakeClient) UpdateUserRoles(_ context.Context, id string, roles domain.Roles) error {
	f.record("UpdateUserRoles")
	if f.rolesFn != nil {
		return f.rolesFn(id, roles)
	}
	return nil
}

func (f *fakeClient) UpdateUserStatus(_ context.Context, id string, active bool) error {
	f.record("UpdateUserStatus")
	if f.statusFn != nil {
		return f.statusFn(id, active)
	}
	return nil
}

func (f *fakeClient) DeleteUser(context.Context, string) (string, error) {
	f.record("DeleteUser")
	return "User deleted successfully.", nil
}

func (f *fakeClient) FinancialSummary(context.Context) (*domain.FinancialSummary, error) {
	f.record("FinancialSummary")
	return f.summary, f.summaryErr
}

func (f *fakeClient) RegistrationStatus(context.Context) (*domain.RegistrationStatus, error) {
	f.record("RegistrationStatus")
	return f.regStatus, nil
}

func (f *fakeClient) SetRegistration(_ context.Context, open bool) (*domain.RegistrationStatus, error) {
	f.record("SetRegistration")
	if f.setRegFn != nil {
		return f.setRegFn(open)
	}
	return nil, nil
}

func (f *fakeClient) SetPayout(_ context.Context, id string, amount float64) (string, error) {
	f.record("SetPayout")
	if f.setPayoutFn != nil {
		return f.setPayoutFn(id, amount)
	}
	return "", nil
}

func (f *fakeClient) RecordPayout(_ context.Context, id string, rec domain.PayoutRecord) (string, error) {
	f.record("RecordPayout")
	if f.payFn != nil {
		return f.payFn(id, rec)
	}
	return "", nil
}

func (f *fakeClient) ExportReport(_ context.Context, w io.Writer) error {
	f.record("ExportReport")
	_, err := io.WriteString(w, "xlsx")
	return err
}

func (f *fakeClient) Download(_ context.Context, _ string, w io.Writer) error {
	f.record("Download")
	_, err := io.WriteString(w, "file")
	return err
}

var _ client.Client = (*fakeClient)(nil)
