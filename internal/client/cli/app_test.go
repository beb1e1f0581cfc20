package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/client/client"
	"github.com/dmitrijs2005/assignhub/internal/client/inflight"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

func helper() *domain.User {
	return &domain.User{ID: "h1", Username: "helen", IsActive: true, Roles: domain.Roles{domain.RoleHelper}}
}

func owner() *domain.User {
	return &domain.User{ID: "c1", Username: "carl", IsActive: true, Roles: domain.Roles{domain.RoleClient}}
}

func admin() *domain.User {
	return &domain.User{ID: "a1", Username: "ada", IsActive: true, Admin: true, Roles: domain.Roles{domain.RoleClient}}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer, string) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

func TestApp_Status(t *testing.T) {
	assert.Equal(t, "guest", newTestApp(nil).status())
	assert.Equal(t, "helen (helper)", newTestApp(helper()).status())
	assert.Equal(t, "ada (client, admin)", newTestApp(admin()).status())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("me: %w", client.ErrUnauthorized), "Your session is no longer valid. Please sign in again."},
		{client.ErrUnavailable, "Cannot reach the server. Check your connection and try again."},
		{inflight.ErrInFlight, "That action is already in progress."},
		{&client.APIError{StatusCode: 409, Message: "Assignment already taken", Err: client.ErrConflict}, "Assignment already taken"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, userMessage(tt.err))
	}
}

func TestApp_Login(t *testing.T) {
	stubPassword(t, "pw")
	ta := newTestApp(nil, "helen")

	require.NoError(t, ta.login(context.Background(), nil))

	assert.Equal(t, domain.Credentials{Username: "helen", Password: "pw"}, ta.auth.loginCreds)
	assert.Contains(t, ta.out.String(), "Welcome, helen! Type 'home' to open /helper-dashboard.")
}

func TestApp_LoginError(t *testing.T) {
	stubPassword(t, "bad")
	ta := newTestApp(nil, "helen")
	ta.auth.err = &client.APIError{StatusCode: 400, Message: "Invalid credentials"}

	err := ta.login(context.Background(), nil)
	require.Error(t, err)
	assert.NotContains(t, ta.out.String(), "Welcome")
}

func TestApp_OAuth(t *testing.T) {
	ta := newTestApp(nil)
	require.NoError(t, ta.discord(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "http://api.test/auth/discord")

	require.NoError(t, ta.oauth(context.Background(), []string{"code-1"}))
	assert.Equal(t, "code-1", ta.auth.oauthCode)
}

func TestApp_RegisterClosed(t *testing.T) {
	ta := newTestApp(nil)
	ta.auth.registration = &domain.RegistrationStatus{IsOpen: false, Message: "Helper registration is closed for now."}

	require.NoError(t, ta.register(context.Background(), nil))

	assert.Nil(t, ta.auth.registered)
	assert.Contains(t, ta.out.String(), "Helper registration is closed for now.")
}

func TestApp_RegisterLocalHelper(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(nil,
		"newhelper",
		"",
		"local",
		"0123456789",
		"New Helper",
		"Java, Python, SQL",
	)
	ta.auth.registration = &domain.RegistrationStatus{IsOpen: true}
	ta.assignments.cats = catalog.Catalog{{Name: "Java", HandlerType: catalog.HandlerCompSci}}

	require.NoError(t, ta.register(context.Background(), nil))

	require.NotNil(t, ta.auth.registered)
	form := ta.auth.registered
	assert.Equal(t, "newhelper", form.Username)
	assert.Equal(t, "secret1", form.Password)
	assert.Equal(t, "secret1", form.ConfirmPassword)
	assert.Equal(t, domain.RegionLocal, form.Region)
	assert.Equal(t, "0123456789", form.AccountNumber)
	assert.Equal(t, "New Helper", form.AccountName)
	assert.Equal(t, []string{"Java", "Python", "SQL"}, form.SpecializedCategories)
	assert.Contains(t, ta.out.String(), "Registration complete.")
}

func TestApp_RegisterForeignCrypto(t *testing.T) {
	stubPassword(t, "secret1")
	ta := newTestApp(nil, "h2", "h2@example.com", "foreign", "crypto", "0xabc", "usdt", "A, B, C")
	ta.auth.registration = &domain.RegistrationStatus{IsOpen: true}

	require.NoError(t, ta.register(context.Background(), nil))

	form := ta.auth.registered
	require.NotNil(t, form)
	assert.Equal(t, domain.WalletCrypto, form.WalletType)
	assert.Equal(t, "0xabc", form.CryptoWalletAddress)
	assert.Equal(t, "USDT", form.CryptoNetwork)
}

func TestApp_Logout(t *testing.T) {
	ta := newTestApp(helper())
	require.NoError(t, ta.logout(context.Background(), nil))
	assert.True(t, ta.auth.loggedOut)
	assert.Equal(t, "guest", ta.status())
}

func TestApp_AcceptShowsUpdatedAssignment(t *testing.T) {
	ta := newTestApp(helper())
	ta.assignments.items["as1"] = &domain.Assignment{
		ID: "as1", Title: "Essay", Status: domain.StatusPending,
		HelperPayout: domain.Float(25),
	}

	require.NoError(t, ta.accept(context.Background(), []string{"as1"}))

	assert.Equal(t, []string{"as1"}, ta.assignments.accepted)
	assert.Contains(t, ta.out.String(), "Assignment accepted.")
	assert.Contains(t, ta.out.String(), domain.StatusAccepted.Label())
}

func TestApp_SubmitUploadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work.txt")
	require.NoError(t, os.WriteFile(path, []byte("done"), 0o600))

	ta := newTestApp(helper())
	ta.assignments.items["as1"] = &domain.Assignment{ID: "as1", Status: domain.StatusAccepted}

	require.NoError(t, ta.submit(context.Background(), []string{"as1", path}))
	assert.Equal(t, []string{"work.txt=done"}, ta.assignments.submitted)

	err := ta.submit(context.Background(), []string{"as1", filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
	assert.Len(t, ta.assignments.submitted, 1)
}

func TestApp_ReviewReject(t *testing.T) {
	ta := newTestApp(owner(), "n", "revise section 2", "")
	ta.assignments.items["as1"] = &domain.Assignment{ID: "as1", Status: domain.StatusPendingClientReview}

	require.NoError(t, ta.review(context.Background(), []string{"as1"}))

	require.Len(t, ta.assignments.reviews, 1)
	assert.Equal(t, domain.Review{Approved: false, Notes: "revise section 2"}, ta.assignments.reviews[0])
	assert.Contains(t, ta.out.String(), "Work sent back to the helper.")
}

func TestApp_CreateTakesSuggestedCategory(t *testing.T) {
	ta := newTestApp(owner(),
		"Java homework",
		"Need help with java streams and collectors",
		"",
		"",
		"",
		"2030-01-02",
		"50",
		"",
	)
	ta.assignments.cats = catalog.Catalog{
		{Name: "Programming - Java", HandlerType: catalog.HandlerCompSci},
		{Name: "Essay Writing", HandlerType: catalog.HandlerAIMisc},
	}

	require.NoError(t, ta.create(context.Background(), nil))

	require.NotNil(t, ta.assignments.created)
	form := ta.assignments.created
	assert.Equal(t, "Java homework", form.Title)
	assert.Equal(t, "Programming - Java", form.Category)
	assert.Equal(t, domain.ComplexityMedium, form.Complexity)
	assert.InDelta(t, 50.0, form.PaymentAmount, 1e-9)
	assert.Equal(t, "c1", form.OwnerID)
	assert.Equal(t, 2030, form.Deadline.Year())
	assert.Empty(t, form.Files)
	assert.Contains(t, ta.out.String(), "suggested: Programming - Java")
}

func TestApp_CreateRejectsBadDeadline(t *testing.T) {
	ta := newTestApp(owner(), "T", "Some description here", "", "Essay", "", "next week")

	err := ta.create(context.Background(), nil)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Nil(t, ta.assignments.created)
}

func TestApp_Categories(t *testing.T) {
	ta := newTestApp(owner())
	ta.assignments.cats = catalog.Catalog{
		{Name: "Programming - Java", HandlerType: catalog.HandlerCompSci},
		{Name: "Physics", HandlerType: catalog.HandlerSTEM},
	}

	require.NoError(t, ta.categories(context.Background(), nil))

	out := ta.out.String()
	assert.Contains(t, out, catalog.HandlerCompSci.Label()+":\n  - Programming - Java")
	assert.Contains(t, out, catalog.HandlerSTEM.Label()+":\n  - Physics")
	assert.NotContains(t, out, catalog.HandlerAIMisc.Label())
}

func TestApp_Summarize(t *testing.T) {
	ta := newTestApp(owner())
	require.NoError(t, ta.summarize(context.Background(), []string{"as1"}))
	require.NoError(t, ta.summarize(context.Background(), []string{"as1", "https://files/doc.txt"}))

	assert.Contains(t, ta.out.String(), "short description summary")
	assert.Contains(t, ta.out.String(), "summary of https://files/doc.txt")
}

func TestApp_DownloadAndExportWriteFiles(t *testing.T) {
	dir := t.TempDir()
	ta := newTestApp(admin())

	dl := filepath.Join(dir, "sub", "file.bin")
	require.NoError(t, ta.download(context.Background(), []string{"https://s3/file.bin", dl}))
	b, err := os.ReadFile(dl)
	require.NoError(t, err)
	assert.Equal(t, "file-bytes", string(b))
	assert.Equal(t, "https://s3/file.bin", ta.assignments.downloaded)

	report := filepath.Join(dir, "report.xlsx")
	require.NoError(t, ta.export(context.Background(), []string{report}))
	b, err = os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(b))
}

func TestApp_SetPayout(t *testing.T) {
	ta := newTestApp(admin())

	require.Error(t, ta.setPayout(context.Background(), []string{"as1", "zero"}))
	assert.Empty(t, ta.admin.payouts)

	require.NoError(t, ta.setPayout(context.Background(), []string{"as1", "25"}))
	assert.InDelta(t, 25.0, ta.admin.payouts["as1"], 1e-9)
	assert.Contains(t, ta.out.String(), "Helper payout set to $25.00.")
}

func TestApp_Pay(t *testing.T) {
	ta := newTestApp(admin(), "TX-42", "paid via bank")
	ta.assignments.items["as1"] = &domain.Assignment{ID: "as1", Status: domain.StatusReadyForPayout}

	require.NoError(t, ta.pay(context.Background(), []string{"as1"}))

	assert.Equal(t, []domain.PayoutRecord{{TransactionID: "TX-42", Notes: "paid via bank"}}, ta.admin.records)
	assert.Contains(t, ta.out.String(), "Payout recorded.")
}

func TestApp_Registration(t *testing.T) {
	ta := newTestApp(admin())

	require.NoError(t, ta.registration(context.Background(), []string{"open"}))
	assert.Contains(t, ta.out.String(), "Helper registration is OPEN.")

	ta.out.Reset()
	require.NoError(t, ta.registration(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "Helper registration is OPEN.")

	require.NoError(t, ta.registration(context.Background(), []string{"close"}))
	assert.Contains(t, ta.out.String(), "Helper registration is CLOSED.")

	require.Error(t, ta.registration(context.Background(), []string{"maybe"}))
}

func TestApp_FinanceShowsLoss(t *testing.T) {
	ta := newTestApp(admin())
	ta.admin.summary = domain.FinancialSummary{TotalClientPayments: 100, TotalHelperPayouts: 150, PlatformProfit: -50}

	require.NoError(t, ta.finance(context.Background(), nil))

	assert.Contains(t, ta.out.String(), "-$50.00  LOSS")
}

func TestApp_EditAndDeleteUser(t *testing.T) {
	ta := newTestApp(admin(), "helper, client", "n", "y")
	ta.admin.users = []domain.User{*helper()}

	require.NoError(t, ta.editUser(context.Background(), []string{"h1"}))
	assert.Equal(t, domain.UserUpdate{Roles: domain.Roles{domain.RoleHelper, domain.RoleClient}, IsActive: false}, ta.admin.updated["h1"])

	require.NoError(t, ta.deleteUser(context.Background(), []string{"h1"}))
	assert.Equal(t, []string{"h1"}, ta.admin.deleted)

	err := ta.user(context.Background(), []string{"nobody"})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestApp_HomeByRole(t *testing.T) {
	ta := newTestApp(helper())
	ta.assignments.available = []domain.Assignment{{ID: "p1", Title: "Open task", Status: domain.StatusPending}}
	require.NoError(t, ta.home(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "Available assignments:")
	assert.Contains(t, ta.out.String(), "My assignments:")

	ta = newTestApp(owner())
	require.NoError(t, ta.home(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "Assignments you posted:")

	inactive := helper()
	inactive.IsActive = false
	ta = newTestApp(inactive)
	require.NoError(t, ta.home(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "not active")
	assert.NotContains(t, ta.out.String(), "Available assignments:")
}
