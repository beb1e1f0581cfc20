package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

// AuthResult is what the backend returns after a successful login or
// registration.
type AuthResult struct {
	Message string       `json:"message"`
	Token   string       `json:"token" validate:"required"`
	User    *domain.User `json:"user" validate:"required"`
}

// ListFilter narrows GET /assignments. Zero values are not sent.
type ListFilter struct {
	Status       domain.Status
	AssignedToMe *bool
}

// Client is the backend API as used by the interactive client.
type Client interface {
	LocalLogin(ctx context.Context, creds domain.Credentials) (*AuthResult, error)
	ExchangeDiscordCode(ctx context.Context, code string) (*AuthResult, error)
	RegisterHelper(ctx context.Context, form domain.HelperRegistration) (*AuthResult, error)
	Me(ctx context.Context) (*domain.User, error)
	OAuthURL() string
	RegistrationOpen(ctx context.Context) (*domain.RegistrationStatus, error)

	Categories(ctx context.Context) (catalog.Catalog, error)
	CreateAssignment(ctx context.Context, form domain.NewAssignment) (*domain.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*domain.Assignment, error)
	ListAssignments(ctx context.Context, f ListFilter) ([]domain.Assignment, error)
	ListOwnedAssignments(ctx context.Context) ([]domain.Assignment, error)
	AcceptAssignment(ctx context.Context, id string) (string, error)
	SubmitWork(ctx context.Context, id string, files []domain.FileUpload) (string, error)
	ReviewAssignment(ctx context.Context, id string, r domain.Review) (string, error)
	SummarizeDescription(ctx context.Context, id string) (string, error)
	SummarizeDocument(ctx context.Context, id, fileURL string) (string, error)

	AdminAssignments(ctx context.Context) ([]domain.Assignment, error)
	AdminUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRoles(ctx context.Context, id string, roles domain.Roles) error
	UpdateUserStatus(ctx context.Context, id string, active bool) error
	DeleteUser(ctx context.Context, id string) (string, error)
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
	RegistrationStatus(ctx context.Context) (*domain.RegistrationStatus, error)
	SetRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error)
	SetPayout(ctx context.Context, id string, amount float64) (string, error)
	RecordPayout(ctx context.Context, id string, rec domain.PayoutRecord) (string, error)
	ExportReport(ctx context.Context, w io.Writer) error
	Download(ctx context.Context, fileURL string, w io.Writer) error
}
