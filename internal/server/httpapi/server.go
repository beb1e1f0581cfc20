// Package httpapi is the REST transport of the assignhub backend.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/server/config"
	"github.com/dmitrijs2005/assignhub/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Login(ctx context.Context, creds domain.Credentials) (*services.AuthResult, error)
	RegisterHelper(ctx context.Context, form domain.HelperRegistration) (*services.AuthResult, error)
	DiscordAuthURL(state string) (string, error)
	ExchangeDiscordCode(ctx context.Context, code string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRoles(ctx context.Context, actor *domain.User, id string, roles domain.Roles) error
	SetActive(ctx context.Context, actor *domain.User, id string, active bool) error
	Delete(ctx context.Context, actor *domain.User, id string) error
}

type AssignmentService interface {
	Categories() catalog.Catalog
	Create(ctx context.Context, actor *domain.User, form domain.NewAssignment, files []services.File) (*domain.Assignment, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error)
	List(ctx context.Context, actor *domain.User, f services.ListFilter) ([]domain.Assignment, error)
	ListOwned(ctx context.Context, actor *domain.User) ([]domain.Assignment, error)
	ListAll(ctx context.Context, status domain.Status) ([]domain.Assignment, error)
	Accept(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error)
	Complete(ctx context.Context, actor *domain.User, id string, files []services.File) (*domain.Assignment, error)
	Review(ctx context.Context, actor *domain.User, id string, r domain.Review) (*domain.Assignment, error)
	Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error)
	SetPayout(ctx context.Context, actor *domain.User, id string, amount float64) (*domain.Assignment, error)
	Pay(ctx context.Context, actor *domain.User, id string, rec domain.PayoutRecord) (*domain.Assignment, error)
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
	SummarizeDescription(ctx context.Context, actor *domain.User, id string) (string, error)
	SummarizeDocument(ctx context.Context, actor *domain.User, id, fileURL string) (string, error)
	FileURL(ctx context.Context, key string) (string, error)
}

type SettingsService interface {
	HelperRegistration(ctx context.Context) (*domain.RegistrationStatus, error)
	SetHelperRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error)
}

type ReportService interface {
	WriteAssignments(ctx context.Context, w io.Writer) error
}

type Server struct {
	config      *config.Config
	router      *chi.Mux
	users       UserService
	assignments AssignmentService
	settings    SettingsService
	reports     ReportService
	logger      logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, as AssignmentService, ss SettingsService, rs ReportService) *Server {
	s := &Server{
		config:      cfg,
		users:       us,
		assignments: as,
		settings:    ss,
		reports:     rs,
		logger:      l.With("module", "http_server"),
	}
	s.setupRouter()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/categories", s.handleCategories)
	r.Get("/settings/helper-registration", s.handleGetRegistration)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/local/login", s.handleLogin)
		r.Post("/local/register-helper", s.handleRegisterHelper)
		r.Get("/discord", s.handleDiscordRedirect)
		r.Get("/discord/callback", s.handleDiscordCallback)
		r.Post("/discord/exchange-code", s.handleDiscordExchange)
		r.With(s.authenticate).Get("/me", s.handleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/files/*", s.handleFile)

		r.Route("/assignments", func(r chi.Router) {
			r.With(requireRole(domain.RoleClient, domain.RoleRequester)).Post("/", s.handleCreateAssignment)
			r.With(requireRole(domain.RoleHelper)).Get("/", s.handleListAssignments)
			r.Get("/user", s.handleListOwned)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAssignment)
				r.With(requireRole(domain.RoleHelper)).Post("/accept", s.handleAccept)
				r.With(requireRole(domain.RoleHelper)).Post("/complete", s.handleComplete)
				r.Post("/review", s.handleReview)
				r.Post("/cancel", s.handleCancel)
				r.Post("/summarize-description", s.handleSummarizeDescription)
				r.Post("/summarize-document", s.handleSummarizeDocument)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(domain.RoleAdmin))

			r.Get("/assignments", s.handleAdminAssignments)
			r.Post("/assignments/{id}/set-payout", s.handleSetPayout)
			r.Put("/assignments/{id}/set-payout", s.handleSetPayout)
			r.Post("/assignments/{id}/pay", s.handlePay)

			r.Get("/users", s.handleListUsers)
			r.Put("/users/{id}/roles", s.handleUpdateRoles)
			r.Put("/users/{id}/status", s.handleUpdateStatus)
			r.Delete("/users/{id}", s.handleDeleteUser)

			r.Get("/financial-summary", s.handleFinancialSummary)
			r.Get("/settings/helper-registration", s.handleGetRegistration)
			r.Put("/settings/helper-registration", s.handleSetRegistration)
			r.Put("/settings/toggle-helper-registration", s.handleToggleRegistration)
			r.Get("/reports/assignments.xlsx", s.handleReport)
		})
	})

	s.router = r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.ListenAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
