package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/server/auth"
	"github.com/dmitrijs2005/assignhub/internal/server/config"
	"github.com/dmitrijs2005/assignhub/internal/server/models"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/repomanager"
)

const (
	discordAuthURL  = "https://discord.com/oauth2/authorize"
	discordTokenURL = "https://discord.com/api/oauth2/token"
	discordUserURL  = "https://discord.com/api/users/@me"
	discordCDN      = "https://cdn.discordapp.com"
)

// AuthResult is what a successful sign-in returns to the client.
type AuthResult struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	settings        *SettingsService
	catalog         catalog.Catalog
	jwtSecret       []byte
	tokenValidity   time.Duration
	discord         *oauth2.Config
	discordUserURL  string
	adminDiscordIDs []string
	log             logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, settings *SettingsService, cat catalog.Catalog, cfg *config.Config, log logging.Logger) *UserService {
	s := &UserService{
		db:              db,
		repomanager:     m,
		settings:        settings,
		catalog:         cat,
		jwtSecret:       []byte(cfg.SecretKey),
		tokenValidity:   cfg.TokenValidity,
		discordUserURL:  discordUserURL,
		adminDiscordIDs: cfg.AdminDiscordIDs,
		log:             log,
	}

	if cfg.DiscordClientID != "" {
		s.discord = &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   discordAuthURL,
				TokenURL:  discordTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}
	return s
}

func (s *UserService) issue(u *models.User, message string) (*AuthResult, error) {
	token, err := auth.GenerateToken(u.ID, u.Roles, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Message: message, Token: token, User: u.Public()}, nil
}

// Login checks local credentials. Unknown users, Discord accounts and wrong
// passwords all yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, creds domain.Credentials) (*AuthResult, error) {
	if err := domain.Validate(&creds); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, common.ErrorUnauthorized
	}
	ok, err := auth.CheckPassword(user.PasswordHash, creds.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrInactiveUser
	}

	return s.issue(user, "Login successful.")
}

// RegisterHelper creates a local helper account while registration is open.
func (s *UserService) RegisterHelper(ctx context.Context, form domain.HelperRegistration) (*AuthResult, error) {
	st, err := s.settings.HelperRegistration(ctx)
	if err != nil {
		return nil, err
	}
	if !st.IsOpen {
		return nil, common.ErrRegistrationClosed
	}

	if err := s.validateRegistration(&form); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		User: domain.User{
			Username:              form.Username,
			Email:                 form.Email,
			Roles:                 domain.Roles{domain.RoleHelper},
			AuthType:              domain.AuthTypeLocal,
			IsActive:              true,
			Region:                form.Region,
			SpecializedCategories: form.SpecializedCategories,
			PayoutDestination:     form.PayoutDestination.ForRegion(form.Region),
		},
		PasswordHash: hash,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, domain.NewValidationError("username", "Username is already taken.")
		}
		return nil, err
	}

	s.log.Info(ctx, "helper registered", "user_id", user.ID)
	return s.issue(user, "Registration successful.")
}

func (s *UserService) validateRegistration(form *domain.HelperRegistration) error {
	if form.Region != domain.RegionLocal && form.Region != domain.RegionForeign {
		return domain.NewValidationError("region", "Please select your region.")
	}
	if err := form.PayoutDestination.Validate(form.Region); err != nil {
		return err
	}
	if err := domain.Validate(form); err != nil {
		return err
	}
	if len(s.catalog) == 0 {
		return nil
	}

	verr := &domain.ValidationError{}
	for _, name := range form.SpecializedCategories {
		if _, ok := s.catalog.Find(name); !ok {
			verr.Add("specializedCategories", fmt.Sprintf("Unknown category %q.", name))
		}
	}
	return verr.OrNil()
}

// DiscordAuthURL is the Discord consent page the user is sent to.
func (s *UserService) DiscordAuthURL(state string) (string, error) {
	if s.discord == nil {
		return "", ErrDiscordNotConfigured
	}
	return s.discord.AuthCodeURL(state), nil
}

type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
	Email      string `json:"email"`
}

func (d discordUser) avatarURL() string {
	if d.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.png", discordCDN, d.ID, d.Avatar)
}

func (s *UserService) fetchDiscordUser(ctx context.Context, code string) (*discordUser, error) {
	tok, err := s.discord.Exchange(ctx, code)
	if err != nil {
		s.log.Warn(ctx, "discord code exchange failed", "error", err)
		return nil, common.ErrorUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.discordUserURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.discord.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord user info: unexpected status %d", resp.StatusCode)
	}

	var du discordUser
	if err := json.NewDecoder(resp.Body).Decode(&du); err != nil {
		return nil, fmt.Errorf("discord user info: %w", err)
	}
	if du.ID == "" {
		return nil, fmt.Errorf("discord user info: missing id")
	}
	return &du, nil
}

// ExchangeDiscordCode completes the Discord sign-in. The account is created
// on first sign-in as a client; configured Discord ids are made admins.
func (s *UserService) ExchangeDiscordCode(ctx context.Context, code string) (*AuthResult, error) {
	if s.discord == nil {
		return nil, ErrDiscordNotConfigured
	}
	if code == "" {
		return nil, domain.NewValidationError("code", "Authorization code is required.")
	}

	du, err := s.fetchDiscordUser(ctx, code)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByDiscordID(ctx, du.ID)
	switch {
	case err == nil:
		if err := repo.UpdateDiscordProfile(ctx, user.ID, du.avatarURL(), du.Email); err != nil {
			return nil, err
		}
		user.AvatarURL, user.Email = du.avatarURL(), du.Email

	case errors.Is(err, common.ErrorNotFound):
		user, err = repo.Create(ctx, s.newDiscordUser(du))
		if err != nil {
			return nil, err
		}
		s.log.Info(ctx, "discord user created", "user_id", user.ID, "admin", user.Admin)

	default:
		return nil, err
	}

	if !user.IsActive {
		return nil, common.ErrInactiveUser
	}
	return s.issue(user, "Login successful.")
}

func (s *UserService) newDiscordUser(du *discordUser) *models.User {
	name := du.GlobalName
	if name == "" {
		name = du.Username
	}

	roles := domain.Roles{domain.RoleClient}
	admin := slices.Contains(s.adminDiscordIDs, du.ID)
	if admin {
		roles = append(roles, domain.RoleAdmin)
	}

	return &models.User{User: domain.User{
		DiscordID: du.ID,
		Username:  name,
		AvatarURL: du.avatarURL(),
		Email:     du.Email,
		Roles:     roles,
		Admin:     admin,
		AuthType:  domain.AuthTypeDiscord,
		IsActive:  true,
	}}
}

// Authenticate resolves a bearer token to an active user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrInactiveUser
	}
	return user.Public(), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(list))
	for _, u := range list {
		out = append(out, *u.Public())
	}
	return out, nil
}

// UpdateRoles replaces a user's roles. Admins cannot drop their own admin
// role.
func (s *UserService) UpdateRoles(ctx context.Context, actor *domain.User, id string, roles domain.Roles) error {
	roles = roles.Normalize()
	if actor.ID == id && !roles.Has(domain.RoleAdmin) {
		return domain.NewValidationError("roles", "You cannot remove your own admin role.")
	}
	if err := s.repomanager.Users(s.db).UpdateRoles(ctx, id, roles); err != nil {
		return err
	}
	s.log.Info(ctx, "user roles updated", "user_id", id, "by", actor.ID)
	return nil
}

func (s *UserService) SetActive(ctx context.Context, actor *domain.User, id string, active bool) error {
	if actor.ID == id && !active {
		return domain.NewValidationError("isActive", "You cannot deactivate your own account.")
	}
	if err := s.repomanager.Users(s.db).SetActive(ctx, id, active); err != nil {
		return err
	}
	s.log.Info(ctx, "user status updated", "user_id", id, "active", active, "by", actor.ID)
	return nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor.ID == id {
		return domain.NewValidationError("id", "You cannot delete your own account.")
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "user_id", id, "by", actor.ID)
	return nil
}
