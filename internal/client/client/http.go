package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/netx"
)

// HTTPClient talks to the REST backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for baseURL. tokens may be nil for an
// anonymous client. Credentials are only attached to requests addressed to
// baseURL's host.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration) (*HTTPClient, error) {
	return newHTTPClient(baseURL, tokens, timeout, http.DefaultTransport)
}

func newHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, base http.RoundTripper) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}

	return &HTTPClient{
		baseURL: u.String(),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{base: base, tokens: tokens, host: u.Host},
		},
	}, nil
}

type messageBody struct {
	Message string `json:"message"`
}

type assignmentBody struct {
	Message    string             `json:"message"`
	Assignment *domain.Assignment `json:"assignment" validate:"required"`
}

type assignmentsBody struct {
	Assignments []domain.Assignment `json:"assignments" validate:"dive"`
}

type usersBody struct {
	Users []domain.User `json:"users" validate:"dive"`
}

type userBody struct {
	User *domain.User `json:"user" validate:"required"`
}

type categoriesBody struct {
	Categories catalog.Catalog `json:"categories" validate:"dive"`
}

type summaryBody struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do sends one request. A nil out discards the body.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return domain.Decode(resp.Body, out)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		r, err := jsonBody(in)
		if err != nil {
			return err
		}
		body = r
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// mapError turns a non-2xx response into an *APIError.
func mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return apiError(resp.StatusCode, raw)
}

func apiError(code int, raw []byte) error {
	if code >= 500 {
		return &APIError{StatusCode: code, Message: GenericServerMessage, Err: common.ErrorInternal}
	}

	var body messageBody
	_ = json.Unmarshal(raw, &body)

	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = http.StatusText(code)
	}

	apiErr := &APIError{StatusCode: code, Message: msg}
	switch code {
	case http.StatusUnauthorized:
		apiErr.Err = ErrUnauthorized
	case http.StatusForbidden:
		apiErr.Err = common.ErrorForbidden
	case http.StatusNotFound:
		apiErr.Err = common.ErrorNotFound
	case http.StatusConflict:
		apiErr.Err = ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.Err = common.ErrorValidation
	}
	return apiErr
}

func (c *HTTPClient) auth(ctx context.Context, path string, in any) (*AuthResult, error) {
	var out AuthResult
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) LocalLogin(ctx context.Context, creds domain.Credentials) (*AuthResult, error) {
	return c.auth(ctx, "/auth/local/login", creds)
}

func (c *HTTPClient) ExchangeDiscordCode(ctx context.Context, code string) (*AuthResult, error) {
	return c.auth(ctx, "/auth/discord/exchange-code", map[string]string{"code": code})
}

func (c *HTTPClient) RegisterHelper(ctx context.Context, form domain.HelperRegistration) (*AuthResult, error) {
	return c.auth(ctx, "/auth/local/register-helper", form.Payload())
}

func (c *HTTPClient) Me(ctx context.Context) (*domain.User, error) {
	var out userBody
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// OAuthURL is where the user starts the Discord sign-in.
func (c *HTTPClient) OAuthURL() string {
	return c.baseURL + "/auth/discord"
}

func (c *HTTPClient) RegistrationOpen(ctx context.Context) (*domain.RegistrationStatus, error) {
	var out domain.RegistrationStatus
	if err := c.doJSON(ctx, http.MethodGet, "/settings/helper-registration", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Categories(ctx context.Context) (catalog.Catalog, error) {
	var out categoriesBody
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	if out.Categories == nil {
		out.Categories = catalog.Catalog{}
	}
	return out.Categories, nil
}

func (c *HTTPClient) CreateAssignment(ctx context.Context, form domain.NewAssignment) (*domain.Assignment, error) {
	keys := []string{"title", "description", "complexity", "category", "deadline", "paymentAmount", "ownerId"}
	fields := map[string]string{
		"title":         form.Title,
		"description":   form.Description,
		"complexity":    string(form.Complexity),
		"category":      form.Category,
		"deadline":      form.Deadline.UTC().Format(time.RFC3339),
		"paymentAmount": strconv.FormatFloat(form.PaymentAmount, 'f', -1, 64),
		"ownerId":       form.OwnerID,
	}

	body, ct, err := netx.MultipartBody(keys, fields, parts("attachments", form.Files))
	if err != nil {
		return nil, err
	}

	var out assignmentBody
	if err := c.do(ctx, http.MethodPost, "/assignments", body, ct, &out); err != nil {
		return nil, err
	}
	return out.Assignment, nil
}

func parts(field string, files []domain.FileUpload) []netx.Part {
	out := make([]netx.Part, 0, len(files))
	for _, f := range files {
		out = append(out, netx.Part{Field: field, Filename: f.Filename, Content: f.Content})
	}
	return out
}

func (c *HTTPClient) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	var out assignmentBody
	if err := c.doJSON(ctx, http.MethodGet, "/assignments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Assignment, nil
}

func (c *HTTPClient) list(ctx context.Context, path string) ([]domain.Assignment, error) {
	var out assignmentsBody
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Assignments == nil {
		out.Assignments = []domain.Assignment{}
	}
	return out.Assignments, nil
}

func (c *HTTPClient) ListAssignments(ctx context.Context, f ListFilter) ([]domain.Assignment, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.AssignedToMe != nil {
		q.Set("assignedToMe", strconv.FormatBool(*f.AssignedToMe))
	}

	path := "/assignments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.list(ctx, path)
}

func (c *HTTPClient) ListOwnedAssignments(ctx context.Context) ([]domain.Assignment, error) {
	return c.list(ctx, "/assignments/user")
}

func (c *HTTPClient) post(ctx context.Context, path string, in any) (string, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) AcceptAssignment(ctx context.Context, id string) (string, error) {
	return c.post(ctx, "/assignments/"+url.PathEscape(id)+"/accept", nil)
}

func (c *HTTPClient) SubmitWork(ctx context.Context, id string, files []domain.FileUpload) (string, error) {
	body, ct, err := netx.MultipartBody(nil, nil, parts("completedWorkAttachments", files))
	if err != nil {
		return "", err
	}

	var out messageBody
	if err := c.do(ctx, http.MethodPost, "/assignments/"+url.PathEscape(id)+"/complete", body, ct, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) ReviewAssignment(ctx context.Context, id string, r domain.Review) (string, error) {
	return c.post(ctx, "/assignments/"+url.PathEscape(id)+"/review", r)
}

func (c *HTTPClient) summarize(ctx context.Context, path string, in any) (string, error) {
	var out summaryBody
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

func (c *HTTPClient) SummarizeDescription(ctx context.Context, id string) (string, error) {
	return c.summarize(ctx, "/assignments/"+url.PathEscape(id)+"/summarize-description", nil)
}

func (c *HTTPClient) SummarizeDocument(ctx context.Context, id, fileURL string) (string, error) {
	return c.summarize(ctx, "/assignments/"+url.PathEscape(id)+"/summarize-document", map[string]string{"fileUrl": fileURL})
}

func (c *HTTPClient) AdminAssignments(ctx context.Context) ([]domain.Assignment, error) {
	return c.list(ctx, "/admin/assignments")
}

func (c *HTTPClient) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var out usersBody
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	if out.Users == nil {
		out.Users = []domain.User{}
	}
	return out.Users, nil
}

func (c *HTTPClient) UpdateUserRoles(ctx context.Context, id string, roles domain.Roles) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id)+"/roles", map[string]domain.Roles{"roles": roles}, nil)
}

func (c *HTTPClient) UpdateUserStatus(ctx context.Context, id string, active bool) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id)+"/status", map[string]bool{"isActive": active}, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) (string, error) {
	var out messageBody
	if err := c.doJSON(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	var out domain.FinancialSummary
	if err := c.doJSON(ctx, http.MethodGet, "/admin/financial-summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegistrationStatus(ctx context.Context) (*domain.RegistrationStatus, error) {
	var out domain.RegistrationStatus
	if err := c.doJSON(ctx, http.MethodGet, "/admin/settings/helper-registration", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error) {
	var out domain.RegistrationStatus
	if err := c.doJSON(ctx, http.MethodPut, "/admin/settings/helper-registration", map[string]bool{"isOpen": open}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetPayout(ctx context.Context, id string, amount float64) (string, error) {
	return c.post(ctx, "/admin/assignments/"+url.PathEscape(id)+"/set-payout", map[string]float64{"helperPayoutAmount": amount})
}

func (c *HTTPClient) RecordPayout(ctx context.Context, id string, rec domain.PayoutRecord) (string, error) {
	return c.post(ctx, "/admin/assignments/"+url.PathEscape(id)+"/pay", rec)
}

// ExportReport streams the admin xlsx report into w.
func (c *HTTPClient) ExportReport(ctx context.Context, w io.Writer) error {
	return c.fetch(ctx, c.baseURL+"/admin/reports/assignments.xlsx", w)
}

// Download fetches an attachment. Relative URLs are resolved against the
// server; absolute URLs on other hosts are fetched without credentials.
func (c *HTTPClient) Download(ctx context.Context, fileURL string, w io.Writer) error {
	target, err := c.resolve(fileURL)
	if err != nil {
		return err
	}
	return c.fetch(ctx, target, w)
}

func (c *HTTPClient) fetch(ctx context.Context, target string, w io.Writer) error {
	_, err := netx.Download(ctx, c.http, target, w)
	if err == nil {
		return nil
	}

	var serr *netx.StatusError
	if errors.As(err, &serr) {
		return apiError(serr.StatusCode, serr.Body)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *HTTPClient) resolve(ref string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}
	return base.ResolveReference(r).String(), nil
}

var _ Client = (*HTTPClient)(nil)
