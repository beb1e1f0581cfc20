package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/server/cache"
	"github.com/dmitrijs2005/assignhub/internal/server/events"
	"github.com/dmitrijs2005/assignhub/internal/server/models"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/assignments"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assignhub/internal/server/storage"
	"github.com/dmitrijs2005/assignhub/internal/workflow"
)

const (
	// FilesPrefix is the URL path attachments are served under.
	FilesPrefix = "/files/"

	financialSummaryKey = "financial-summary"
	maxDocumentSize     = 1 << 20
	summarySentences    = 3
)

// textExtensions are the document types SummarizeDocument accepts.
var textExtensions = []string{".txt", ".md", ".csv", ".json", ".log"}

// File is an uploaded file on its way to object storage.
type File struct {
	Filename    string
	ContentType string
	Content     io.ReadSeeker
}

// ListFilter narrows List. AssignedToMe nil means "not given".
type ListFilter struct {
	Status       domain.Status
	AssignedToMe *bool
}

type AssignmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     storage.Storage
	cache       cache.Cache
	cacheTTL    time.Duration
	events      events.Publisher
	catalog     catalog.Catalog
	log         logging.Logger
	now         func() time.Time
}

func NewAssignmentService(db *sql.DB, m repomanager.RepositoryManager, st storage.Storage, c cache.Cache, cacheTTL time.Duration,
	pub events.Publisher, cat catalog.Catalog, log logging.Logger) *AssignmentService {
	return &AssignmentService{
		db:          db,
		repomanager: m,
		storage:     st,
		cache:       c,
		cacheTTL:    cacheTTL,
		events:      pub,
		catalog:     cat,
		log:         log,
		now:         time.Now,
	}
}

func (s *AssignmentService) Categories() catalog.Catalog {
	if s.catalog == nil {
		return catalog.Catalog{}
	}
	return s.catalog
}

func (s *AssignmentService) upload(ctx context.Context, files []File) ([]domain.Attachment, error) {
	out := make([]domain.Attachment, 0, len(files))
	for _, f := range files {
		key := storage.NewKey(f.Filename, s.now())
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		if err := s.storage.Put(ctx, key, ct, f.Content); err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Filename, err)
		}
		out = append(out, domain.Attachment{URL: FilesPrefix + key, Filename: path.Base(key)})
	}
	return out, nil
}

// Create posts a new pending assignment owned by actor. Admins may post on
// behalf of another owner.
func (s *AssignmentService) Create(ctx context.Context, actor *domain.User, form domain.NewAssignment, files []File) (*domain.Assignment, error) {
	if form.OwnerID == "" {
		form.OwnerID = actor.ID
	}
	if form.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if len(s.catalog) > 0 {
		cat, ok := s.catalog.Find(form.Category)
		if !ok {
			return nil, domain.NewValidationError("category", fmt.Sprintf("Unknown category %q.", form.Category))
		}
		form.Category = cat.Name
	}
	if !form.Deadline.After(s.now()) {
		return nil, domain.NewValidationError("deadline", "Deadline must be in the future.")
	}

	atts, err := s.upload(ctx, files)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Assignments(s.db)
	created, err := repo.Create(ctx, &domain.Assignment{
		Owner:         domain.Ref(form.OwnerID),
		Title:         form.Title,
		Description:   form.Description,
		Complexity:    form.Complexity,
		Category:      form.Category,
		Deadline:      form.Deadline,
		PaymentAmount: form.PaymentAmount,
		Attachments:   atts,
		Status:        domain.StatusPending,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "assignment created", "assignment_id", created.ID, "owner_id", form.OwnerID)
	return repo.GetByID(ctx, created.ID)
}

// canView: admins see everything, owners and helpers their own work and
// helpers any open assignment.
func canView(actor *domain.User, a *domain.Assignment) bool {
	switch {
	case actor.IsAdmin(), a.Owner.Is(actor.ID), a.Helper.Is(actor.ID):
		return true
	case actor.IsHelper() && a.Status == domain.StatusPending && a.Helper.Empty():
		return true
	}
	return false
}

func (s *AssignmentService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error) {
	a, err := s.repomanager.Assignments(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, a) {
		return nil, common.ErrorForbidden
	}
	return a, nil
}

// List serves the helper dashboards. assignedToMe=true lists the actor's
// jobs; otherwise open assignments are listed (pending unless a status is
// given).
func (s *AssignmentService) List(ctx context.Context, actor *domain.User, f ListFilter) ([]domain.Assignment, error) {
	filter := assignments.Filter{Status: f.Status}
	if f.AssignedToMe != nil && *f.AssignedToMe {
		filter.HelperID = actor.ID
	} else {
		filter.Unassigned = true
		if filter.Status == "" {
			filter.Status = domain.StatusPending
		}
	}
	return s.repomanager.Assignments(s.db).List(ctx, filter)
}

func (s *AssignmentService) ListOwned(ctx context.Context, actor *domain.User) ([]domain.Assignment, error) {
	return s.repomanager.Assignments(s.db).List(ctx, assignments.Filter{OwnerID: actor.ID})
}

func (s *AssignmentService) ListAll(ctx context.Context, status domain.Status) ([]domain.Assignment, error) {
	return s.repomanager.Assignments(s.db).List(ctx, assignments.Filter{Status: status})
}

// afterFunc runs inside the transition's transaction once the assignment
// row is updated.
type afterFunc func(ctx context.Context, tx dbx.DBTX, next *domain.Assignment) error

// transition applies t under a row lock and publishes the status change
// after commit. The returned assignment is re-read with populated refs.
func (s *AssignmentService) transition(ctx context.Context, actor *domain.User, id string, t workflow.Transition, in workflow.Input, after afterFunc) (*domain.Assignment, error) {
	var (
		prev    domain.Status
		changed bool
	)

	next, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*domain.Assignment, error) {
		repo := s.repomanager.Assignments(tx)

		a, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		prev = a.Status

		next, err := workflow.Apply(actor, *a, t, in, s.now())
		if err != nil {
			return nil, err
		}
		if t == workflow.MarkPaid && prev == domain.StatusPaid {
			return &next, nil
		}

		if err := repo.Update(ctx, &next); err != nil {
			return nil, err
		}
		if after != nil {
			if err := after(ctx, tx, &next); err != nil {
				return nil, err
			}
		}
		changed = next.Status != prev
		return &next, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, *next, prev)
	}

	out, err := s.repomanager.Assignments(s.db).GetByID(ctx, id)
	if err != nil {
		s.log.Warn(ctx, "re-read after transition failed", "assignment_id", id, "error", err)
		return next, nil
	}
	return out, nil
}

func (s *AssignmentService) publish(ctx context.Context, a domain.Assignment, prev domain.Status) {
	if s.events == nil {
		return
	}
	if err := s.events.StatusChanged(ctx, a, prev); err != nil {
		s.log.Error(ctx, "failed to publish status change", "assignment_id", a.ID, "error", err)
	}
}

func (s *AssignmentService) invalidateSummary(ctx context.Context) {
	if err := s.cache.Delete(ctx, financialSummaryKey); err != nil {
		s.log.Warn(ctx, "failed to invalidate financial summary", "error", err)
	}
}

func (s *AssignmentService) Accept(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error) {
	return s.transition(ctx, actor, id, workflow.Accept, workflow.Input{}, nil)
}

// Complete uploads the finished work and submits it for review. The
// transition is checked before anything is uploaded.
func (s *AssignmentService) Complete(ctx context.Context, actor *domain.User, id string, files []File) (*domain.Assignment, error) {
	a, err := s.repomanager.Assignments(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	probe := workflow.Input{Files: make([]domain.Attachment, len(files))}
	if err := workflow.Check(actor, a, workflow.SubmitWork, probe); err != nil {
		return nil, err
	}

	atts, err := s.upload(ctx, files)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, workflow.SubmitWork, workflow.Input{Files: atts}, nil)
}

func (s *AssignmentService) Review(ctx context.Context, actor *domain.User, id string, r domain.Review) (*domain.Assignment, error) {
	t := workflow.Reject
	if r.Approved {
		t = workflow.Approve
	}
	return s.transition(ctx, actor, id, t, workflow.Input{Notes: strings.TrimSpace(r.Notes)}, nil)
}

func (s *AssignmentService) Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Assignment, error) {
	return s.transition(ctx, actor, id, workflow.Cancel, workflow.Input{}, nil)
}

func (s *AssignmentService) SetPayout(ctx context.Context, actor *domain.User, id string, amount float64) (*domain.Assignment, error) {
	a, err := s.transition(ctx, actor, id, workflow.SetPayout, workflow.Input{Payout: amount}, nil)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx)
	return a, nil
}

// Pay marks the assignment paid and records the payout. Paying an already
// paid assignment changes nothing.
func (s *AssignmentService) Pay(ctx context.Context, actor *domain.User, id string, rec domain.PayoutRecord) (*domain.Assignment, error) {
	in := workflow.Input{TransactionID: strings.TrimSpace(rec.TransactionID)}

	record := func(ctx context.Context, tx dbx.DBTX, next *domain.Assignment) error {
		return s.repomanager.Payouts(tx).Create(ctx, &models.Payout{
			AssignmentID:  next.ID,
			HelperID:      next.Helper.ID,
			Amount:        next.Payout(),
			TransactionID: next.TransactionID,
			Notes:         strings.TrimSpace(rec.Notes),
			PaidAt:        *next.PaidAt,
		})
	}

	a, err := s.transition(ctx, actor, id, workflow.MarkPaid, in, record)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx)
	return a, nil
}

// MarkOverdue moves accepted assignments past their deadline to due and
// returns how many were moved.
func (s *AssignmentService) MarkOverdue(ctx context.Context) (int, error) {
	ids, err := s.repomanager.Assignments(s.db).ListOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	n := 0
	for _, id := range ids {
		if _, err := s.transition(ctx, nil, id, workflow.MarkDue, workflow.Input{}, nil); err != nil {
			var perr *workflow.PreconditionError
			if errors.As(err, &perr) {
				continue
			}
			s.log.Error(ctx, "failed to mark assignment due", "assignment_id", id, "error", err)
			continue
		}
		n++
	}
	return n, nil
}

// FinancialSummary aggregates paid assignments. Results are cached until
// the next payout change or the TTL.
func (s *AssignmentService) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	var cached domain.FinancialSummary
	err := s.cache.Get(ctx, financialSummaryKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn(ctx, "financial summary cache read failed", "error", err)
	}

	sum, err := s.repomanager.Assignments(s.db).FinancialSummary(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, financialSummaryKey, sum, s.cacheTTL); err != nil {
		s.log.Warn(ctx, "financial summary cache write failed", "error", err)
	}
	return sum, nil
}

func (s *AssignmentService) SummarizeDescription(ctx context.Context, actor *domain.User, id string) (string, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	return summarize(a.Description, summarySentences)
}

// SummarizeDocument summarizes one of the assignment's text attachments.
func (s *AssignmentService) SummarizeDocument(ctx context.Context, actor *domain.User, id, fileURL string) (string, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}

	key, ok := attachmentKey(a, fileURL)
	if !ok {
		return "", fmt.Errorf("attachment %s: %w", fileURL, common.ErrorNotFound)
	}
	if !isText(key) {
		return "", ErrUnsupportedDocument
	}

	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	if len(raw) > maxDocumentSize {
		return "", ErrDocumentTooLarge
	}
	return summarize(string(raw), summarySentences)
}

// attachmentKey finds fileURL among a's files and returns its storage key.
func attachmentKey(a *domain.Assignment, fileURL string) (string, bool) {
	all := append(append([]domain.Attachment(nil), a.Attachments...), a.CompletedWorkAttachments...)
	for _, att := range all {
		if att.URL == fileURL && strings.HasPrefix(att.URL, FilesPrefix) {
			return strings.TrimPrefix(att.URL, FilesPrefix), true
		}
	}
	return "", false
}

func isText(key string) bool {
	ext := strings.ToLower(path.Ext(key))
	for _, e := range textExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FileURL returns a short-lived download link for a stored file.
func (s *AssignmentService) FileURL(ctx context.Context, key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", common.ErrorNotFound
	}
	return s.storage.PresignGet(ctx, key)
}
