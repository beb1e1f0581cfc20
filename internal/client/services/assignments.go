package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/client/client"
	"github.com/dmitrijs2005/assignhub/internal/client/inflight"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/workflow"
)

// AssignmentService is what owners and helpers do with assignments.
// Every mutation re-fetches the assignment afterwards; nothing is updated
// optimistically.
type AssignmentService interface {
	Get(ctx context.Context, id string) (*domain.Assignment, error)
	ListAvailable(ctx context.Context) ([]domain.Assignment, error)
	ListMine(ctx context.Context) ([]domain.Assignment, error)
	ListOwned(ctx context.Context) ([]domain.Assignment, error)
	Create(ctx context.Context, form domain.NewAssignment) (*domain.Assignment, error)
	Accept(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	SubmitWork(ctx context.Context, a *domain.Assignment, files []domain.FileUpload) (*domain.Assignment, error)
	Review(ctx context.Context, a *domain.Assignment, r domain.Review) (*domain.Assignment, error)
	SummarizeDescription(ctx context.Context, id string) (string, error)
	SummarizeDocument(ctx context.Context, id, fileURL string) (string, error)
	Categories(ctx context.Context) (catalog.Catalog, error)
	SuggestCategory(ctx context.Context, description string) (string, bool, error)
	Download(ctx context.Context, fileURL string, w io.Writer) error
}

type assignmentService struct {
	client client.Client
	auth   AuthService
	log    logging.Logger
	gate   inflight.Gate
}

func NewAssignmentService(c client.Client, auth AuthService, log logging.Logger) AssignmentService {
	return &assignmentService{client: c, auth: auth, log: log}
}

func (s *assignmentService) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := s.client.GetAssignment(ctx, id)
	return a, s.auth.HandleError(ctx, err)
}

func (s *assignmentService) ListAvailable(ctx context.Context) ([]domain.Assignment, error) {
	mine := false
	list, err := s.client.ListAssignments(ctx, client.ListFilter{Status: domain.StatusPending, AssignedToMe: &mine})
	return list, s.auth.HandleError(ctx, err)
}

func (s *assignmentService) ListMine(ctx context.Context) ([]domain.Assignment, error) {
	mine := true
	list, err := s.client.ListAssignments(ctx, client.ListFilter{AssignedToMe: &mine})
	return list, s.auth.HandleError(ctx, err)
}

func (s *assignmentService) ListOwned(ctx context.Context) ([]domain.Assignment, error) {
	list, err := s.client.ListOwnedAssignments(ctx)
	return list, s.auth.HandleError(ctx, err)
}

func (s *assignmentService) Create(ctx context.Context, form domain.NewAssignment) (*domain.Assignment, error) {
	actor := s.auth.Current()
	if actor == nil {
		return nil, ErrNotSignedIn
	}
	if form.OwnerID == "" {
		form.OwnerID = actor.ID
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Assignment
	err := s.gate.Do(inflight.Create, func() error {
		a, err := s.client.CreateAssignment(ctx, form)
		if err != nil {
			return s.auth.HandleError(ctx, err)
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "assignment created", "assignment_id", created.ID)
	return created, nil
}

// mutate runs one guarded request and returns the assignment as the
// backend now reports it.
func (s *assignmentService) mutate(ctx context.Context, action inflight.Action, id string, call func() error) (*domain.Assignment, error) {
	err := s.gate.Do(action, func() error {
		return s.auth.HandleError(ctx, call())
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Accept claims a for the signed-in helper. The helper slot and payout
// are checked against a before anything is sent.
func (s *assignmentService) Accept(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	if a == nil {
		return nil, ErrNoAssignment
	}
	if err := workflow.Precheck(s.auth.Current(), a, workflow.Accept, workflow.Input{}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, inflight.Accept, a.ID, func() error {
		_, err := s.client.AcceptAssignment(ctx, a.ID)
		return err
	})
}

func (s *assignmentService) SubmitWork(ctx context.Context, a *domain.Assignment, files []domain.FileUpload) (*domain.Assignment, error) {
	if a == nil {
		return nil, ErrNoAssignment
	}
	in := workflow.Input{Files: make([]domain.Attachment, 0, len(files))}
	for _, f := range files {
		in.Files = append(in.Files, domain.Attachment{Filename: f.Filename})
	}
	if err := workflow.Precheck(s.auth.Current(), a, workflow.SubmitWork, in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, inflight.SubmitWork, a.ID, func() error {
		_, err := s.client.SubmitWork(ctx, a.ID, files)
		return err
	})
}

func (s *assignmentService) Review(ctx context.Context, a *domain.Assignment, r domain.Review) (*domain.Assignment, error) {
	if a == nil {
		return nil, ErrNoAssignment
	}
	t := workflow.Reject
	if r.Approved {
		t = workflow.Approve
	}
	if err := workflow.Precheck(s.auth.Current(), a, t, workflow.Input{Notes: r.Notes}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, inflight.Review, a.ID, func() error {
		_, err := s.client.ReviewAssignment(ctx, a.ID, r)
		return err
	})
}

func (s *assignmentService) summarize(ctx context.Context, call func() (string, error)) (string, error) {
	var out string
	err := s.gate.Do(inflight.Summarize, func() error {
		sum, err := call()
		if err != nil {
			return s.auth.HandleError(ctx, err)
		}
		out = sum
		return nil
	})
	return out, err
}

func (s *assignmentService) SummarizeDescription(ctx context.Context, id string) (string, error) {
	return s.summarize(ctx, func() (string, error) {
		return s.client.SummarizeDescription(ctx, id)
	})
}

func (s *assignmentService) SummarizeDocument(ctx context.Context, id, fileURL string) (string, error) {
	if fileURL == "" {
		return "", domain.NewValidationError("fileUrl", "File URL is required.")
	}
	return s.summarize(ctx, func() (string, error) {
		return s.client.SummarizeDocument(ctx, id, fileURL)
	})
}

func (s *assignmentService) Categories(ctx context.Context) (catalog.Catalog, error) {
	cats, err := s.client.Categories(ctx)
	return cats, s.auth.HandleError(ctx, err)
}

// SuggestCategory runs the keyword matcher over the backend's catalog.
func (s *assignmentService) SuggestCategory(ctx context.Context, description string) (string, bool, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return "", false, fmt.Errorf("load categories: %w", err)
	}
	name, ok := catalog.Suggest(description, cats)
	return name, ok, nil
}

func (s *assignmentService) Download(ctx context.Context, fileURL string, w io.Writer) error {
	return s.auth.HandleError(ctx, s.client.Download(ctx, fileURL, w))
}

// Deadline parses the deadline formats accepted by the create form.
func Deadline(raw string, loc *time.Location) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewValidationError("deadline", "Deadline must look like 2006-01-02 or 2006-01-02 15:04.")
}
