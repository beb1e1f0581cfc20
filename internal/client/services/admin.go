package services

import (
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/client/client"
	"github.com/dmitrijs2005/assignhub/internal/client/inflight"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/workflow"
)

// AdminService backs the admin console.
type AdminService interface {
	Assignments(ctx context.Context) ([]domain.Assignment, error)
	Users(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) error
	DeleteUser(ctx context.Context, id string) (string, error)
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
	RegistrationStatus(ctx context.Context) (*domain.RegistrationStatus, error)
	SetRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error)
	SetPayout(ctx context.Context, id string, amount float64) (*domain.Assignment, error)
	RecordPayout(ctx context.Context, a *domain.Assignment, rec domain.PayoutRecord) (*domain.Assignment, error)
	ExportReport(ctx context.Context, w io.Writer) error
}

type adminService struct {
	client client.Client
	auth   AuthService
	log    logging.Logger
	gate   inflight.Gate
}

func NewAdminService(c client.Client, auth AuthService, log logging.Logger) AdminService {
	return &adminService{client: c, auth: auth, log: log}
}

func (s *adminService) Assignments(ctx context.Context) ([]domain.Assignment, error) {
	list, err := s.client.AdminAssignments(ctx)
	return list, s.auth.HandleError(ctx, err)
}

func (s *adminService) Users(ctx context.Context) ([]domain.User, error) {
	list, err := s.client.AdminUsers(ctx)
	return list, s.auth.HandleError(ctx, err)
}

// UpdateUser saves roles first, then the active flag. A failure on the
// second call leaves the roles change in place.
func (s *adminService) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) error {
	roles := upd.Roles.Normalize()
	return s.gate.Do(inflight.EditUser, func() error {
		if err := s.client.UpdateUserRoles(ctx, id, roles); err != nil {
			return s.auth.HandleError(ctx, err)
		}
		if err := s.client.UpdateUserStatus(ctx, id, upd.IsActive); err != nil {
			return s.auth.HandleError(ctx, err)
		}
		s.log.Info(ctx, "user updated", "user_id", id, "roles", roles, "active", upd.IsActive)
		return nil
	})
}

func (s *adminService) DeleteUser(ctx context.Context, id string) (string, error) {
	var msg string
	err := s.gate.Do(inflight.DeleteUser, func() error {
		m, err := s.client.DeleteUser(ctx, id)
		if err != nil {
			return s.auth.HandleError(ctx, err)
		}
		msg = m
		return nil
	})
	return msg, err
}

func (s *adminService) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	sum, err := s.client.FinancialSummary(ctx)
	return sum, s.auth.HandleError(ctx, err)
}

func (s *adminService) RegistrationStatus(ctx context.Context) (*domain.RegistrationStatus, error) {
	st, err := s.client.RegistrationStatus(ctx)
	return st, s.auth.HandleError(ctx, err)
}

// SetRegistration opens or closes helper registration and returns the
// state as re-read from the backend.
func (s *adminService) SetRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error) {
	err := s.gate.Do(inflight.ToggleRegistration, func() error {
		_, err := s.client.SetRegistration(ctx, open)
		return s.auth.HandleError(ctx, err)
	})
	if err != nil {
		return nil, err
	}
	return s.RegistrationStatus(ctx)
}

func (s *adminService) SetPayout(ctx context.Context, id string, amount float64) (*domain.Assignment, error) {
	if err := workflow.Precheck(s.auth.Current(), nil, workflow.SetPayout, workflow.Input{Payout: amount}); err != nil {
		return nil, err
	}
	err := s.gate.Do(inflight.SetPayout, func() error {
		_, err := s.client.SetPayout(ctx, id, amount)
		return s.auth.HandleError(ctx, err)
	})
	if err != nil {
		return nil, err
	}
	a, err := s.client.GetAssignment(ctx, id)
	return a, s.auth.HandleError(ctx, err)
}

func (s *adminService) RecordPayout(ctx context.Context, a *domain.Assignment, rec domain.PayoutRecord) (*domain.Assignment, error) {
	if a == nil {
		return nil, ErrNoAssignment
	}
	rec.TransactionID = strings.TrimSpace(rec.TransactionID)
	if err := workflow.Precheck(s.auth.Current(), a, workflow.MarkPaid, workflow.Input{TransactionID: rec.TransactionID}); err != nil {
		return nil, err
	}
	err := s.gate.Do(inflight.RecordPayout, func() error {
		_, err := s.client.RecordPayout(ctx, a.ID, rec)
		return s.auth.HandleError(ctx, err)
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.client.GetAssignment(ctx, a.ID)
	return updated, s.auth.HandleError(ctx, err)
}

func (s *adminService) ExportReport(ctx context.Context, w io.Writer) error {
	return s.auth.HandleError(ctx, s.client.ExportReport(ctx, w))
}
