package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/repomanager"
)

const helperRegistrationKey = "helper_registration"

type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{db: db, repomanager: m}
}

type registrationSetting struct {
	IsOpen bool `json:"isOpen"`
}

func registrationStatus(open bool) *domain.RegistrationStatus {
	st := &domain.RegistrationStatus{IsOpen: open, Message: "Helper registration is open."}
	if !open {
		st.Message = "Helper registration is currently closed."
	}
	return st
}

// HelperRegistration reports whether helpers may self-register. A missing
// setting counts as open.
func (s *SettingsService) HelperRegistration(ctx context.Context) (*domain.RegistrationStatus, error) {
	raw, err := s.repomanager.Settings(s.db).Get(ctx, helperRegistrationKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return registrationStatus(true), nil
		}
		return nil, err
	}

	var v registrationSetting
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return registrationStatus(v.IsOpen), nil
}

func (s *SettingsService) SetHelperRegistration(ctx context.Context, open bool) (*domain.RegistrationStatus, error) {
	raw, err := json.Marshal(registrationSetting{IsOpen: open})
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Settings(s.db).Set(ctx, helperRegistrationKey, raw); err != nil {
		return nil, err
	}
	return registrationStatus(open), nil
}
