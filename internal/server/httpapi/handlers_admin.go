package httpapi

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/assignhub/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type usersBody struct {
	Users []domain.User `json:"users"`
}

func (s *Server) handleAdminAssignments(w http.ResponseWriter, r *http.Request) {
	st, err := statusParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.assignments.ListAll(r.Context(), st)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAssignments(w, list)
}

func (s *Server) handleSetPayout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount float64 `json:"helperPayoutAmount"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.assignments.SetPayout(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), body.Amount)
	s.respond(w, r, "Helper payout set.", a, err)
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	var rec domain.PayoutRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.assignments.Pay(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), rec)
	s.respond(w, r, "Payout recorded.", a, err)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.User{}
	}
	writeJSON(w, http.StatusOK, usersBody{Users: list})
}

func (s *Server) handleUpdateRoles(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Roles []string `json:"roles"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, raw := range body.Roles {
		if !domain.Role(raw).Valid() {
			s.writeError(w, r, domain.NewValidationError("roles", "Unknown role "+raw+"."))
			return
		}
	}

	if err := s.users.UpdateRoles(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), domain.ParseRoles(body.Roles)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "User roles updated.")
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsActive *bool `json:"isActive"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.IsActive == nil {
		s.writeError(w, r, domain.NewValidationError("isActive", "isActive is required."))
		return
	}

	if err := s.users.SetActive(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), *body.IsActive); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "User status updated.")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully.")
}

func (s *Server) handleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.assignments.FinancialSummary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleSetRegistration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsOpen *bool `json:"isOpen"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.IsOpen == nil {
		s.writeError(w, r, domain.NewValidationError("isOpen", "isOpen is required."))
		return
	}

	st, err := s.settings.SetHelperRegistration(r.Context(), *body.IsOpen)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "helper registration changed", "open", st.IsOpen, "by", userFromContext(r.Context()).ID)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleToggleRegistration(w http.ResponseWriter, r *http.Request) {
	cur, err := s.settings.HelperRegistration(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.settings.SetHelperRegistration(r.Context(), !cur.IsOpen)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleReport renders the workbook in memory so failures still produce a
// JSON error instead of a truncated file.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.reports.WriteAssignments(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="assignments.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
