package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/services"
)

type assignmentBody struct {
	Message    string             `json:"message,omitempty"`
	Assignment *domain.Assignment `json:"assignment"`
}

type assignmentsBody struct {
	Assignments []domain.Assignment `json:"assignments"`
}

type summaryBody struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

func writeAssignments(w http.ResponseWriter, list []domain.Assignment) {
	if list == nil {
		list = []domain.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignmentsBody{Assignments: list})
}

// statusParam reads the optional ?status= filter.
func statusParam(r *http.Request) (domain.Status, error) {
	st := domain.Status(r.URL.Query().Get("status"))
	if st != "" && !st.Valid() {
		return "", domain.NewValidationError("status", "Unknown status.")
	}
	return st, nil
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	form, err := assignmentForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	files, closeFiles, err := openFiles(r, "attachments")
	defer closeFiles()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.assignments.Create(r.Context(), userFromContext(r.Context()), form, files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignmentBody{Message: "Assignment created successfully.", Assignment: a})
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	st, err := statusParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f := services.ListFilter{Status: st}
	if raw := r.URL.Query().Get("assignedToMe"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, domain.NewValidationError("assignedToMe", "assignedToMe must be true or false."))
			return
		}
		f.AssignedToMe = &v
	}

	list, err := s.assignments.List(r.Context(), userFromContext(r.Context()), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAssignments(w, list)
}

func (s *Server) handleListOwned(w http.ResponseWriter, r *http.Request) {
	list, err := s.assignments.ListOwned(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAssignments(w, list)
}

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := s.assignments.Get(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentBody{Assignment: a})
}

// respond writes the outcome of a status transition.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, message string, a *domain.Assignment, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentBody{Message: message, Assignment: a})
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	a, err := s.assignments.Accept(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	s.respond(w, r, "Assignment accepted successfully.", a, err)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	files, closeFiles, err := openFiles(r, "completedWorkAttachments")
	defer closeFiles()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.assignments.Complete(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), files)
	s.respond(w, r, "Work submitted for review.", a, err)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if err := decodeJSON(w, r, &review); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.assignments.Review(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), review)
	msg := "Changes requested."
	if review.Approved {
		msg = "Work approved."
	}
	s.respond(w, r, msg, a, err)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	a, err := s.assignments.Cancel(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	s.respond(w, r, "Assignment cancelled.", a, err)
}

func (s *Server) handleSummarizeDescription(w http.ResponseWriter, r *http.Request) {
	sum, err := s.assignments.SummarizeDescription(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryBody{Message: "Summary generated.", Summary: sum})
}

func (s *Server) handleSummarizeDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FileURL string `json:"fileUrl"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.FileURL == "" {
		s.writeError(w, r, domain.NewValidationError("fileUrl", "fileUrl is required."))
		return
	}

	sum, err := s.assignments.SummarizeDocument(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), body.FileURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryBody{Message: "Summary generated.", Summary: sum})
}

// handleFile redirects to a presigned download link for the stored file.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	target, err := s.assignments.FileURL(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}
