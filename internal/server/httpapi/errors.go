package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/services"
	"github.com/dmitrijs2005/assignhub/internal/workflow"
)

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msg
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	if !strings.ContainsRune(".!?", r[len(r)-1]) {
		r = append(r, '.')
	}
	return string(r)
}

// classify maps a service error to a status code and the message shown to
// the user. Unknown errors are internal.
func classify(err error) (int, string) {
	var (
		verr *domain.ValidationError
		perr *workflow.PreconditionError
	)

	switch {
	case errors.As(err, &verr), errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, sentence(err.Error())

	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Your session has expired. Please sign in again."
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token. Please sign in again."
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, common.ErrInactiveUser), errors.Is(err, workflow.ErrInactiveUser):
		return http.StatusUnauthorized, "Your account is inactive. Contact an administrator."

	case errors.Is(err, common.ErrRegistrationClosed):
		return http.StatusForbidden, "Helper registration is currently closed."
	case errors.Is(err, common.ErrorForbidden), errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."

	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found."
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "Already exists."

	case errors.As(err, &perr):
		if badInput(perr.Err) {
			return http.StatusBadRequest, sentence(perr.Err.Error())
		}
		return http.StatusConflict, sentence(perr.Err.Error())

	case errors.Is(err, services.ErrUnsupportedDocument), errors.Is(err, services.ErrNothingToSummarize):
		return http.StatusUnprocessableEntity, sentence(err.Error())
	case errors.Is(err, services.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge, sentence(err.Error())
	case errors.Is(err, services.ErrDiscordNotConfigured):
		return http.StatusServiceUnavailable, sentence(err.Error())
	}
	return http.StatusInternalServerError, "Internal server error."
}

// badInput reports workflow refusals caused by missing or invalid request
// data rather than the assignment's state.
func badInput(err error) bool {
	return errors.Is(err, workflow.ErrMissingTransactionID) ||
		errors.Is(err, workflow.ErrNoFiles) ||
		errors.Is(err, workflow.ErrInvalidAmount)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug(r.Context(), "request refused", "path", r.URL.Path, "status", status, "error", err)
	}
	writeMessage(w, status, msg)
}
