package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

type userBody struct {
	User *domain.User `json:"user"`
}

type categoriesBody struct {
	Categories catalog.Catalog `json:"categories"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesBody{Categories: s.assignments.Categories()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), creds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user logged in", "user_id", res.User.ID)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRegisterHelper(w http.ResponseWriter, r *http.Request) {
	var form domain.HelperRegistration
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.RegisterHelper(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleDiscordRedirect sends the browser to the Discord consent page.
func (s *Server) handleDiscordRedirect(w http.ResponseWriter, r *http.Request) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	target, err := s.users.DiscordAuthURL(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// handleDiscordCallback shows the authorization code so it can be pasted
// into a terminal client.
func (s *Server) handleDiscordCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		msg := r.URL.Query().Get("error_description")
		if msg == "" {
			msg = "Discord did not return an authorization code."
		}
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Sign-in almost done. Paste this into assignhub:\n\noauth %s\n", code)
}

func (s *Server) handleDiscordExchange(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.ExchangeDiscordCode(r.Context(), body.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userBody{User: userFromContext(r.Context())})
}

func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.HelperRegistration(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
