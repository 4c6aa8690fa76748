package httpapi

import (
	"net/http"

	"mytasks/internal/service"
	"mytasks/internal/session"
)

type userResponse struct {
	User service.User `json:"user"`
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          service.User `json:"user"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decodeValid(w, r, &in) {
		return
	}
	s.signIn(w, r, http.StatusOK, "could not sign in", func() (service.AuthResult, error) {
		return s.svc.Login(r.Context(), in)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeValid(w, r, &in) {
		return
	}
	s.signIn(w, r, http.StatusCreated, "could not create account", func() (service.AuthResult, error) {
		return s.svc.Register(r.Context(), in)
	})
}

// signIn runs a login-like call and sets the cookies only on a valid result.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, status int, fallback string, call func() (service.AuthResult, error)) {
	res, err := call()
	if err != nil {
		s.relayError(w, r, err, fallback)
		return
	}
	if err := res.Validate(); err != nil {
		s.rejectResponse(w, r, err, fallback)
		return
	}
	s.relay.SetAuthTokens(w, res.Tokens())
	writeJSON(w, status, userResponse{User: res.User})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	rt := session.RefreshToken(r)
	if rt == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "no refresh token")
		return
	}

	tokens, err := s.svc.Refresh(r.Context(), rt)
	if err == nil {
		err = tokens.Validate()
	}
	if err != nil {
		// Any failure ends the session so the browser goes back to login.
		s.relay.ClearAuthCookies(w)
		msg := "could not refresh session"
		if statusOf(err) != 0 {
			s.log(r).Debug("refresh rejected", "err", err)
			msg = backendMessage(err, msg)
		} else {
			s.log(r).Error("refresh failed", "err", err)
		}
		writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
		return
	}

	s.relay.SetAuthTokens(w, tokens)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if rt := session.RefreshToken(r); rt != "" {
		if err := s.svc.Logout(r.Context(), rt); err != nil {
			s.log(r).Warn("token revoke failed", "err", err)
		}
	}
	s.relay.ClearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	const fallback = "could not load user"

	user, err := s.svc.Me(r.Context(), accessToken(r))
	if err != nil {
		s.relayError(w, r, err, fallback)
		return
	}
	if err := user.Validate(); err != nil {
		s.rejectResponse(w, r, err, fallback)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, User: user})
}
