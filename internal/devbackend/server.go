package devbackend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mytasks/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// Server exposes a Store over the backend's HTTP contract.
type Server struct {
	store  *Store
	logger *slog.Logger
}

// NewServer creates a server for store. logger may be nil.
func NewServer(store *Store, logger *slog.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.logger != nil {
		r.Use(s.logRequests)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Delete("/logout", s.handleLogout)
		r.With(s.bearer).Get("/me", s.handleMe)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(s.bearer)
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Patch("/{id}", s.handleUpdate)
		r.Patch("/{id}/status", s.handleStatus)
		r.Delete("/{id}", s.handleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NotFound", "no such endpoint")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("devbackend request", "method", r.Method, "path", r.URL.Path, "status", ww.Status())
	})
}

// bearer authenticates the Authorization header.
func (s *Server) bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		user, err := s.store.Authenticate(token)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) service.User {
	u, _ := r.Context().Value(userKey).(service.User)
	return u
}

func userID(r *http.Request) string {
	return currentUser(r).ID
}

type tokenBody struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decode(w, r, &in) {
		return
	}
	res, err := s.store.Register(in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decode(w, r, &in) {
		return
	}
	res, err := s.store.Login(in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in tokenBody
	if !decode(w, r, &in) {
		return
	}
	tokens, err := s.store.Refresh(in.RefreshToken)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var in tokenBody
	if !decode(w, r, &in) {
		return
	}
	s.store.Logout(in.RefreshToken)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	f, err := service.ParseTaskFilters(r.URL.Query())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	page, err := s.store.ListTasks(userID(r), f)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreateTaskInput
	if !decode(w, r, &in) {
		return
	}
	task, err := s.store.CreateTask(userID(r), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateTaskInput
	if !decode(w, r, &in) {
		return
	}
	task, err := s.store.UpdateTask(userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateTaskStatusInput
	if !decode(w, r, &in) {
		return
	}
	task, err := s.store.UpdateStatus(userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(userID(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "ValidationError", "invalid JSON")
		return false
	}
	return true
}

type errorBody struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details []service.Issue `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

// writeStoreError maps store errors to the contract's status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "ValidationError", Message: verr.Error(), Details: verr.Issues})
	case errors.Is(err, ErrInvalidCursor):
		writeError(w, http.StatusBadRequest, "ValidationError", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Unauthorized", ErrInvalidCredentials.Error())
	case errors.Is(err, ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Unauthorized", ErrInvalidToken.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "NotFound", "task not found")
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, "Conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "InternalError", "internal error")
	}
}
