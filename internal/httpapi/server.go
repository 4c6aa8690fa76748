// Package httpapi serves the browser-facing API and pages. It relays auth
// tokens through httpOnly cookies and proxies task calls to the backend.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mytasks/internal/config"
	"mytasks/internal/gate"
	"mytasks/internal/logging"
	"mytasks/internal/service"
	"mytasks/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Server wires the handlers to a backend.
type Server struct {
	cfg    config.ServerConfig
	svc    service.Service
	relay  *session.Relay
	logger *slog.Logger
}

// NewServer creates a server. A nil logger discards logs.
func NewServer(cfg config.ServerConfig, svc service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		cfg:    cfg,
		svc:    svc,
		relay:  session.NewRelay(cfg.Production()),
		logger: logger,
	}
}

// Handler returns the full router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Logging(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(middleware.Compress(5))
	r.Use(gate.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
			r.With(requireAccessToken).Get("/me", s.handleMe)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(requireAccessToken)
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Patch("/", s.handleUpdateTask)
				r.Delete("/", s.handleDeleteTask)
				r.Patch("/status", s.handleUpdateTaskStatus)
			})
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, codeNotFound, "no such endpoint")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, codeError, "method not allowed")
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
	})
	r.Handle("/static/*", s.staticHandler())
	r.NotFound(s.pageHandler().ServeHTTP)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Leave room for the slowest backend call.
		WriteTimeout: s.cfg.Timeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.ListenAddr, "env", s.cfg.Env, "backend", s.cfg.BackendURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) log(r *http.Request) *slog.Logger {
	return s.logger.With("request_id", middleware.GetReqID(r.Context()))
}
