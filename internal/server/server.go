// Package server exposes the thin REST API over the task store: todo and
// user CRUD, the Telegram notify endpoint, and read models for the matrix
// and calendar views. JSON uses the clients' camelCase field names over
// the store's snake_case columns.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskflow-app/taskflowd/internal/notify"
	"github.com/taskflow-app/taskflowd/internal/storage"
)

type Server struct {
	httpServer *http.Server
	repo       storage.Repository
	logger     *slog.Logger
	clock      func() time.Time
	// dispatcherFor builds the remote channel for an arbitrary chat id;
	// swapped out in tests.
	dispatcherFor func(chatID string) notify.Dispatcher
}

type Options struct {
	Repo          storage.Repository
	Logger        *slog.Logger
	Addr          string
	TelegramToken string
	Clock         func() time.Time
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Server{
		repo:   opts.Repo,
		logger: logger,
		clock:  clock,
		dispatcherFor: func(chatID string) notify.Dispatcher {
			return notify.NewTelegramDispatcher(opts.TelegramToken, chatID)
		},
	}

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", s.handleListTodos)
		r.Post("/", s.handleCreateTodo)
		r.Post("/batch", s.handleCreateTodoBatch)
		r.Put("/{id}", s.handleUpdateTodo)
		r.Delete("/{id}", s.handleDeleteTodo)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Get("/{id}", s.handleGetUser)
		r.Put("/{id}", s.handleUpdateUser)
	})

	r.Post("/api/notify/telegram", s.handleNotifyTelegram)
	r.Get("/api/matrix", s.handleMatrix)
	r.Get("/api/calendar/{year}/{month}", s.handleCalendar)

	return r
}

// Handler exposes the routed mux; tests hit it through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
