// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the wiring layer: the composition root where the whole
// dependency chain is assembled:
//
//	sqlite.DB → AccountService / RosterService → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get service interfaces, and nothing below the
// handlers knows about HTTP. main.go stays minimal: read config, call
// server.New, call Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mergington/activities/internal/handler"
	"github.com/mergington/activities/internal/middleware"
	"github.com/mergington/activities/internal/model"
	sqliteRepo "github.com/mergington/activities/internal/repository/sqlite"
	"github.com/mergington/activities/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	StaticDir string // directory served under /static/
	DSN       string // SQLite DSN; sqlite.InMemory unless a test overrides it
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database handle. The database is in-memory, so
// closing it on shutdown discards all state: both stores live exactly as
// long as the process.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the store, seeds the roster, and wires all
// routes. On any failure the database is closed before returning.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.DSN == "" {
		cfg.DSN = sqliteRepo.InMemory
	}

	db, err := sqliteRepo.New(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, seeds the roster, and maps every
// operation to its route:
//
//	POST   /register/{collection}
//	POST   /login/{collection}
//	GET    /profile/{collection}/{email}
//	PUT    /profile/{collection}/{email}
//	PUT    /change-password/{collection}/{email}
//	GET    /activities
//	POST   /activities/{name}/signup
//	DELETE /activities/{name}/unregister
//	GET    /            → redirect to the static UI
//	GET    /static/*    → browser UI files
func (s *Server) setupRoutes() error {
	// Middleware runs in the order it's added.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	accountService := service.NewAccountService(s.db, s.logger)
	rosterService := service.NewRosterService(s.db, s.logger)

	// The roster is fixed at startup: seed it here, before the first
	// request can arrive.
	if err := rosterService.Seed(context.Background(), model.SeedActivities()); err != nil {
		return err
	}

	accountHandler := handler.NewAccountHandler(accountService, s.logger)
	rosterHandler := handler.NewRosterHandler(rosterService, s.logger)

	s.router.Post("/register/{collection}", accountHandler.HandleRegister)
	s.router.Post("/login/{collection}", accountHandler.HandleLogin)
	s.router.Get("/profile/{collection}/{email}", accountHandler.HandleGetProfile)
	s.router.Put("/profile/{collection}/{email}", accountHandler.HandleUpdateProfile)
	s.router.Put("/change-password/{collection}/{email}", accountHandler.HandleChangePassword)

	s.router.Get("/activities", rosterHandler.HandleList)
	s.router.Post("/activities/{name}/signup", rosterHandler.HandleSignup)
	s.router.Delete("/activities/{name}/unregister", rosterHandler.HandleUnregister)

	// Browser UI: a static single-page app.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
	})

	return nil
}

// Handler returns the root http.Handler. Useful for tests that want to
// drive the full route table without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown.
//
// Graceful shutdown: stop accepting connections, give in-flight requests
// 30 seconds to finish, then close the store.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
