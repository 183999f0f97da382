// Package server assembles the application: it opens the database,
// wires repositories into services and services into handlers, and
// owns the router and the server lifecycle. It is the composition
// root; nothing else constructs dependencies.
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

	"github.com/lvogel/gotodo/internal/auth"
	"github.com/lvogel/gotodo/internal/handler"
	"github.com/lvogel/gotodo/internal/middleware"
	sqliteRepo "github.com/lvogel/gotodo/internal/repository/sqlite"
	"github.com/lvogel/gotodo/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string
	SessionSecret string
}

// Server owns the router, the database connection, and the listen
// loop. The database is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and wires the full dependency chain:
// repositories, services, handlers, routes. Handlers never touch the
// database and services never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// setupRoutes configures middleware and route handlers.
//
// Route map:
//
//	GET  /register              registration form
//	POST /register              create account
//	GET  /login                 login form
//	POST /login                 authenticate, set session cookie
//	GET  /static/*              stylesheets
//	GET  /                      todo list            (auth required)
//	POST /todos                 add todo             (auth required)
//	POST /todos/{id}/toggle     flip completion      (auth required)
//	POST /todos/{id}/delete     remove todo          (auth required)
//	POST /logout                clear session cookie (auth required)
//
// All mutations are POSTs behind CSRF; GETs never change state.
func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	authService := service.NewAuthService(
		s.db.Users(),
		auth.NewPasswordService(),
		sessions,
		s.logger,
	)
	todoService := service.NewTodoService(s.db.Todos(), s.logger)

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	authHandler := handler.NewAuthHandler(authService, renderer, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, renderer, s.logger)

	// Global middleware, in execution order.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(handler.CSRF)
	s.router.Use(auth.CurrentUser(sessions, s.db.Users()))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/", todoHandler.HandleIndex)
		r.Post("/todos", todoHandler.HandleAdd)
		r.Post("/todos/{id}/toggle", todoHandler.HandleToggle)
		r.Post("/todos/{id}/delete", todoHandler.HandleDelete)
		r.Post("/logout", authHandler.HandleLogout)
	})

	return nil
}

// Router exposes the assembled handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests,
// close the database so the WAL is flushed.
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
			slog.String("database", s.config.DBPath),
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
