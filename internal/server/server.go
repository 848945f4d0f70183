// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the entire dependency chain is assembled
// here (sqlite.DB → UserService → UserHandler), and each layer only
// receives what it needs — the service gets the repository interface, the
// handler gets the service. main.go stays minimal.
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

	"github.com/sakif/account-api/internal/auth"
	"github.com/sakif/account-api/internal/handler"
	"github.com/sakif/account-api/internal/middleware"
	sqliteRepo "github.com/sakif/account-api/internal/repository/sqlite"
	"github.com/sakif/account-api/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port        int
	DBPath      string // path to the SQLite database file
	JWTSecret   string // process-wide signing secret, read-only after start
	TemplateDir string
	StaticDir   string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency graph wired.
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

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                  → profile page (HTML)
//	GET    /static/*          → static assets
//	POST   /signup            → register
//	POST   /signin            → login (sets jwt cookie)
//	POST   /signout           → clear jwt cookie
//	GET    /users             → list users           (auth)
//	GET    /users/me          → own profile          (auth)
//	GET    /users/{userId}    → profile by id        (auth)
//	PATCH  /users/me          → update name/about    (auth)
//	PATCH  /users/me/avatar   → update avatar        (auth)
//
// Middleware order matters: RequestID and RealIP first so the logger sees
// them, Recoverer so a panicking handler becomes a 500 instead of a crash.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db, tokens, passwords, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	// Public routes — no session required
	s.router.Post("/signup", userHandler.HandleRegister)
	s.router.Post("/signin", userHandler.HandleLogin)
	s.router.Post("/signout", userHandler.HandleLogout)

	// Protected routes — RequireAuth verifies the jwt cookie and puts the
	// userID in the request context
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/users", userHandler.HandleList)
		r.Get("/users/me", userHandler.HandleGetMe)
		r.Get("/users/{userId}", userHandler.HandleGetByID)
		r.Patch("/users/me", userHandler.HandleUpdateProfile)
		r.Patch("/users/me/avatar", userHandler.HandleUpdateAvatar)
	})

	// Static front-end
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	profileHandler, err := handler.NewProfileHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating profile handler: %w", err)
	}
	s.router.Get("/", profileHandler.HandleProfile)

	return nil
}

// Start runs the HTTP server and handles graceful shutdown:
// stop accepting connections, give in-flight requests 30 seconds to
// finish, then close the database.
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
