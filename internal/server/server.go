// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//   config (port, DB path, JWT secret, bcrypt cost) → passed to Server
//   Server.New() creates: sqlite.DB → services → handlers
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
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

	"github.com/sakif/essence-compass/internal/auth"
	"github.com/sakif/essence-compass/internal/handler"
	"github.com/sakif/essence-compass/internal/middleware"
	sqliteRepo "github.com/sakif/essence-compass/internal/repository/sqlite"
	"github.com/sakif/essence-compass/internal/service"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy to:
// - Add new config options without changing function signatures
// - Pass config around as a single value
// - Load config from files/env vars in one place
type Config struct {
	Port       int
	DBPath     string // path to the SQLite database file
	JWTSecret  string // HMAC secret for session tokens (required)
	BcryptCost int    // 0 → library default cost
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection (db). When the server shuts down,
// we must close it to flush any pending writes and release the file lock.
// This is handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// DEPENDENCY INJECTION & WIRING:
// This is where the entire dependency chain is assembled:
//  1. Create the database connection (sqlite.New)
//  2. Create the auth primitives (TokenService, PasswordService)
//  3. Create the service layer with the DB
//  4. Create the handlers with the services
//  5. Wire handlers to routes
//
// Each layer only receives what it needs:
// - Services get repository interfaces (not the concrete sqlite.DB type)
// - Handlers get services (not repositories or the DB)
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		// Every data route requires a session, so a server without a
		// signing secret can't serve anything useful. Fail fast.
		return nil, fmt.Errorf("server: JWT secret is required")
	}

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
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST /register            → create an account (public)
// POST /login               → start a session (public)
// POST /logout              → end the session (requires session)
// GET  /api/me              → current user's profile (requires session)
// POST /api/check-in        → submit a mood/energy check-in (requires session)
// GET  /api/check-ins       → the caller's check-in history (requires session)
// POST /api/journal         → submit a journal entry (requires session)
// GET  /api/journal         → the caller's journal entries (requires session)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
// The auth middleware runs only on the protected groups, not globally.
func (s *Server) setupRoutes() error {
	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// Our custom logging middleware
	s.router.Use(middleware.Logger(s.logger))

	// === Auth primitives ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	passwords := auth.NewPasswordService()
	if s.config.BcryptCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	}

	// === Services and handlers ===
	// DEPENDENCY CHAIN:
	//   s.db (sqlite.DB) implements all three repository interfaces,
	//   services receive the interfaces, handlers receive the services.
	//   The handlers never touch the database directly; the services
	//   never touch HTTP.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	checkInService := service.NewCheckInService(s.db, s.logger)
	journalService := service.NewJournalService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	checkInHandler := handler.NewCheckInHandler(checkInService, s.logger)
	journalHandler := handler.NewJournalHandler(journalService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	// === Public routes ===
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	// Logout requires an active session: an anonymous "logout" is a 401,
	// so the middleware guards it even though the handler itself only
	// clears a cookie.
	s.router.With(requireAuth).Post("/logout", authHandler.HandleLogout)

	// === Protected API routes ===
	s.router.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", authHandler.HandleMe)
		r.Post("/check-in", checkInHandler.HandleCreate)
		r.Get("/check-ins", checkInHandler.HandleList)
		r.Post("/journal", journalHandler.HandleCreate)
		r.Get("/journal", journalHandler.HandleList)
	})

	return nil
}

// Handler returns the server's root http.Handler.
// Tests use this to drive the full middleware+router stack through
// httptest without opening a real port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources (the database connection).
// Start() does this automatically; tests that never call Start() use
// Close() directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// If we skip step 3, the database file might be left in an inconsistent state.
// The `defer s.db.Close()` ensures this happens even if something panics.
func (s *Server) Start() error {
	// Ensure the database is closed when the server stops.
	defer s.db.Close()

	// Create the HTTP server with sensible timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine (so it doesn't block)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		// Server failed to start
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		// Received shutdown signal
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
