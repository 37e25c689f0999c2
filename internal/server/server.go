// Package server wires the application together: config, database, services,
// handlers, routes, and the HTTP server lifecycle.
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
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/haitezaz/workedin-pakistan-connect/internal/auth"
	"github.com/haitezaz/workedin-pakistan-connect/internal/handler"
	"github.com/haitezaz/workedin-pakistan-connect/internal/middleware"
	"github.com/haitezaz/workedin-pakistan-connect/internal/repository/sqlite"
	"github.com/haitezaz/workedin-pakistan-connect/internal/service"
)

// Config holds everything the server needs from its environment.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	// BcryptCost overrides the password hashing work factor. Zero means the
	// production default.
	BcryptCost int
}

// Server owns the HTTP listener and the resources behind it.
type Server struct {
	cfg    Config
	router *chi.Mux
	db     *sqlite.DB
	logger *slog.Logger
}

// New builds a fully wired server: database open and migrated, services
// constructed, every route registered. Nothing is listening yet — Start does
// that.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("server: opening store: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("server: %w", err)
	}
	passwords := auth.NewPasswordService(cfg.BcryptCost)

	authSvc := service.NewAuthService(db.Users(), db.Skills(), tokens, passwords, logger)
	jobSvc := service.NewJobService(db.Jobs(), db.Applications(), db.Skills(), logger)
	gigSvc := service.NewGigService(db.Gigs(), db.Applications(), db.Skills(), logger)

	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		db:     db,
		logger: logger,
	}
	s.setupRoutes(
		tokens,
		handler.NewAuthHandler(authSvc, logger),
		handler.NewJobHandler(jobSvc, logger),
		handler.NewGigHandler(gigSvc, logger),
		handler.NewAdminHandler(authSvc, jobSvc, gigSvc, logger),
	)
	return s, nil
}

// setupRoutes registers the middleware chain and every route.
//
// ROUTE LAYOUT:
//   - /auth/*          — public: register, login, logout
//   - /api/jobs, /gigs — public browse (anyone can look at the boards)
//   - /api/me          — any authenticated role
//   - /api/worker/*    — worker gate
//   - /api/employer/*  — employer gate
//   - /api/admin/*     — admin gate
//
// RestoreSession runs globally so every request, public ones included, knows
// who (if anyone) is making it. The gates then only decide access, never
// identity.
func (s *Server) setupRoutes(
	tokens *auth.TokenService,
	authH *handler.AuthHandler,
	jobH *handler.JobHandler,
	gigH *handler.GigHandler,
	adminH *handler.AdminHandler,
) {
	r := s.router

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(auth.RestoreSession(tokens))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.HandleRegister)
		r.Post("/login", authH.HandleLogin)
		r.Post("/logout", authH.HandleLogout)
	})

	r.Route("/api", func(r chi.Router) {
		// Public boards. Browsing requires no session at all.
		r.Get("/jobs", jobH.HandleBrowse)
		r.Get("/jobs/cities", jobH.HandleCities)
		r.Get("/jobs/{jobID}", jobH.HandleGet)
		r.Get("/gigs", gigH.HandleBrowse)
		r.Get("/gigs/cities", gigH.HandleCities)
		r.Get("/gigs/{gigID}", gigH.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/me", authH.HandleMe)
		})

		r.Route("/worker", func(r chi.Router) {
			r.Use(auth.RequireGroup(auth.GroupWorker))
			r.Put("/profile", authH.HandleUpdateProfile)
			r.Post("/jobs/{jobID}/apply", jobH.HandleApply)
			r.Post("/gigs/{gigID}/apply", gigH.HandleApply)
		})

		r.Route("/employer", func(r chi.Router) {
			r.Use(auth.RequireGroup(auth.GroupEmployer))
			r.Post("/jobs", jobH.HandlePost)
			r.Get("/jobs", jobH.HandleListMine)
			r.Get("/jobs/{jobID}/applications", jobH.HandleApplications)
			r.Post("/jobs/{jobID}/close", jobH.HandleClose)
			r.Post("/jobs/{jobID}/filled", jobH.HandleMarkFilled)
			r.Post("/applications/{applicationID}/decide", jobH.HandleDecide)

			r.Post("/gigs", gigH.HandlePost)
			r.Get("/gigs", gigH.HandleListMine)
			r.Get("/gigs/{gigID}/applications", gigH.HandleApplications)
			r.Post("/gigs/{gigID}/close", gigH.HandleClose)
			r.Post("/gigs/{gigID}/complete", gigH.HandleComplete)
			r.Post("/gig-applications/{applicationID}/decide", gigH.HandleDecide)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireGroup(auth.GroupAdmin))
			r.Get("/users/{role}", adminH.HandleListUsers)
			r.Get("/users/{role}/{userID}", adminH.HandleGetUser)
			r.Get("/jobs", adminH.HandleListJobs)
			r.Get("/gigs", adminH.HandleListGigs)
		})
	})
}

// Router exposes the configured mux, mainly for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests up to ten
// seconds to finish, close the store.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "port", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.db.Close()
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		s.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.db.Close()
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("server: closing store: %w", err)
	}
	s.logger.Info("shutdown complete")
	return nil
}
