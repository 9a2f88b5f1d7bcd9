// Package server sets up the HTTP server, router and route definitions.
//
// This package is the composition root for the HTTP side: it receives an
// opened store, builds the services and handlers on top of it, and maps
// URLs to handlers. Keeping this out of main.go means tests can build the
// full router around an in-memory database.
//
//	main.go:    config → store (sqlite | postgres) → server.New
//	server.New: store → services → handlers → chi routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/pet-adoption/internal/auth"
	"github.com/sakif/pet-adoption/internal/handler"
	"github.com/sakif/pet-adoption/internal/middleware"
	"github.com/sakif/pet-adoption/internal/repository"
	"github.com/sakif/pet-adoption/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port           int
	JWTSecret      string
	TokenTTL       time.Duration
	AdoptionPolicy service.AdoptionPolicy
	SecureCookies  bool // set the Secure flag on the session cookie (HTTPS deployments)

	// ShutdownTimeout bounds how long in-flight requests may run after
	// SIGINT/SIGTERM. Zero means 30s.
	ShutdownTimeout time.Duration
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the store: Start closes it after the HTTP server has
// drained, so no request can observe a closed database.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.Store
}

// New wires the dependency graph around store.
func New(cfg Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("server: creating token service: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes(tokens)
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	GET    /healthz                  → DB ping
//	POST   /api/signup               → create account, returns token
//	POST   /api/login                → returns token
//	POST   /api/logout               → clears cookie
//	GET    /api/me                   → current user              [auth]
//	GET    /api/pets                 → list (owner_id, name, limit, offset)
//	GET    /api/pets/{id}            → one pet
//	GET    /api/pets/{id}/adoptions  → adoption history
//	POST   /api/pets                 → create, owner = caller    [auth]
//	PUT    /api/pets/{id}            → rename, owner only        [auth]
//	DELETE /api/pets/{id}            → delete, owner only        [auth]
//	GET    /api/favorites            → caller's favorites        [auth]
//	POST   /api/favorites            → add                       [auth]
//	DELETE /api/favorites/{id}       → remove, owner only        [auth]
//	GET    /api/adoptions            → caller's adoptions        [auth]
//	POST   /api/adoptions            → adopt {petId}             [auth]
//
// Middleware order: RequestID → RealIP → Logger → Recoverer. Logger sits
// outside Recoverer so panics are logged with the 500 they turn into.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.store, tokens, passwords, s.logger)
	petService := service.NewPetService(s.store, s.logger)
	favoriteService := service.NewFavoriteService(s.store, s.logger)
	adoptionService := service.NewAdoptionService(s.store, s.store, s.config.AdoptionPolicy, s.logger)
	s.logger.Info("adoption policy", slog.String("policy", string(adoptionService.Policy())))

	authHandler := handler.NewAuthHandler(authService, tokens.TTL(), s.config.SecureCookies, s.logger)
	petHandler := handler.NewPetHandler(petService, adoptionService, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, s.logger)
	adoptionHandler := handler.NewAdoptionHandler(adoptionService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Get("/pets", petHandler.HandleList)
		r.Get("/pets/{id}", petHandler.HandleGet)
		r.Get("/pets/{id}/adoptions", petHandler.HandleAdoptions)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, authService.UserExists))

			r.Get("/me", authHandler.HandleMe)

			r.Post("/pets", petHandler.HandleCreate)
			r.Put("/pets/{id}", petHandler.HandleRename)
			r.Delete("/pets/{id}", petHandler.HandleDelete)

			r.Get("/favorites", favoriteHandler.HandleList)
			r.Post("/favorites", favoriteHandler.HandleCreate)
			r.Delete("/favorites/{id}", favoriteHandler.HandleDelete)

			r.Get("/adoptions", adoptionHandler.HandleList)
			r.Post("/adoptions", adoptionHandler.HandleCreate)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"no such route"}` + "\n"))
	})
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting connections
//  2. wait for in-flight requests (ShutdownTimeout)
//  3. close the store
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run is Start with the shutdown trigger supplied by the caller.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

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
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
