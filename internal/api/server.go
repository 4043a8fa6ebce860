// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rooftophq/rooftop/internal/contact"
	"github.com/rooftophq/rooftop/internal/listing"
	"github.com/rooftophq/rooftop/internal/platform/config"
	"github.com/rooftophq/rooftop/internal/platform/constants"
	"github.com/rooftophq/rooftop/internal/platform/middleware"
	"github.com/rooftophq/rooftop/internal/users/account"
	"github.com/rooftophq/rooftop/internal/users/auth"
	"github.com/rooftophq/rooftop/internal/users/wishlist"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the account lifecycle (registration, sessions, passwords).
	Auth *auth.Handler

	// Listing handles advertisement CRUD, search, and image uploads.
	Listing *listing.Handler

	// Account serves public agent profiles.
	Account *account.Handler

	// Wishlist manages saved ads on a buyer's account.
	Wishlist *wishlist.Handler

	// Contact relays buyer inquiries to sellers.
	Contact *contact.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Routes are mounted flat, without a version prefix, to stay compatible with
// the storefront clients already in the field.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, resolver middleware.UserResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// The wishlist mount is more specific than /users, so chi routes
	// /users/wishlist/* past the profile handler.
	r.Mount("/ad", h.Listing.Routes())
	r.Mount("/users/wishlist", h.Wishlist.Routes())
	r.Mount("/users", h.Account.Routes())
	r.Mount("/send-email", h.Contact.Routes())
	r.Mount("/", h.Auth.Routes())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
