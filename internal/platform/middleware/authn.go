// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/ctxutil"
	"github.com/rooftophq/rooftop/internal/platform/respond"
	"github.com/rooftophq/rooftop/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error)
}

// UserResolver reports whether the account behind a set of claims still exists.
// Tokens outlive account deletion, so every authenticated request re-checks.
type UserResolver interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Confirm the account still exists via [UserResolver].
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// Verification failures do NOT abort the request: a bad, expired, or orphaned
// token simply downgrades the request to anonymous. Handlers that need an
// identity sit behind [RequireAuth], which turns anonymous into 401. Public
// handlers keep working for clients holding stale tokens.
func Authenticate(verifier TokenVerifier, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(parts[1])
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Liveness Check ─────────────────────────────────────────────
			exists, err := resolver.Exists(request.Context(), claims.UserID)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
					"auth_liveness_check_failed",
					slog.String("user_id", claims.UserID),
					slog.String("error", err.Error()),
				)
			}
			if err != nil || !exists {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
