// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// HTTP delivery layer for the credential lifecycle.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rooftophq/rooftop/internal/platform/middleware"
	"github.com/rooftophq/rooftop/internal/platform/request"
	"github.com/rooftophq/rooftop/internal/platform/respond"
	"github.com/rooftophq/rooftop/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Password Reset, Session Refresh).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /pre-register    : Parks a registration, sends the confirmation email.
//   - POST /register        : Redeems the confirmation link, creates the account.
//   - POST /forget-password : Sends the reset link.
//   - POST /access-account  : Redeems the reset link, returns a session.
//   - POST /refresh-token   : Exchanges a refresh token for a new pair.
//   - PUT  /update-password : Changes the authenticated user's password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/pre-register", handler.preRegister)
	router.Post("/register", handler.register)
	router.Post("/forget-password", handler.forgetPassword)
	router.Post("/access-account", handler.accessAccount)
	router.Post("/refresh-token", handler.refreshToken)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Put("/update-password", handler.updatePassword)
	})

	return router
}

// # Registration

// preRegisterRequest represents the JSON payload starting a registration.
type preRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// preRegister handles POST /pre-register requests.
func (handler *Handler) preRegister(writer http.ResponseWriter, req *http.Request) {
	var input preRegisterRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.authService.PreRegister(req.Context(), input.Email, input.Password); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "Pre-registration successful. Please check your email to complete registration.")
}

// registerRequest carries the confirmation link token back to the server.
type registerRequest struct {
	Token string `json:"token"`
}

// register handles POST /register requests.
//
// # Returns
//   - Writes HTTP 201 Created with {token, refreshToken, user}.
//   - Writes HTTP 401 Unauthorized for bad or expired links.
func (handler *Handler) register(writer http.ResponseWriter, req *http.Request) {
	var input registerRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if input.Token == "" {
		respond.Error(writer, req, validate.RequiredError("token", "This field is required"))
		return
	}

	session, err := handler.authService.ConfirmRegistration(req.Context(), input.Token)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, map[string]any{
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
		"user":         session.User,
	})
}

// # Password Reset

// forgetPasswordRequest identifies the account to reset.
type forgetPasswordRequest struct {
	Email string `json:"email"`
}

// forgetPassword handles POST /forget-password requests.
func (handler *Handler) forgetPassword(writer http.ResponseWriter, req *http.Request) {
	var input forgetPasswordRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(req.Context(), input.Email); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Message(writer, "A password reset link has been sent.")
}

// accessAccountRequest carries the reset link token back to the server.
type accessAccountRequest struct {
	Token string `json:"token"`
}

// accessAccount handles POST /access-account requests.
func (handler *Handler) accessAccount(writer http.ResponseWriter, req *http.Request) {
	var input accessAccountRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if input.Token == "" {
		respond.Error(writer, req, validate.RequiredError("token", "This field is required"))
		return
	}

	session, err := handler.authService.AccessAccount(req.Context(), input.Token)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]any{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"user":         session.User,
	})
}

// # Session Maintenance

// refreshTokenRequest is the body form of a refresh request.
type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshToken handles POST /refresh-token requests.
//
// The refresh token rides in the Authorization header, with a body
// {refreshToken} fallback for clients that post it instead. The soft
// authentication middleware ignores the header (wrong purpose), so it is
// read here directly.
func (handler *Handler) refreshToken(writer http.ResponseWriter, req *http.Request) {
	token := bearerToken(req)
	if token == "" {
		var input refreshTokenRequest
		if err := request.DecodeJSON(req, &input); err == nil {
			token = input.RefreshToken
		}
	}
	if token == "" {
		respond.Error(writer, req, validate.RequiredError("token", "Refresh token is required"))
		return
	}

	session, err := handler.authService.RefreshSession(req.Context(), token)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]any{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"user":         session.User,
	})
}

// updatePasswordRequest carries the new password.
type updatePasswordRequest struct {
	Password string `json:"password"`
}

// updatePassword handles PUT /update-password requests.
func (handler *Handler) updatePassword(writer http.ResponseWriter, req *http.Request) {
	userID, err := request.RequiredUserID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updatePasswordRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	user, err := handler.authService.ChangePassword(req.Context(), userID, input.Password)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, map[string]any{"user": user})
}

// bearerToken extracts the raw token from an Authorization: Bearer header.
func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
