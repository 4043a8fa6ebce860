// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/email"
	"github.com/rooftophq/rooftop/internal/platform/sec"
	"github.com/rooftophq/rooftop/internal/platform/validate"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

// TokenManager defines the contract for minting and verifying security tokens.
//
// # Why an interface?
//
// The service cares about purposes and claims, not signing algorithms.
// Tests inject a stub; production injects [*sec.TokenService].
type TokenManager interface {
	// IssueSessionToken creates a signed access or refresh token.
	IssueSessionToken(purpose sec.Purpose, userID, username string, timeToLive time.Duration) (string, error)

	// IssuePreRegisterToken creates the token embedded in a confirmation link.
	IssuePreRegisterToken(email, code string, timeToLive time.Duration) (string, error)

	// IssueResetToken creates the token embedded in a password reset link.
	IssueResetToken(userID, code string, timeToLive time.Duration) (string, error)

	// Verify checks signature, expiry, and purpose.
	Verify(tokenString string, purpose sec.Purpose) (*sec.AuthClaims, error)
}

// Service implements the credential lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or reset logic must be reviewed by the security team.
type Service struct {
	users     UserRepository
	pending   PendingRegistrationRepository
	tokens    TokenManager
	mailer    email.Mailer
	clientURL string
}

// NewService constructs the auth [Service] with its dependencies.
func NewService(
	users UserRepository,
	pending PendingRegistrationRepository,
	tokens TokenManager,
	mailer email.Mailer,
	clientURL string,
) *Service {
	return &Service{
		users:     users,
		pending:   pending,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: clientURL,
	}
}

// # Two-Phase Registration

/*
PreRegister parks a registration and emails a confirmation link.

The password is hashed immediately and only the hash is parked; neither the
plaintext nor the hash rides inside the emailed token.

Parameters:
  - ctx: context.Context
  - emailAddr: The address to register.
  - password: The plaintext password (hashed before leaving this method).

Returns:
  - error: apperr.Conflict if the email already has an account,
    validation errors, or delivery failures.
*/
func (service *Service) PreRegister(ctx context.Context, emailAddr, password string) error {
	// ── 1. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	if err := validator.
		Required("email", emailAddr).
		Email("email", emailAddr).
		Required("password", password).
		MinLen("password", password, MinPasswordLength).
		MaxLen("password", password, MaxPasswordLength).
		Err(); err != nil {
		return err
	}

	// Accounts store emails canonically lowercase.
	emailAddr = strings.ToLower(emailAddr)

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	if _, err := service.users.FindByEmail(ctx, emailAddr); err == nil {
		return apperr.Conflict("Email already registered")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	passwordHash, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	code, err := sec.GenerateSecureCode(PendingCodeLength)
	if err != nil {
		return fmt.Errorf("auth_service_pending_code_failed: %w", err)
	}

	// ── 4. Park the Registration ──────────────────────────────────────────

	pending := PendingRegistration{Email: emailAddr, PasswordHash: passwordHash}
	if err := service.pending.Set(ctx, code, pending, PreRegisterTTL); err != nil {
		return fmt.Errorf("auth_service_pending_set_failed: %w", err)
	}

	// ── 5. Confirmation Link ──────────────────────────────────────────────

	token, err := service.tokens.IssuePreRegisterToken(emailAddr, code, PreRegisterTTL)
	if err != nil {
		return fmt.Errorf("auth_service_pre_register_token_failed: %w", err)
	}

	message, err := email.NewConfirmationMessage(emailAddr, service.clientURL, token)
	if err != nil {
		return fmt.Errorf("auth_service_confirmation_message_failed: %w", err)
	}

	if err := service.mailer.Send(ctx, message); err != nil {
		return apperr.Upstream("Failed to send confirmation email", err)
	}

	return nil
}

/*
ConfirmRegistration redeems a confirmation link and creates the account.

Parameters:
  - ctx: context.Context
  - token: The signed token from the confirmation link.

Returns:
  - *Session: Access/refresh pair plus the fresh profile.
  - error: apperr.Unauthorized for bad/expired links,
    apperr.Conflict if the account appeared in the meantime.

# Flow
 1. Verify the token (purpose: pre-register).
 2. Load the parked registration by the token's code.
 3. Re-check email uniqueness (the window is a day long).
 4. Create the account with a generated username.
 5. Burn the pending record and issue the session pair.
*/
func (service *Service) ConfirmRegistration(ctx context.Context, token string) (*Session, error) {
	// ── 1. Token Verification ─────────────────────────────────────────────

	claims, err := service.tokens.Verify(token, sec.PurposePreRegister)
	if err != nil {
		return nil, apperr.Unauthorized("Registration link is invalid or has expired")
	}

	// ── 2. Load Parked Registration ───────────────────────────────────────

	pending, err := service.pending.Get(ctx, claims.Code)
	if err != nil || pending.Email != claims.Email {
		return nil, apperr.Unauthorized("Registration link is invalid or has expired")
	}

	// ── 3. Uniqueness Re-Check ────────────────────────────────────────────

	if _, err := service.users.FindByEmail(ctx, pending.Email); err == nil {
		return nil, apperr.Conflict("User already registered")
	}

	// ── 4. Account Creation ───────────────────────────────────────────────

	username, err := service.generateUsername(ctx)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		Username:     username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Roles:        []string{RoleBuyer}, // Rule: every account starts as a Buyer.
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Best-effort: the pending record also has a TTL backstop.
	_ = service.pending.Delete(ctx, claims.Code)

	// ── 5. Session Issuance ───────────────────────────────────────────────

	return service.issueSession(user)
}

// # Password Reset

/*
RequestPasswordReset stores a reset second factor and emails a reset link.

Parameters:
  - ctx: context.Context
  - emailAddr: The account email.

Returns:
  - error: apperr.BadRequest if no account exists for the email.
*/
func (service *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	// ── 1. Validation ─────────────────────────────────────────────────────

	if emailAddr == "" {
		return validate.RequiredError("email", "This field is required")
	}

	// ── 2. Account Lookup ─────────────────────────────────────────────────

	user, err := service.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return apperr.BadRequest("User has not been registered")
	}

	// ── 3. Second Factor ──────────────────────────────────────────────────

	code, err := sec.GenerateSecureCode(ResetCodeLength)
	if err != nil {
		return fmt.Errorf("auth_service_reset_code_failed: %w", err)
	}

	expiresAt := time.Now().Add(ResetTokenTTL)
	if err := service.users.SetResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	// ── 4. Reset Link ─────────────────────────────────────────────────────

	token, err := service.tokens.IssueResetToken(user.ID, code, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	message, err := email.NewPasswordResetMessage(user.Email, service.clientURL, token)
	if err != nil {
		return fmt.Errorf("auth_service_reset_message_failed: %w", err)
	}

	if err := service.mailer.Send(ctx, message); err != nil {
		return apperr.Upstream("Failed to send reset email", err)
	}

	return nil
}

/*
AccessAccount redeems a reset link and establishes a fresh session.

The caller lands authenticated and changes their password via
[Service.ChangePassword]; the link itself never carries the password.

Parameters:
  - ctx: context.Context
  - token: The signed token from the reset link.

Returns:
  - *Session: Access/refresh pair plus the profile.
  - error: apperr.Unauthorized if the token or the stored code is stale.
*/
func (service *Service) AccessAccount(ctx context.Context, token string) (*Session, error) {
	// ── 1. Token Verification ─────────────────────────────────────────────

	claims, err := service.tokens.Verify(token, sec.PurposeReset)
	if err != nil {
		return nil, apperr.Unauthorized("Reset link is invalid or has expired")
	}

	user, err := service.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Reset link is invalid or has expired")
	}

	// ── 2. Second Factor Check ────────────────────────────────────────────

	// The stored code is cleared on use, so each link works exactly once
	// even within its signature lifetime.
	if user.ResetCode == "" || user.ResetCode != claims.Code ||
		user.ResetCodeExp == nil || user.ResetCodeExp.Before(time.Now()) {
		return nil, apperr.Unauthorized("Reset code has expired")
	}

	if err := service.users.ClearResetCode(ctx, user.ID); err != nil {
		return nil, err
	}
	user.ResetCode = ""
	user.ResetCodeExp = nil

	// ── 3. Session Issuance ───────────────────────────────────────────────

	return service.issueSession(user)
}

// # Session Maintenance

/*
RefreshSession exchanges a valid refresh token for a fresh token pair.

Refresh tokens are stateless JWTs scoped to the refresh purpose; rotation
happens by virtue of the new pair superseding the old one client-side.

Parameters:
  - ctx: context.Context
  - refreshToken: The bearer token presented by the client.

Returns:
  - *Session: New access/refresh pair plus the live profile.
  - error: apperr.Unauthorized for invalid tokens or vanished accounts.
*/
func (service *Service) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := service.tokens.Verify(refreshToken, sec.PurposeRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	return service.issueSession(user)
}

/*
ChangePassword replaces the authenticated user's password.

Parameters:
  - ctx: context.Context
  - userID: The authenticated account ID.
  - password: The new plaintext password.

Returns:
  - *User: The profile after the change.
  - error: apperr.BadRequest if the new password matches the current one.
*/
func (service *Service) ChangePassword(ctx context.Context, userID, password string) (*User, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	if err := validator.
		Required("password", password).
		MinLen("password", password, MinPasswordLength).
		MaxLen("password", password, MaxPasswordLength).
		Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// ── 2. Reuse Check ────────────────────────────────────────────────────

	if sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.BadRequest("Password you entered is the same as before")
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	newHash, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return nil, err
	}

	user.PasswordHash = newHash
	return user, nil
}

// # Internal Helpers

// issueSession mints the standard access/refresh pair for a user.
func (service *Service) issueSession(user *User) (*Session, error) {
	accessToken, err := service.tokens.IssueSessionToken(sec.PurposeAccess, user.ID, user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.IssueSessionToken(sec.PurposeRefresh, user.ID, user.Username, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// generateUsername produces a random "user_xxxxxx" handle, retrying on the
// unlikely collision with an existing account.
func (service *Service) generateUsername(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		suffix, err := sec.GenerateSecureCode(UsernameSuffixLength)
		if err != nil {
			return "", fmt.Errorf("auth_service_username_generation_failed: %w", err)
		}

		username := "user_" + suffix
		if _, err := service.users.FindByUsername(ctx, username); err != nil {
			return username, nil
		}
	}

	return "", fmt.Errorf("auth_service_username_generation_exhausted")
}
