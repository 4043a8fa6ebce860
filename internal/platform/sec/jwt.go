// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small capability interfaces.
//
// # Token Purposes
//
// A single signing secret backs four distinct token purposes. Every token
// carries its purpose as a claim and verification is purpose-scoped, so a
// pre-registration token can never be replayed as a session token.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Purposes

// Purpose discriminates what a signed token is allowed to be used for.
type Purpose string

const (
	// PurposeAccess authenticates API requests (short-lived).
	PurposeAccess Purpose = "access"

	// PurposeRefresh mints a new session pair (longer-lived, rotation only).
	PurposeRefresh Purpose = "refresh"

	// PurposePreRegister confirms email ownership during two-phase registration.
	PurposePreRegister Purpose = "pre-register"

	// PurposeReset completes the forgot-password flow.
	PurposeReset Purpose = "reset"
)

// # Verification Errors

var (
	// ErrTokenExpired is returned when a token's ttl has elapsed.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid is returned for malformed tokens, bad signatures,
	// and purpose mismatches.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// AuthClaims is the payload embedded inside every Rooftop JWT.
//
// # Why custom claims?
//
// By embedding the UserID and Username directly inside the access token,
// [middleware.Authenticate] can establish a tentative identity without a
// database round-trip; the live-user resolution that follows only confirms
// the account still exists.
//
// Claim names are abbreviated to keep the JWT payload small. Fields not
// relevant to a given purpose are omitted from the encoded token.
type AuthClaims struct {
	jwt.RegisteredClaims

	Purpose  Purpose `json:"pur"`
	UserID   string  `json:"uid,omitempty"`
	Username string  `json:"unm,omitempty"`
	Email    string  `json:"eml,omitempty"`
	Code     string  `json:"cod,omitempty"`
}

// TokenService signs and verifies JWT tokens using HS256 with a single
// environment-provided secret.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService from the shared signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token signing secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// # Issuance

// IssueSessionToken creates a signed session token (access or refresh).
func (service *TokenService) IssueSessionToken(purpose Purpose, userID, username string, timeToLive time.Duration) (string, error) {
	if purpose != PurposeAccess && purpose != PurposeRefresh {
		return "", fmt.Errorf("sec: purpose %q is not a session purpose", purpose)
	}
	return service.sign(AuthClaims{
		Purpose:  purpose,
		UserID:   userID,
		Username: username,
	}, userID, timeToLive)
}

// IssuePreRegisterToken creates the signed token embedded in the
// registration confirmation link. It carries the pending email and the
// random confirmation code — never the password.
func (service *TokenService) IssuePreRegisterToken(email, code string, timeToLive time.Duration) (string, error) {
	return service.sign(AuthClaims{
		Purpose: PurposePreRegister,
		Email:   email,
		Code:    code,
	}, email, timeToLive)
}

// IssueResetToken creates the signed token embedded in the password reset
// link. The code is a second factor checked against the live user record at
// consumption time.
func (service *TokenService) IssueResetToken(userID, code string, timeToLive time.Duration) (string, error) {
	return service.sign(AuthClaims{
		Purpose: PurposeReset,
		UserID:  userID,
		Code:    code,
	}, userID, timeToLive)
}

// sign encodes and signs the claims with the purpose-independent envelope.
func (service *TokenService) sign(claims AuthClaims, subject string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// # Verification

// Verify checks the signature, expiry, and purpose of a JWT string.
//
// # Returns
//   - *AuthClaims: The decoded payload, unchanged from issuance.
//   - error: [ErrTokenExpired] past the ttl, [ErrTokenInvalid] otherwise.
//
// Verification is stateless and CPU-bound; purpose-specific second factors
// (the password-reset code) are the calling service's responsibility.
func (service *TokenService) Verify(tokenString string, purpose Purpose) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	// A token is only good for the purpose it was minted with.
	if claims.Purpose != purpose {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyAccessToken is the [middleware.TokenVerifier] entry point.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	return service.Verify(tokenString, PurposeAccess)
}
