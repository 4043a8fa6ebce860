// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// One day matches the web client's session expectations.
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// A week gives returning visitors a silent re-login window.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// PreRegisterTTL is how long a confirmation link (and the pending
	// registration parked in Redis) stays usable.
	PreRegisterTTL = 24 * time.Hour

	// ResetTokenTTL is the duration a password reset link remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetCodeLength is the byte length of the random reset second factor.
	ResetCodeLength = 3

	// PendingCodeLength is the byte length of the random code keying a
	// pending registration in Redis.
	PendingCodeLength = 16

	// UsernameSuffixLength is the byte length of the random part of a
	// generated username ("user_" + hex).
	UsernameSuffixLength = 3

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MaxPasswordLength is the maximum accepted password length.
	MaxPasswordLength = 256
)
