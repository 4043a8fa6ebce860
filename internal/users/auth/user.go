// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

/*
Package auth owns the account entity and its full credential lifecycle:
two-phase registration, password reset, session refresh, and password change.

# Architecture

  - Entities: User, PendingRegistration.
  - Service: Orchestrates token issuance, mail delivery, and persistence.
  - Storage: PostgreSQL for accounts, Redis for pending registrations.

# Registration Model

Nobody gets a row in users.account until they click the confirmation link.
The pre-registration step parks the email and the already-hashed password in
Redis under a random code; the link token carries only the email and that
code. If the link is never used the pending record simply expires.
*/
package auth

import (
	"time"
)

// Account roles. Every confirmed account starts as a Buyer; listing an ad
// makes the role list a matter of presentation, not permission, so the set
// is carried as plain strings.
const (
	RoleBuyer  = "Buyer"
	RoleSeller = "Seller"
	RoleAdmin  = "Admin"
)

// User represents a registered member of the Rooftop platform.
//
// # Rules
//   - Username is unique, lowercase, and auto-generated at confirmation.
//   - Email is unique and validated at pre-registration.
//   - PasswordHash is produced via Bcrypt exclusively by the auth service.
//   - ResetCode pairs with the reset link token as a second factor; both it
//     and its expiry never leave the server.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Explicitly omitted from JSON for security.
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Company      string     `json:"company"`
	Phone        string     `json:"phone"`
	Photo        string     `json:"photo,omitempty"`
	Roles        []string   `json:"role"`
	ResetCode    string     `json:"-"`
	ResetCodeExp *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PendingRegistration is the parked state between pre-registration and
// confirmation. It lives only in Redis, keyed by a random code, and carries
// the bcrypt hash rather than the password itself.
type PendingRegistration struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Session is the token pair plus profile returned by every operation that
// establishes or renews an authenticated session.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}
