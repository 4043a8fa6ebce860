// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		List returns every account, newest first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*User: All accounts
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]*User, error)

	/*
		Exists reports whether an account row is present for the ID.
		Used by the authentication middleware on every request.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - bool: Presence
		  - error: Database retrieval failures
	*/
	Exists(context context.Context, id string) (bool, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (wrapped unique violations included)
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields (name, address,
		company, phone, photo). Passwords go through UpdatePassword.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		SetResetCode stores the reset second factor and its expiry on the
		account row, replacing any previous one.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - code: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetCode(context context.Context, userID, code string, expiresAt time.Time) error

	/*
		ClearResetCode removes the reset second factor after successful use.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearResetCode(context context.Context, userID string) error
}

// # Volatile Data Access

// PendingRegistrationRepository defines the contract for parking unconfirmed
// registrations until the email link is clicked or the TTL runs out.
type PendingRegistrationRepository interface {

	/*
		Set stores a pending registration under its random code.

		Parameters:
		  - context: context.Context
		  - code: string
		  - pending: PendingRegistration
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, code string, pending PendingRegistration, ttl time.Duration) error

	/*
		Get retrieves the pending registration for a given code.

		Parameters:
		  - context: context.Context
		  - code: string

		Returns:
		  - *PendingRegistration: Parked state
		  - error: apperr.NotFound if absent or expired
	*/
	Get(context context.Context, code string) (*PendingRegistration, error)

	/*
		Delete removes a pending registration after successful confirmation.

		Parameters:
		  - context: context.Context
		  - code: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, code string) error
}
