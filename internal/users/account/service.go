// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// Package account serves public agent profiles and lets owners edit their own.
//
// It reuses the auth package's user repository; the only state it touches is
// the mutable profile surface (name, address, company, phone, photo).
package account

import (
	"context"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/validate"
	"github.com/rooftophq/rooftop/internal/users/auth"
)

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Photo   string `json:"photo"`
}

// Service orchestrates profile reads and edits.
type Service struct {
	users auth.UserRepository
}

// NewService creates a new account service.
func NewService(users auth.UserRepository) *Service {
	return &Service{users: users}
}

/*
List returns every account, newest first.

Parameters:
  - ctx: request context.

Returns:
  - []*auth.User: all accounts, never nil. Sensitive fields are stripped by
    the entity's JSON tags.
  - error: a storage failure.
*/
func (service *Service) List(ctx context.Context) ([]*auth.User, error) {
	users, err := service.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*auth.User{}
	}
	return users, nil
}

/*
GetByUsername returns the public profile for an agent page.

Parameters:
  - ctx: request context.
  - username: the profile to look up, matched case-insensitively.

Returns:
  - *auth.User: the account.
  - error: [apperr.NotFound] or a storage failure.
*/
func (service *Service) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return service.users.FindByUsername(ctx, username)
}

/*
UpdateProfile applies profile edits to an account. Accounts can only edit
themselves.

Parameters:
  - ctx: request context.
  - accountID: the profile being edited.
  - actorID: the authenticated account making the edit.
  - in: the replacement profile fields.

Returns:
  - *auth.User: the updated account.
  - error: [apperr.Forbidden], [apperr.NotFound], a validation error, or a
    storage failure.
*/
func (service *Service) UpdateProfile(ctx context.Context, accountID, actorID string, in ProfileInput) (*auth.User, error) {
	if accountID != actorID {
		return nil, apperr.Forbidden("You can only update your own profile")
	}

	v := &validate.Validator{}
	v.Required("name", in.Name).
		MaxLen("name", in.Name, 100).
		MaxLen("address", in.Address, 255).
		MaxLen("company", in.Company, 100).
		MaxLen("phone", in.Phone, 30)
	if in.Photo != "" {
		v.URL("photo", in.Photo)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Address = in.Address
	user.Company = in.Company
	user.Phone = in.Phone
	user.Photo = in.Photo

	if err := service.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
