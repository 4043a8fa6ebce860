// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// Package contact relays buyer inquiries about an advertisement to the
// seller's inbox.
//
// The sender's address comes from their account, never from the request body,
// so the relay cannot be used to spoof arbitrary senders.
package contact

import (
	"context"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/email"
	"github.com/rooftophq/rooftop/internal/platform/validate"
	"github.com/rooftophq/rooftop/internal/users/auth"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

// AdContact is the slice of an advertisement an inquiry needs: what it is
// called and where its owner reads mail.
type AdContact struct {
	AdTitle    string
	OwnerEmail string
}

// Repository defines the lookup contract for inquiry routing.
type Repository interface {
	/*
		FindAdContact resolves an advertisement's title and owner email.

		Parameters:
		  - ctx: request context.
		  - adID: the advertisement being inquired about.

		Returns:
		  - *AdContact: title and owner address.
		  - error: [apperr.NotFound] if the ad does not exist, or a storage
		    failure.
	*/
	FindAdContact(ctx context.Context, adID string) (*AdContact, error)
}

// InquiryInput is the buyer-supplied portion of an inquiry.
type InquiryInput struct {
	AdID    string `json:"adId"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Service relays inquiries from buyers to sellers.
type Service struct {
	ads    Repository
	users  auth.UserRepository
	mailer email.Mailer
}

// NewService creates a new contact service.
func NewService(ads Repository, users auth.UserRepository, mailer email.Mailer) *Service {
	return &Service{ads: ads, users: users, mailer: mailer}
}

/*
SendInquiry mails an inquiry about an advertisement to its owner.

Parameters:
  - ctx: request context.
  - senderID: the authenticated account sending the inquiry; its email
    address is used as the reply contact.
  - in: the inquiry fields.

Returns:
  - error: a validation error, [apperr.NotFound] if the ad or sender is gone,
    or [apperr.Upstream] if the mail could not be sent.
*/
func (service *Service) SendInquiry(ctx context.Context, senderID string, in InquiryInput) error {
	// ── 1. Validate the payload ──
	v := &validate.Validator{}
	v.Required("adId", in.AdID).
		Required("name", in.Name).
		Required("phone", in.Phone).
		Required("message", in.Message)
	if err := v.Err(); err != nil {
		return err
	}

	// An unparsable id can never resolve to an ad; reject it before it hits
	// the uuid-typed column.
	if !uuid.IsValid(in.AdID) {
		return apperr.NotFound("Ad")
	}

	// ── 2. Resolve both ends of the relay ──
	contact, err := service.ads.FindAdContact(ctx, in.AdID)
	if err != nil {
		return err
	}

	sender, err := service.users.FindByID(ctx, senderID)
	if err != nil {
		return err
	}

	// ── 3. Build and send the mail ──
	message, err := email.NewInquiryMessage(contact.OwnerEmail, email.InquiryData{
		AdTitle: contact.AdTitle,
		Name:    in.Name,
		Email:   sender.Email,
		Phone:   in.Phone,
		Body:    in.Message,
	})
	if err != nil {
		return apperr.Internal(err)
	}

	if err := service.mailer.Send(ctx, message); err != nil {
		return apperr.Upstream("Failed to send email", err)
	}

	return nil
}
