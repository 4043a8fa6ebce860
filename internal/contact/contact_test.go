// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package contact

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/email"
	"github.com/rooftophq/rooftop/internal/users/auth"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

// listedAdID identifies the one ad every fixture seeds.
var listedAdID = uuid.New()

type fakeContactRepo struct {
	contacts map[string]*AdContact
}

func (f *fakeContactRepo) FindAdContact(_ context.Context, adID string) (*AdContact, error) {
	contact, ok := f.contacts[adID]
	if !ok {
		return nil, apperr.NotFound("Ad")
	}
	return contact, nil
}

// stubUsers covers only the lookup the contact service needs; the embedded
// interface panics on anything else.
type stubUsers struct {
	auth.UserRepository
	users map[string]*auth.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

type captureMailer struct {
	sent []email.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newContactFixture() (*Service, *captureMailer) {
	ads := &fakeContactRepo{contacts: map[string]*AdContact{
		listedAdID: {AdTitle: "Sunny two-bed flat", OwnerEmail: "seller@example.com"},
	}}
	users := &stubUsers{users: map[string]*auth.User{
		"buyer-1": {ID: "buyer-1", Email: "buyer@example.com"},
	}}
	mailer := &captureMailer{}
	return NewService(ads, users, mailer), mailer
}

func validInquiry() InquiryInput {
	return InquiryInput{
		AdID:    listedAdID,
		Name:    "Ada Buyer",
		Phone:   "+61 400 000 000",
		Message: "Is the flat still available?",
	}
}

func TestSendInquiry(t *testing.T) {
	ctx := context.Background()

	t.Run("relays the inquiry to the seller", func(t *testing.T) {
		service, mailer := newContactFixture()

		require.NoError(t, service.SendInquiry(ctx, "buyer-1", validInquiry()))
		require.Len(t, mailer.sent, 1)

		msg := mailer.sent[0]
		assert.Equal(t, "seller@example.com", msg.To)
		assert.Equal(t, "New inquiry about your ad: Sunny two-bed flat", msg.Subject)
		assert.True(t, strings.Contains(msg.HTMLBody, "buyer@example.com"),
			"body should carry the sender's account email")
		assert.True(t, strings.Contains(msg.HTMLBody, "Is the flat still available?"))
	})

	t.Run("requires every field", func(t *testing.T) {
		service, mailer := newContactFixture()

		for _, mutate := range []func(*InquiryInput){
			func(in *InquiryInput) { in.AdID = "" },
			func(in *InquiryInput) { in.Name = "" },
			func(in *InquiryInput) { in.Phone = "" },
			func(in *InquiryInput) { in.Message = "" },
		} {
			input := validInquiry()
			mutate(&input)

			err := service.SendInquiry(ctx, "buyer-1", input)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		}
		assert.Empty(t, mailer.sent)
	})

	t.Run("unknown ad", func(t *testing.T) {
		service, mailer := newContactFixture()

		input := validInquiry()
		input.AdID = uuid.New()

		err := service.SendInquiry(ctx, "buyer-1", input)
		assert.True(t, apperr.IsNotFound(err))
		assert.EqualError(t, err, "Ad not found")
		assert.Empty(t, mailer.sent)
	})

	t.Run("malformed ad id", func(t *testing.T) {
		service, mailer := newContactFixture()

		input := validInquiry()
		input.AdID = "not-a-uuid"

		err := service.SendInquiry(ctx, "buyer-1", input)
		assert.True(t, apperr.IsNotFound(err))
		assert.EqualError(t, err, "Ad not found")
		assert.Empty(t, mailer.sent)
	})

	t.Run("mail failure surfaces as upstream", func(t *testing.T) {
		service, mailer := newContactFixture()
		mailer.err = fmt.Errorf("smtp connection refused")

		err := service.SendInquiry(ctx, "buyer-1", validInquiry())
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UPSTREAM_FAILURE", appErr.Code)
	})
}
