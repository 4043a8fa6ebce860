// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/email"
	"github.com/rooftophq/rooftop/internal/platform/sec"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	users map[string]*User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

// Email and username lookups match case-insensitively, like the LOWER()
// comparisons the real store runs.
func (r *fakeUserRepo) FindByEmail(_ context.Context, emailAddr string) (*User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, emailAddr) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) List(context.Context) ([]*User, error) {
	all := make([]*User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		all = append(all, &copied)
	}
	return all, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("Email already registered")
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Name = user.Name
	stored.Address = user.Address
	stored.Company = user.Company
	stored.Phone = user.Phone
	stored.Photo = user.Photo
	stored.Roles = user.Roles
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepo) SetResetCode(_ context.Context, userID, code string, expiresAt time.Time) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.ResetCode = code
	stored.ResetCodeExp = &expiresAt
	return nil
}

func (r *fakeUserRepo) ClearResetCode(_ context.Context, userID string) error {
	if stored, ok := r.users[userID]; ok {
		stored.ResetCode = ""
		stored.ResetCodeExp = nil
	}
	return nil
}

type fakePendingRepo struct {
	records map[string]PendingRegistration
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{records: make(map[string]PendingRegistration)}
}

func (r *fakePendingRepo) Set(_ context.Context, code string, pending PendingRegistration, _ time.Duration) error {
	r.records[code] = pending
	return nil
}

func (r *fakePendingRepo) Get(_ context.Context, code string) (*PendingRegistration, error) {
	if pending, ok := r.records[code]; ok {
		return &pending, nil
	}
	return nil, apperr.NotFound("Pending registration")
}

func (r *fakePendingRepo) Delete(_ context.Context, code string) error {
	delete(r.records, code)
	return nil
}

type captureMailer struct {
	sent []email.Message
}

func (m *captureMailer) Send(_ context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

// # Fixture

type authFixture struct {
	service *Service
	users   *fakeUserRepo
	pending *fakePendingRepo
	mailer  *captureMailer
	tokens  *sec.TokenService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "rooftop.homes")
	require.NoError(t, err)

	users := newFakeUserRepo()
	pending := newFakePendingRepo()
	mailer := &captureMailer{}

	return &authFixture{
		service: NewService(users, pending, tokens, mailer, "http://localhost:3000"),
		users:   users,
		pending: pending,
		mailer:  mailer,
		tokens:  tokens,
	}
}

// seedUser creates a confirmed account directly in the fake store.
func (f *authFixture) seedUser(t *testing.T, emailAddr, password string) *User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &User{
		ID:           uuid.New(),
		Username:     "user_aa11bb",
		Email:        emailAddr,
		PasswordHash: hash,
		Roles:        []string{RoleBuyer},
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

// # Registration

func TestPreRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("parks registration and sends confirmation mail", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.service.PreRegister(ctx, "buyer@example.com", "s3cret-pass")
		require.NoError(t, err)

		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "buyer@example.com", f.mailer.sent[0].To)
		assert.Equal(t, email.SubjectConfirmRegistration, f.mailer.sent[0].Subject)
		assert.Contains(t, f.mailer.sent[0].HTMLBody, "/confirm-registration?token=")

		require.Len(t, f.pending.records, 1)
		for _, pending := range f.pending.records {
			assert.Equal(t, "buyer@example.com", pending.Email)
			// The parked record must never carry the plaintext.
			assert.NotEqual(t, "s3cret-pass", pending.PasswordHash)
			assert.True(t, sec.CheckPasswordHash("s3cret-pass", pending.PasswordHash))
		}
	})

	t.Run("rejects an email that already has an account", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedUser(t, "taken@example.com", "password-1")

		err := f.service.PreRegister(ctx, "taken@example.com", "password-2")
		require.Error(t, err)
		assert.Equal(t, "Email already registered", err.Error())
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.service.PreRegister(ctx, "buyer@example.com", "short")
		require.Error(t, err)
		assert.Empty(t, f.pending.records)
	})

	t.Run("accepts passwords past the bcrypt input cap", func(t *testing.T) {
		f := newAuthFixture(t)
		long := strings.Repeat("a", 100)

		err := f.service.PreRegister(ctx, "buyer@example.com", long)
		require.NoError(t, err)

		require.Len(t, f.pending.records, 1)
		for _, pending := range f.pending.records {
			assert.True(t, sec.CheckPasswordHash(long, pending.PasswordHash))
			assert.False(t, sec.CheckPasswordHash(strings.Repeat("a", 101), pending.PasswordHash))
		}
	})

	t.Run("rejects passwords over 256 characters", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.service.PreRegister(ctx, "buyer@example.com", strings.Repeat("a", 257))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
		assert.Empty(t, f.pending.records)
	})

	t.Run("stores mixed-case emails lowercase", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.service.PreRegister(ctx, "Buyer@Example.COM", "s3cret-pass")
		require.NoError(t, err)

		require.Len(t, f.pending.records, 1)
		for _, pending := range f.pending.records {
			assert.Equal(t, "buyer@example.com", pending.Email)
		}
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "buyer@example.com", f.mailer.sent[0].To)
	})

	t.Run("duplicate check ignores email case", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedUser(t, "taken@example.com", "password-1")

		err := f.service.PreRegister(ctx, "Taken@Example.com", "password-2")
		require.Error(t, err)
		assert.Equal(t, "Email already registered", err.Error())
	})
}

func TestConfirmRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and issues a session", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.service.PreRegister(ctx, "new@example.com", "s3cret-pass"))

		var code string
		for c := range f.pending.records {
			code = c
		}
		token, err := f.tokens.IssuePreRegisterToken("new@example.com", code, time.Hour)
		require.NoError(t, err)

		session, err := f.service.ConfirmRegistration(ctx, token)
		require.NoError(t, err)

		assert.Equal(t, "new@example.com", session.User.Email)
		assert.Equal(t, []string{RoleBuyer}, session.User.Roles)
		assert.Regexp(t, "^user_[0-9a-f]{6}$", session.User.Username)
		assert.Empty(t, f.pending.records, "pending record must be burned")

		// Both tokens must verify against their own purpose only.
		accessClaims, err := f.tokens.Verify(session.AccessToken, sec.PurposeAccess)
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, accessClaims.UserID)

		_, err = f.tokens.Verify(session.AccessToken, sec.PurposeRefresh)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)

		_, err = f.tokens.Verify(session.RefreshToken, sec.PurposeRefresh)
		require.NoError(t, err)
	})

	t.Run("rejects a token whose pending record expired", func(t *testing.T) {
		f := newAuthFixture(t)

		token, err := f.tokens.IssuePreRegisterToken("ghost@example.com", "deadbeef", time.Hour)
		require.NoError(t, err)

		_, err = f.service.ConfirmRegistration(ctx, token)
		require.Error(t, err)
		assert.Equal(t, appErrCode(t, err), "UNAUTHORIZED")
	})

	t.Run("rejects a session token replayed as a confirmation link", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		wrongPurpose, err := f.tokens.IssueSessionToken(sec.PurposeAccess, user.ID, user.Username, time.Hour)
		require.NoError(t, err)

		_, err = f.service.ConfirmRegistration(ctx, wrongPurpose)
		require.Error(t, err)
	})
}

// # Password Reset

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email is rejected", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.service.RequestPasswordReset(ctx, "nobody@example.com")
		require.Error(t, err)
		assert.Equal(t, "User has not been registered", err.Error())
	})

	t.Run("finds accounts however the email was originally typed", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.service.PreRegister(ctx, "Member@Example.com", "s3cret-pass"))

		var code string
		for c := range f.pending.records {
			code = c
		}
		token, err := f.tokens.IssuePreRegisterToken("member@example.com", code, time.Hour)
		require.NoError(t, err)

		session, err := f.service.ConfirmRegistration(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "member@example.com", session.User.Email)

		require.NoError(t, f.service.RequestPasswordReset(ctx, "Member@Example.com"))
		require.NotEmpty(t, f.users.users[session.User.ID].ResetCode)
	})

	t.Run("reset link works exactly once", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		require.NoError(t, f.service.RequestPasswordReset(ctx, "member@example.com"))
		require.Len(t, f.mailer.sent, 1)
		assert.Contains(t, f.mailer.sent[0].HTMLBody, "/reset-password?token=")

		stored := f.users.users[user.ID]
		require.NotEmpty(t, stored.ResetCode)
		require.NotNil(t, stored.ResetCodeExp)

		token, err := f.tokens.IssueResetToken(user.ID, stored.ResetCode, time.Hour)
		require.NoError(t, err)

		session, err := f.service.AccessAccount(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.User.ID)
		assert.Empty(t, f.users.users[user.ID].ResetCode, "code must be cleared on use")

		// Replaying the same link fails the second-factor check.
		_, err = f.service.AccessAccount(ctx, token)
		require.Error(t, err)
		assert.Equal(t, "Reset code has expired", err.Error())
	})

	t.Run("stale stored code is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		expired := time.Now().Add(-time.Minute)
		require.NoError(t, f.users.SetResetCode(ctx, user.ID, "abc123", expired))

		token, err := f.tokens.IssueResetToken(user.ID, "abc123", time.Hour)
		require.NoError(t, err)

		_, err = f.service.AccessAccount(ctx, token)
		require.Error(t, err)
		assert.Equal(t, "Reset code has expired", err.Error())
	})
}

// # Session Maintenance

func TestRefreshSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		refresh, err := f.tokens.IssueSessionToken(sec.PurposeRefresh, user.ID, user.Username, time.Hour)
		require.NoError(t, err)

		session, err := f.service.RefreshSession(ctx, refresh)
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.User.ID)

		_, err = f.tokens.Verify(session.AccessToken, sec.PurposeAccess)
		assert.NoError(t, err)
	})

	t.Run("access token cannot be used as a refresh token", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		access, err := f.tokens.IssueSessionToken(sec.PurposeAccess, user.ID, user.Username, time.Hour)
		require.NoError(t, err)

		_, err = f.service.RefreshSession(ctx, access)
		require.Error(t, err)
	})

	t.Run("refresh for a deleted account fails", func(t *testing.T) {
		f := newAuthFixture(t)

		refresh, err := f.tokens.IssueSessionToken(sec.PurposeRefresh, uuid.New(), "user_gone00", time.Hour)
		require.NoError(t, err)

		_, err = f.service.RefreshSession(ctx, refresh)
		require.Error(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects reusing the current password", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		_, err := f.service.ChangePassword(ctx, user.ID, "s3cret-pass")
		require.Error(t, err)
		assert.Equal(t, "Password you entered is the same as before", err.Error())
	})

	t.Run("stores the new hash", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		updated, err := f.service.ChangePassword(ctx, user.ID, "another-pass")
		require.NoError(t, err)
		assert.True(t, sec.CheckPasswordHash("another-pass", updated.PasswordHash))
		assert.True(t, sec.CheckPasswordHash("another-pass", f.users.users[user.ID].PasswordHash))
	})

	t.Run("accepts passwords past the bcrypt input cap", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")
		long := strings.Repeat("b", 200)

		updated, err := f.service.ChangePassword(ctx, user.ID, long)
		require.NoError(t, err)
		assert.True(t, sec.CheckPasswordHash(long, updated.PasswordHash))
	})

	t.Run("rejects passwords over 256 characters", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "member@example.com", "s3cret-pass")

		_, err := f.service.ChangePassword(ctx, user.ID, strings.Repeat("b", 257))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})
}

// appErrCode extracts the AppError code for assertion readability.
func appErrCode(t *testing.T, err error) string {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.Code
}
