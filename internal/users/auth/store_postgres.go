// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// PostgreSQL implementation of the account storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/dberr"
)

// userColumns is the canonical select list shared by every account query.
const userColumns = `
	id, username, email, passwordhash, name, address, company, phone,
	COALESCE(photo, ''), roles, COALESCE(resetcode, ''), resetcodeexpires,
	createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser hydrates a User from a row with the [userColumns] select list.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Address,
		&user.Company,
		&user.Phone,
		&user.Photo,
		&user.Roles,
		&user.ResetCode,
		&user.ResetCodeExp,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create persists a new user record into the users.account table.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, name, address, company, phone, photo, roles, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Address,
		user.Company,
		user.Phone,
		user.Photo,
		user.Roles,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE id = $1"

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

// FindByEmail retrieves a user record by their unique email address.
//
// Both sides are lowered so the lookup matches regardless of the case the
// caller typed, and LOWER(email) hits the unique expression index.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE LOWER(email) = LOWER($1)"

	user, err := scanUser(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

// FindByUsername retrieves a user record by their unique username.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE LOWER(username) = LOWER($1)"

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

// List returns all accounts ordered by creation time, newest first.
func (repository *PostgresUserRepository) List(ctx context.Context) ([]*User, error) {
	query := "SELECT " + userColumns + " FROM users.account ORDER BY createdat DESC"

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, nil
}

// Exists reports whether an account row is present for the ID.
func (repository *PostgresUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM users.account WHERE id = $1)"

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}

// Update persists changes to a user's mutable profile fields.
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET name = $2, address = $3, company = $4, phone = $5, photo = NULLIF($6, ''), roles = $7, updatedat = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Address,
		user.Company,
		user.Phone,
		user.Photo,
		user.Roles,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// UpdatePassword updates only the password hash for a specific user.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// SetResetCode stores the reset second factor and its expiry on the account row.
func (repository *PostgresUserRepository) SetResetCode(ctx context.Context, userID, code string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET resetcode = $2, resetcodeexpires = $3, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, userID, code, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_reset_code_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// ClearResetCode removes the reset second factor after successful use.
func (repository *PostgresUserRepository) ClearResetCode(ctx context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET resetcode = NULL, resetcodeexpires = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_reset_code_failed: %w", err)
	}

	return nil
}
