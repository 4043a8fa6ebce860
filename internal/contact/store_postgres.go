// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL contact repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindAdContact joins the ad to its owner's account for the inquiry relay.
func (repository *PostgresRepository) FindAdContact(ctx context.Context, adID string) (*AdContact, error) {
	const query = `
		SELECT a.title, u.email
		FROM listing.ad a
		JOIN users.account u ON u.id = a.userid
		WHERE a.id = $1`

	contact := &AdContact{}
	err := repository.pool.QueryRow(ctx, query, adID).Scan(&contact.AdTitle, &contact.OwnerEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Ad")
		}
		return nil, fmt.Errorf("postgres_contact_repo_find_failed: %w", err)
	}

	return contact, nil
}
