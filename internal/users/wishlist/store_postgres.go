// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package wishlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rooftophq/rooftop/internal/listing"
	"github.com/rooftophq/rooftop/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL wishlist repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Add inserts a wishlist entry, ignoring duplicates.
func (repository *PostgresRepository) Add(ctx context.Context, userID, adID string) error {
	const query = `
		INSERT INTO users.wishlist (userid, adid, createdat)
		VALUES ($1, $2, NOW())
		ON CONFLICT (userid, adid) DO NOTHING`

	if _, err := repository.pool.Exec(ctx, query, userID, adID); err != nil {
		// A broken FK means the ad (or account) is gone, not a server fault.
		return dberr.Wrap(fmt.Errorf("postgres_wishlist_repo_add_failed: %w", err), "Ad")
	}

	return nil
}

// Remove deletes a wishlist entry. Removing an ad that is not saved is a
// no-op, mirroring the idempotent add.
func (repository *PostgresRepository) Remove(ctx context.Context, userID, adID string) error {
	const query = "DELETE FROM users.wishlist WHERE userid = $1 AND adid = $2"

	if _, err := repository.pool.Exec(ctx, query, userID, adID); err != nil {
		return fmt.Errorf("postgres_wishlist_repo_remove_failed: %w", err)
	}

	return nil
}

// List joins the saved entries back to the full advertisement rows in the
// order they were saved.
func (repository *PostgresRepository) List(ctx context.Context, userID string) ([]*listing.Ad, error) {
	const query = `
		SELECT
			a.id, a.type, a.title, a.slug, a.description, a.builtyear, a.category, a.address,
			a.price, a.bedrooms, a.bathrooms, COALESCE(a.landsize, ''), a.carpark,
			a.images, COALESCE(a.rentperiod, ''), a.longitude, a.latitude,
			a.userid, u.username, u.name, a.viewcount, a.createdat, a.updatedat
		FROM users.wishlist w
		JOIN listing.ad a ON a.id = w.adid
		JOIN users.account u ON u.id = a.userid
		WHERE w.userid = $1
		ORDER BY w.createdat ASC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_wishlist_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var ads []*listing.Ad
	for rows.Next() {
		ad := &listing.Ad{}
		var longitude, latitude float64

		err := rows.Scan(
			&ad.ID,
			&ad.Type,
			&ad.Title,
			&ad.Slug,
			&ad.Description,
			&ad.BuiltYear,
			&ad.Category,
			&ad.Address,
			&ad.Price,
			&ad.Bedrooms,
			&ad.Bathrooms,
			&ad.LandSize,
			&ad.CarPark,
			&ad.Images,
			&ad.RentPeriod,
			&longitude,
			&latitude,
			&ad.Owner.ID,
			&ad.Owner.Username,
			&ad.Owner.Name,
			&ad.ViewCount,
			&ad.CreatedAt,
			&ad.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_wishlist_repo_list_scan_failed: %w", err)
		}

		ad.Location = listing.Location{Type: "Point", Coordinates: []float64{longitude, latitude}}
		if ad.Images == nil {
			ad.Images = []string{}
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_wishlist_repo_list_rows_failed: %w", err)
	}

	return ads, nil
}
