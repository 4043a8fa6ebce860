// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// PostgreSQL implementation of the advertisement storage contract.
//
// # Schema Notes
//
// Coordinates live in two double precision columns with a GiST expression
// index over point(longitude, latitude); the GeoJSON envelope is rebuilt at
// scan time. The owner projection is joined from users.account on every read
// so callers never need a second query.
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/pkg/pagination"
)

// adColumns is the canonical select list, owner projection included.
// Queries alias the ad table as "a" and the account table as "u".
const adColumns = `
	a.id, a.type, a.title, a.slug, a.description, a.builtyear, a.category, a.address,
	a.price, a.bedrooms, a.bathrooms, COALESCE(a.landsize, ''), a.carpark,
	a.images, COALESCE(a.rentperiod, ''), a.longitude, a.latitude,
	a.userid, u.username, u.name, a.viewcount, a.createdat, a.updatedat`

// PostgresAdRepository implements the AdRepository interface using pgx.
type PostgresAdRepository struct {
	pool *pgxpool.Pool
}

// NewAdRepository creates a new PostgreSQL implementation of the AdRepository.
func NewAdRepository(pool *pgxpool.Pool) *PostgresAdRepository {
	return &PostgresAdRepository{pool: pool}
}

// scanAd hydrates an Ad from a row with the [adColumns] select list.
func scanAd(row pgx.Row) (*Ad, error) {
	ad := &Ad{}
	var longitude, latitude float64

	err := row.Scan(
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
		return nil, err
	}

	ad.Location = Location{Type: "Point", Coordinates: []float64{longitude, latitude}}
	if ad.Images == nil {
		ad.Images = []string{}
	}
	return ad, nil
}

// Create persists a new advertisement into the listing.ad table.
func (repository *PostgresAdRepository) Create(ctx context.Context, ad *Ad) error {
	const query = `
		INSERT INTO listing.ad (
			id, type, title, slug, description, builtyear, category, address,
			price, bedrooms, bathrooms, landsize, carpark, images, rentperiod,
			longitude, latitude, userid, viewcount, createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, NULLIF($12, ''), $13, $14, NULLIF($15, ''),
			$16, $17, $18, 0, $19, $20
		)`

	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		ad.ID,
		ad.Type,
		ad.Title,
		ad.Slug,
		ad.Description,
		ad.BuiltYear,
		ad.Category,
		ad.Address,
		ad.Price,
		ad.Bedrooms,
		ad.Bathrooms,
		ad.LandSize,
		ad.CarPark,
		ad.Images,
		ad.RentPeriod,
		ad.Location.Coordinates[0],
		ad.Location.Coordinates[1],
		ad.Owner.ID,
		ad.CreatedAt,
		ad.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_ad_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves an ad, optionally bumping the view counter first.
//
// The bump and the read happen in one statement, so concurrent increment
// fetches each observe their own count and none is lost.
func (repository *PostgresAdRepository) FindByID(ctx context.Context, id string, incrementView bool) (*Ad, error) {
	const selectQuery = `
		SELECT ` + adColumns + `
		FROM listing.ad a
		JOIN users.account u ON u.id = a.userid
		WHERE a.id = $1`

	const incrementQuery = `
		WITH a AS (
			UPDATE listing.ad
			SET viewcount = viewcount + 1
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + adColumns + `
		FROM a
		JOIN users.account u ON u.id = a.userid`

	query := selectQuery
	if incrementView {
		query = incrementQuery
	}

	ad, err := scanAd(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Ad")
		}
		return nil, fmt.Errorf("postgres_ad_repo_find_by_id_failed: %w", err)
	}

	return ad, nil
}

// List returns a page of ads, newest first, with the total match count.
//
// The total rides along via a window function so one round-trip serves both
// the page and the pagination metadata.
func (repository *PostgresAdRepository) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Ad, int64, error) {
	const query = `
		SELECT ` + adColumns + `, COUNT(*) OVER() AS total
		FROM listing.ad a
		JOIN users.account u ON u.id = a.userid
		WHERE ($1 = '' OR a.type = $1)
		ORDER BY a.createdat DESC
		LIMIT $2 OFFSET $3`

	filter = filter.Normalized()
	rows, err := repository.pool.Query(ctx, query, filter.Type, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_ad_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var (
		ads   []*Ad
		total int64
	)
	for rows.Next() {
		ad := &Ad{}
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
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_ad_repo_list_scan_failed: %w", err)
		}

		ad.Location = Location{Type: "Point", Coordinates: []float64{longitude, latitude}}
		if ad.Images == nil {
			ad.Images = []string{}
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_ad_repo_list_rows_failed: %w", err)
	}

	// An out-of-range page returns zero rows and therefore no window total.
	// Fall back to a bare count so the metadata stays truthful.
	if len(ads) == 0 {
		const countQuery = `SELECT COUNT(*) FROM listing.ad WHERE ($1 = '' OR type = $1)`
		if err := repository.pool.QueryRow(ctx, countQuery, filter.Type).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("postgres_ad_repo_count_failed: %w", err)
		}
	}

	return ads, total, nil
}

// ListByOwner returns every ad belonging to an account, newest first.
func (repository *PostgresAdRepository) ListByOwner(ctx context.Context, ownerID string, filter Filter) ([]*Ad, error) {
	const query = `
		SELECT ` + adColumns + `
		FROM listing.ad a
		JOIN users.account u ON u.id = a.userid
		WHERE a.userid = $1 AND ($2 = '' OR a.type = $2)
		ORDER BY a.createdat DESC`

	filter = filter.Normalized()
	rows, err := repository.pool.Query(ctx, query, ownerID, filter.Type)
	if err != nil {
		return nil, fmt.Errorf("postgres_ad_repo_list_by_owner_failed: %w", err)
	}
	defer rows.Close()

	var ads []*Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_ad_repo_list_by_owner_scan_failed: %w", err)
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_ad_repo_list_by_owner_rows_failed: %w", err)
	}

	return ads, nil
}

// Update persists the mutable fields of an ad. Owner and view count are
// deliberately absent from the statement.
func (repository *PostgresAdRepository) Update(ctx context.Context, ad *Ad) error {
	const query = `
		UPDATE listing.ad
		SET type = $2, title = $3, slug = $4, description = $5, builtyear = $6,
		    category = $7, address = $8, price = $9, bedrooms = $10,
		    bathrooms = $11, landsize = NULLIF($12, ''), carpark = $13,
		    images = $14, rentperiod = NULLIF($15, ''),
		    longitude = $16, latitude = $17, updatedat = $18
		WHERE id = $1`

	ad.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		ad.ID,
		ad.Type,
		ad.Title,
		ad.Slug,
		ad.Description,
		ad.BuiltYear,
		ad.Category,
		ad.Address,
		ad.Price,
		ad.Bedrooms,
		ad.Bathrooms,
		ad.LandSize,
		ad.CarPark,
		ad.Images,
		ad.RentPeriod,
		ad.Location.Coordinates[0],
		ad.Location.Coordinates[1],
		ad.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_ad_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ad")
	}

	return nil
}

// Delete removes an advertisement row.
func (repository *PostgresAdRepository) Delete(ctx context.Context, id string) error {
	const query = "DELETE FROM listing.ad WHERE id = $1"

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_ad_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ad")
	}

	return nil
}
