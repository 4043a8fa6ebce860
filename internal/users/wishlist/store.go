// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// Package wishlist lets buyers bookmark advertisements on their account.
//
// # Data Model
//
// Saved ads live in a join table between accounts and advertisements. An ad
// saved twice is a no-op, and deleting an ad cascades its wishlist entries
// away, so the listing endpoints never serve dangling bookmarks.
package wishlist

import (
	"context"

	"github.com/rooftophq/rooftop/internal/listing"
)

// Repository defines the persistence contract for wishlist entries.
type Repository interface {
	/*
		Add saves an advertisement on a user's wishlist. Saving the same ad
		twice is a no-op.

		Parameters:
		  - ctx: request context.
		  - userID: the account saving the ad.
		  - adID: the advertisement being saved.

		Returns:
		  - error: [apperr.NotFound] if the ad does not exist, or a storage
		    failure.
	*/
	Add(ctx context.Context, userID, adID string) error

	/*
		Remove takes an advertisement off a user's wishlist. Removing an
		entry that is not saved is a no-op.

		Parameters:
		  - ctx: request context.
		  - userID: the account removing the ad.
		  - adID: the advertisement being removed.

		Returns:
		  - error: a storage failure.
	*/
	Remove(ctx context.Context, userID, adID string) error

	/*
		List returns the full advertisements saved by a user, in the order
		they were saved.

		Parameters:
		  - ctx: request context.
		  - userID: the account whose wishlist to read.

		Returns:
		  - []*listing.Ad: the saved advertisements.
		  - error: a storage failure.
	*/
	List(ctx context.Context, userID string) ([]*listing.Ad, error)
}
