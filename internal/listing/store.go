// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package listing

import (
	"context"

	"github.com/rooftophq/rooftop/pkg/pagination"
)

// AdRepository defines the data access contract for property advertisements.
type AdRepository interface {

	/*
		Create persists a new advertisement.

		Parameters:
		  - context: context.Context
		  - ad: *Ad (Owner.ID must be set; the projection fields are ignored)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, ad *Ad) error

	/*
		FindByID returns the ad with its owner projection joined in.

		Parameters:
		  - context: context.Context
		  - id: string
		  - incrementView: bool (atomically bump the view counter first)

		Returns:
		  - *Ad: Hydrated entity, ViewCount reflecting the bump if requested
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string, incrementView bool) (*Ad, error)

	/*
		List returns a page of ads, newest first, with the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - params: pagination.Params

		Returns:
		  - []*Ad: The page
		  - int64: Total ads matching the filter
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter, params pagination.Params) ([]*Ad, int64, error)

	/*
		ListByOwner returns every ad belonging to an account, newest first.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - filter: Filter

		Returns:
		  - []*Ad: All matching ads (unpaginated; a single owner's set is small)
		  - error: Retrieval failures
	*/
	ListByOwner(context context.Context, ownerID string, filter Filter) ([]*Ad, error)

	/*
		Update persists changes to every mutable field of the ad.
		The owner and view count are never written.

		Parameters:
		  - context: context.Context
		  - ad: *Ad

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Update(context context.Context, ad *Ad) error

	/*
		Delete removes the advertisement row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error
}
