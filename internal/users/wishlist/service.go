// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package wishlist

import (
	"context"

	"github.com/rooftophq/rooftop/internal/listing"
	"github.com/rooftophq/rooftop/internal/platform/validate"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

// Service orchestrates wishlist business logic.
type Service struct {
	entries Repository
}

// NewService creates a new wishlist service.
func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

/*
Add saves an advertisement on the user's wishlist. Re-saving is a no-op.

Parameters:
  - ctx: request context.
  - userID: the authenticated account.
  - adID: the advertisement to save.

Returns:
  - error: a validation error, [apperr.NotFound] if the ad is gone, or a
    storage failure.
*/
func (service *Service) Add(ctx context.Context, userID, adID string) error {
	if adID == "" {
		return validate.RequiredError("adId", "This field is required")
	}
	if err := validateAdID(adID); err != nil {
		return err
	}
	return service.entries.Add(ctx, userID, adID)
}

/*
Remove takes an advertisement off the user's wishlist. Removing an ad that
is not saved is a no-op.

Parameters:
  - ctx: request context.
  - userID: the authenticated account.
  - adID: the advertisement to remove.

Returns:
  - error: a validation error or a storage failure.
*/
func (service *Service) Remove(ctx context.Context, userID, adID string) error {
	if adID == "" {
		return validate.RequiredError("adId", "This field is required")
	}
	if err := validateAdID(adID); err != nil {
		return err
	}
	return service.entries.Remove(ctx, userID, adID)
}

/*
List returns the user's saved advertisements in the order they were saved.

Parameters:
  - ctx: request context.
  - userID: the authenticated account.

Returns:
  - []*listing.Ad: the saved advertisements, never nil.
  - error: a storage failure.
*/
// validateAdID rejects ids that cannot parse as a UUID before they reach the
// uuid-typed adid column.
func validateAdID(adID string) error {
	if !uuid.IsValid(adID) {
		return validate.RequiredError("adId", "Must be a valid UUID")
	}
	return nil
}

func (service *Service) List(ctx context.Context, userID string) ([]*listing.Ad, error) {
	ads, err := service.entries.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []*listing.Ad{}
	}
	return ads, nil
}
