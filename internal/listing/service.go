// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package listing

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/ctxutil"
	"github.com/rooftophq/rooftop/internal/platform/storage"
	"github.com/rooftophq/rooftop/internal/platform/validate"
	"github.com/rooftophq/rooftop/pkg/pagination"
	"github.com/rooftophq/rooftop/pkg/slug"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

const (
	minBuiltYear = 1800

	// imageKeyPrefix namespaces every uploaded object under a single folder.
	imageKeyPrefix = "ads/"
)

// AdInput carries the client-supplied fields of an advertisement.
//
// Location is a pointer so updates can omit it and keep the stored
// coordinates.
type AdInput struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	BuiltYear   *int      `json:"builtyear"`
	Category    string    `json:"category"`
	Address     string    `json:"address"`
	Price       float64   `json:"price"`
	Bedrooms    *int      `json:"bedrooms"`
	Bathrooms   *int      `json:"bathrooms"`
	LandSize    string    `json:"landSize"`
	CarPark     *int      `json:"carpark"`
	Images      []string  `json:"images"`
	RentPeriod  string    `json:"rentPeriod"`
	Location    *Location `json:"location"`
}

// UploadFile is one multipart file destined for object storage.
type UploadFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Service orchestrates advertisement business logic.
type Service struct {
	ads         AdRepository
	objects     storage.ObjectStore
	rentPeriods []string
}

/*
NewService creates a new advertisement service.

Parameters:
  - ads: the advertisement repository.
  - objects: the object store holding listing images.
  - rentPeriods: the recognized billing periods for rental ads.
*/
func NewService(ads AdRepository, objects storage.ObjectStore, rentPeriods []string) *Service {
	return &Service{ads: ads, objects: objects, rentPeriods: rentPeriods}
}

/*
Create validates the input and persists a new advertisement owned by ownerID.

Parameters:
  - ctx: request context.
  - ownerID: the authenticated account creating the ad.
  - in: the client-supplied advertisement fields.

Returns:
  - *Ad: the persisted advertisement with its owner projection.
  - error: a validation error, or a storage failure.
*/
func (service *Service) Create(ctx context.Context, ownerID string, in AdInput) (*Ad, error) {
	if err := service.validateInput(in); err != nil {
		return nil, err
	}

	ad := buildAd(in)
	ad.ID = uuid.New()
	ad.Owner = Owner{ID: ownerID}
	ad.CreatedAt = time.Now()

	if err := service.ads.Create(ctx, ad); err != nil {
		return nil, err
	}

	// Re-read so the response carries the joined owner projection.
	return service.ads.FindByID(ctx, ad.ID, false)
}

/*
Update applies client changes to an existing advertisement.

Only the owner can update an ad. A nil Location keeps the stored coordinates.

Parameters:
  - ctx: request context.
  - adID: the advertisement to update.
  - userID: the authenticated account attempting the update.
  - in: the replacement fields.

Returns:
  - *Ad: the updated advertisement.
  - error: [apperr.NotFound], [apperr.Forbidden], a validation error, or a
    storage failure.
*/
func (service *Service) Update(ctx context.Context, adID, userID string, in AdInput) (*Ad, error) {
	if !uuid.IsValid(adID) {
		return nil, apperr.NotFound("Ad")
	}

	existing, err := service.ads.FindByID(ctx, adID, false)
	if err != nil {
		return nil, err
	}
	if existing.Owner.ID != userID {
		return nil, apperr.Forbidden("You can only edit your own ads")
	}

	if in.Location == nil {
		in.Location = &existing.Location
	}
	if err := service.validateInput(in); err != nil {
		return nil, err
	}

	ad := buildAd(in)
	ad.ID = existing.ID
	ad.Owner = existing.Owner
	ad.ViewCount = existing.ViewCount
	ad.CreatedAt = existing.CreatedAt

	if err := service.ads.Update(ctx, ad); err != nil {
		return nil, err
	}

	return service.ads.FindByID(ctx, ad.ID, false)
}

/*
Delete removes an advertisement and, best effort, its stored images.

Parameters:
  - ctx: request context.
  - adID: the advertisement to delete.
  - userID: the authenticated account attempting the deletion.

Returns:
  - error: [apperr.NotFound], [apperr.Forbidden], or a storage failure.
*/
func (service *Service) Delete(ctx context.Context, adID, userID string) error {
	if !uuid.IsValid(adID) {
		return apperr.NotFound("Ad")
	}

	ad, err := service.ads.FindByID(ctx, adID, false)
	if err != nil {
		return err
	}
	if ad.Owner.ID != userID {
		return apperr.Forbidden("You can only delete your own ads")
	}

	// Orphaned objects are preferable to a row that refuses to die, so image
	// cleanup failures are logged and swallowed.
	logger := ctxutil.GetLogger(ctx)
	for _, raw := range ad.Images {
		key := service.objects.KeyFromURL(raw)
		if key == "" {
			continue
		}
		if err := service.objects.Delete(ctx, key); err != nil {
			logger.WarnContext(ctx, "ad_image_cleanup_failed",
				"ad_id", adID,
				"key", key,
				"error", err,
			)
		}
	}

	return service.ads.Delete(ctx, adID)
}

/*
Get retrieves a single advertisement.

Parameters:
  - ctx: request context.
  - id: the advertisement ID.
  - incrementView: when true, the view counter is bumped atomically before
    the read.

Returns:
  - *Ad: the advertisement.
  - error: [apperr.NotFound] or a storage failure.
*/
func (service *Service) Get(ctx context.Context, id string, incrementView bool) (*Ad, error) {
	// The id column is uuid-typed; anything unparsable can never resolve, and
	// letting it reach the query would surface as a cast error instead.
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Ad")
	}
	return service.ads.FindByID(ctx, id, incrementView)
}

/*
List returns a page of advertisements, newest first.

Parameters:
  - ctx: request context.
  - filter: optional type filter; unrecognized values match everything.
  - params: page and limit.

Returns:
  - []*Ad: the page of advertisements.
  - int64: the total number of matches across all pages.
  - error: a storage failure.
*/
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Ad, int64, error) {
	return service.ads.List(ctx, filter.Normalized(), params)
}

/*
ListByOwner returns every advertisement belonging to an account, newest first.

Parameters:
  - ctx: request context.
  - ownerID: the owning account.
  - filter: optional type filter.

Returns:
  - []*Ad: the owner's advertisements.
  - error: a storage failure.
*/
func (service *Service) ListByOwner(ctx context.Context, ownerID string, filter Filter) ([]*Ad, error) {
	return service.ads.ListByOwner(ctx, ownerID, filter.Normalized())
}

/*
UploadImages stores listing images and returns their public URLs.

Each object key is a fresh UUID joined with the original filename so uploads
never collide.

Uploads fan out concurrently and are all awaited; any failure fails the whole
request so the client never receives a partial URL set.

Parameters:
  - ctx: request context.
  - files: the multipart files to store.

Returns:
  - []string: one public URL per uploaded file, in input order.
  - error: the first upload failure, wrapped as an upstream error.
*/
func (service *Service) UploadImages(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, validate.RequiredError("images", "At least one image is required")
	}

	urls := make([]string, len(files))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, file := range files {
		i, file := i, file
		key := imageKeyPrefix + uuid.New() + "-" + safeFilename(file.Filename)
		group.Go(func() error {
			url, err := service.objects.Upload(groupCtx, key, file.ContentType, file.Body)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, apperr.Upstream("Failed to upload image", err)
	}

	return urls, nil
}

/*
RemoveImage deletes a stored listing image by its public URL or object key.

Parameters:
  - ctx: request context.
  - raw: the public URL (or bare key) of the image.

Returns:
  - error: [apperr.NotFound] if the object does not exist, or an upstream
    failure.
*/
func (service *Service) RemoveImage(ctx context.Context, raw string) error {
	if raw == "" {
		return validate.RequiredError("key", "This field is required")
	}

	key := service.objects.KeyFromURL(raw)
	if key == "" {
		key = raw
	}

	if err := service.objects.Delete(ctx, key); err != nil {
		if err == storage.ErrObjectNotFound {
			return apperr.NotFound("Image")
		}
		return apperr.Upstream("Failed to delete image", err)
	}

	return nil
}

// safeFilename turns a client-supplied filename into a URL-safe object key
// segment, keeping the extension so browsers infer the content type.
func safeFilename(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	stem := slug.From(strings.TrimSuffix(filename, path.Ext(filename)))
	if stem == "" {
		stem = "image"
	}
	return stem + ext
}

// validateInput runs the full rule set over an advertisement payload.
// Callers must resolve Location before validating; nil fails the rule.
func (service *Service) validateInput(in AdInput) error {
	v := &validate.Validator{}

	v.Required("title", in.Title).
		Required("description", in.Description).
		Required("address", in.Address).
		OneOf("type", in.Type, string(AdTypeSell), string(AdTypeRent)).
		OneOf("category", in.Category, categoryNames()...).
		Custom("price", in.Price < 0, "Must be zero or greater").
		NonNegative("bedrooms", in.Bedrooms).
		NonNegative("bathrooms", in.Bathrooms).
		NonNegative("carpark", in.CarPark)

	if in.BuiltYear != nil {
		v.Range("builtyear", *in.BuiltYear, minBuiltYear, time.Now().Year())
	}

	if in.Location == nil || !in.Location.Valid() {
		v.Custom("location", true, "Invalid location data")
	}

	if AdType(in.Type) == AdTypeRent {
		if in.RentPeriod == "" {
			v.Custom("rentPeriod", true, "This field is required for rental ads")
		} else {
			v.OneOf("rentPeriod", in.RentPeriod, service.rentPeriods...)
		}
	}

	return v.Err()
}

// buildAd maps a validated input onto the domain entity. Rental billing
// periods never survive on a sale ad.
func buildAd(in AdInput) *Ad {
	ad := &Ad{
		Type:        AdType(in.Type),
		Title:       in.Title,
		Slug:        slug.From(in.Title),
		Description: in.Description,
		BuiltYear:   in.BuiltYear,
		Category:    Category(in.Category),
		Address:     in.Address,
		Price:       in.Price,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		LandSize:    in.LandSize,
		CarPark:     in.CarPark,
		Images:      in.Images,
		RentPeriod:  in.RentPeriod,
		Location:    *in.Location,
	}

	if ad.Type == AdTypeSell {
		ad.RentPeriod = ""
	}
	if ad.Images == nil {
		ad.Images = []string{}
	}

	return ad
}
