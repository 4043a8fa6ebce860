// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package listing

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/storage"
	"github.com/rooftophq/rooftop/pkg/pagination"
	"github.com/rooftophq/rooftop/pkg/pointer"
	"github.com/rooftophq/rooftop/pkg/uuid"
)

// fakeAdRepo is an in-memory AdRepository with copy-on-read semantics.
type fakeAdRepo struct {
	ads       map[string]*Ad
	findCalls int
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: make(map[string]*Ad)}
}

func copyAd(ad *Ad) *Ad {
	clone := *ad
	clone.Images = append([]string(nil), ad.Images...)
	clone.Location.Coordinates = append([]float64(nil), ad.Location.Coordinates...)
	return &clone
}

func (f *fakeAdRepo) Create(_ context.Context, ad *Ad) error {
	f.ads[ad.ID] = copyAd(ad)
	return nil
}

func (f *fakeAdRepo) FindByID(_ context.Context, id string, incrementView bool) (*Ad, error) {
	f.findCalls++
	ad, ok := f.ads[id]
	if !ok {
		return nil, apperr.NotFound("Ad")
	}
	if incrementView {
		ad.ViewCount++
	}
	return copyAd(ad), nil
}

func (f *fakeAdRepo) List(_ context.Context, filter Filter, params pagination.Params) ([]*Ad, int64, error) {
	var matched []*Ad
	for _, ad := range f.ads {
		if filter.Type != "" && string(ad.Type) != filter.Type {
			continue
		}
		matched = append(matched, copyAd(ad))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := params.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeAdRepo) ListByOwner(_ context.Context, ownerID string, filter Filter) ([]*Ad, error) {
	var matched []*Ad
	for _, ad := range f.ads {
		if ad.Owner.ID != ownerID {
			continue
		}
		if filter.Type != "" && string(ad.Type) != filter.Type {
			continue
		}
		matched = append(matched, copyAd(ad))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (f *fakeAdRepo) Update(_ context.Context, ad *Ad) error {
	existing, ok := f.ads[ad.ID]
	if !ok {
		return apperr.NotFound("Ad")
	}
	clone := copyAd(ad)
	clone.Owner = existing.Owner
	clone.ViewCount = existing.ViewCount
	f.ads[ad.ID] = clone
	return nil
}

func (f *fakeAdRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.ads[id]; !ok {
		return apperr.NotFound("Ad")
	}
	delete(f.ads, id)
	return nil
}

// fakeObjectStore records uploads and deletions, with per-key failures.
// Uploads run concurrently, so it guards its state with a mutex.
type fakeObjectStore struct {
	mu              sync.Mutex
	uploads         []string
	deleted         []string
	failKeys        map[string]error
	failUploadsLike string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{failKeys: make(map[string]error)}
}

func (f *fakeObjectStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploadsLike != "" && strings.Contains(key, f.failUploadsLike) {
		return "", fmt.Errorf("bucket unavailable")
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failKeys[key]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) KeyFromURL(raw string) string {
	parts := strings.Split(strings.TrimSuffix(raw, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

type listingFixture struct {
	service *Service
	ads     *fakeAdRepo
	objects *fakeObjectStore
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	ads := newFakeAdRepo()
	objects := newFakeObjectStore()
	return &listingFixture{
		service: NewService(ads, objects, []string{"month"}),
		ads:     ads,
		objects: objects,
	}
}

func validRentInput() AdInput {
	return AdInput{
		Type:        "rent",
		Title:       "Sunny two-bed flat",
		Description: "Close to the station",
		Category:    "apartment",
		Address:     "12 Harbour Street",
		Price:       1450,
		Bedrooms:    pointer.To(2),
		Bathrooms:   pointer.To(1),
		RentPeriod:  "month",
		Location:    &Location{Type: "Point", Coordinates: []float64{151.2093, -33.8688}},
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	return appErr.Code
}

func TestCreateAd(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a valid rental ad", func(t *testing.T) {
		f := newListingFixture(t)

		ad, err := f.service.Create(ctx, "owner-1", validRentInput())
		require.NoError(t, err)

		assert.NotEmpty(t, ad.ID)
		assert.Equal(t, "owner-1", ad.Owner.ID)
		assert.Equal(t, AdTypeRent, ad.Type)
		assert.Equal(t, "sunny-two-bed-flat", ad.Slug)
		assert.Equal(t, "month", ad.RentPeriod)
		assert.EqualValues(t, 0, ad.ViewCount)
	})

	t.Run("drops the rent period on a sale ad", func(t *testing.T) {
		f := newListingFixture(t)

		input := validRentInput()
		input.Type = "sell"
		input.RentPeriod = "month"

		ad, err := f.service.Create(ctx, "owner-1", input)
		require.NoError(t, err)
		assert.Empty(t, ad.RentPeriod)
	})

	t.Run("requires a rent period on rental ads", func(t *testing.T) {
		f := newListingFixture(t)

		input := validRentInput()
		input.RentPeriod = ""

		_, err := f.service.Create(ctx, "owner-1", input)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("rejects an unrecognized rent period", func(t *testing.T) {
		f := newListingFixture(t)

		input := validRentInput()
		input.RentPeriod = "fortnight"

		_, err := f.service.Create(ctx, "owner-1", input)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("validates field rules", func(t *testing.T) {
		f := newListingFixture(t)

		mutations := map[string]func(*AdInput){
			"missing title":      func(in *AdInput) { in.Title = "" },
			"unknown type":       func(in *AdInput) { in.Type = "lease" },
			"unknown category":   func(in *AdInput) { in.Category = "castle" },
			"negative price":     func(in *AdInput) { in.Price = -1 },
			"negative bedrooms":  func(in *AdInput) { in.Bedrooms = pointer.To(-1) },
			"ancient built year": func(in *AdInput) { in.BuiltYear = pointer.To(1799) },
			"future built year":  func(in *AdInput) { in.BuiltYear = pointer.To(time.Now().Year() + 1) },
		}

		for name, mutate := range mutations {
			t.Run(name, func(t *testing.T) {
				input := validRentInput()
				mutate(&input)

				_, err := f.service.Create(ctx, "owner-1", input)
				assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
			})
		}
	})

	t.Run("accepts boundary coordinates and rejects beyond", func(t *testing.T) {
		f := newListingFixture(t)

		input := validRentInput()
		input.Location = &Location{Type: "Point", Coordinates: []float64{180, -90}}
		_, err := f.service.Create(ctx, "owner-1", input)
		assert.NoError(t, err)

		for _, coords := range [][]float64{{180.01, 0}, {0, 90.01}, {0}, nil} {
			input := validRentInput()
			input.Location = &Location{Type: "Point", Coordinates: coords}
			_, err := f.service.Create(ctx, "owner-1", input)
			assert.Error(t, err, "coordinates %v should be rejected", coords)
		}
	})
}

func TestUpdateAd(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner can update", func(t *testing.T) {
		f := newListingFixture(t)
		ad, err := f.service.Create(ctx, "owner-1", validRentInput())
		require.NoError(t, err)

		_, err = f.service.Update(ctx, ad.ID, "intruder", validRentInput())
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
		assert.EqualError(t, err, "You can only edit your own ads")
	})

	t.Run("keeps stored coordinates when location is omitted", func(t *testing.T) {
		f := newListingFixture(t)
		ad, err := f.service.Create(ctx, "owner-1", validRentInput())
		require.NoError(t, err)

		input := validRentInput()
		input.Title = "Renovated two-bed flat"
		input.Location = nil

		updated, err := f.service.Update(ctx, ad.ID, "owner-1", input)
		require.NoError(t, err)
		assert.Equal(t, "Renovated two-bed flat", updated.Title)
		assert.Equal(t, ad.Location.Coordinates, updated.Location.Coordinates)
	})

	t.Run("never resets the view counter", func(t *testing.T) {
		f := newListingFixture(t)
		ad, err := f.service.Create(ctx, "owner-1", validRentInput())
		require.NoError(t, err)

		_, err = f.service.Get(ctx, ad.ID, true)
		require.NoError(t, err)

		updated, err := f.service.Update(ctx, ad.ID, "owner-1", validRentInput())
		require.NoError(t, err)
		assert.EqualValues(t, 1, updated.ViewCount)
	})

	t.Run("unknown ad", func(t *testing.T) {
		f := newListingFixture(t)

		_, err := f.service.Update(ctx, uuid.New(), "owner-1", validRentInput())
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteAd(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner can delete", func(t *testing.T) {
		f := newListingFixture(t)
		ad, err := f.service.Create(ctx, "owner-1", validRentInput())
		require.NoError(t, err)

		err = f.service.Delete(ctx, ad.ID, "intruder")
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
		assert.EqualError(t, err, "You can only delete your own ads")
	})

	t.Run("removes stored images alongside the row", func(t *testing.T) {
		f := newListingFixture(t)

		input := validRentInput()
		input.Images = []string{
			"https://cdn.test/ads/first.jpg",
			"https://cdn.test/ads/second.jpg",
		}
		ad, err := f.service.Create(ctx, "owner-1", input)
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(ctx, ad.ID, "owner-1"))
		assert.ElementsMatch(t, []string{"ads/first.jpg", "ads/second.jpg"}, f.objects.deleted)

		_, err = f.service.Get(ctx, ad.ID, false)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("an image cleanup failure does not block the delete", func(t *testing.T) {
		f := newListingFixture(t)
		f.objects.failKeys["ads/stuck.jpg"] = fmt.Errorf("bucket unavailable")

		input := validRentInput()
		input.Images = []string{"https://cdn.test/ads/stuck.jpg"}
		ad, err := f.service.Create(ctx, "owner-1", input)
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(ctx, ad.ID, "owner-1"))

		_, err = f.service.Get(ctx, ad.ID, false)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestGetAd(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	ad, err := f.service.Create(ctx, "owner-1", validRentInput())
	require.NoError(t, err)

	// Plain fetches leave the counter alone.
	fetched, err := f.service.Get(ctx, ad.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0, fetched.ViewCount)

	// Increment fetches bump it once each.
	for i := 1; i <= 3; i++ {
		fetched, err = f.service.Get(ctx, ad.ID, true)
		require.NoError(t, err)
		assert.EqualValues(t, i, fetched.ViewCount)
	}
}

// Ids that cannot parse as a UUID can never resolve against the uuid-typed
// column; they must come back as a clean not-found without touching storage.
func TestMalformedAdID(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	_, err := f.service.Get(ctx, "not-a-uuid", false)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	_, err = f.service.Update(ctx, "not-a-uuid", "owner-1", validRentInput())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	err = f.service.Delete(ctx, "not-a-uuid", "owner-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	assert.Zero(t, f.ads.findCalls, "malformed ids must never reach the repository")
}

func TestListAds(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	for i := 0; i < 3; i++ {
		input := validRentInput()
		input.Title = fmt.Sprintf("Rental %d", i)
		_, err := f.service.Create(ctx, "owner-1", input)
		require.NoError(t, err)
	}
	sale := validRentInput()
	sale.Type = "sell"
	sale.RentPeriod = ""
	_, err := f.service.Create(ctx, "owner-2", sale)
	require.NoError(t, err)

	t.Run("unfiltered list returns everything", func(t *testing.T) {
		ads, total, err := f.service.List(ctx, Filter{}, pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, ads, 4)
		assert.EqualValues(t, 4, total)
	})

	t.Run("type filter narrows the set", func(t *testing.T) {
		ads, total, err := f.service.List(ctx, Filter{Type: "sell"}, pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, ads, 1)
		assert.EqualValues(t, 1, total)
	})

	t.Run("unrecognized type matches everything", func(t *testing.T) {
		_, total, err := f.service.List(ctx, Filter{Type: "mansion"}, pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
	})

	t.Run("owner listing", func(t *testing.T) {
		ads, err := f.service.ListByOwner(ctx, "owner-1", Filter{})
		require.NoError(t, err)
		assert.Len(t, ads, 3)

		ads, err = f.service.ListByOwner(ctx, "owner-1", Filter{Type: "sell"})
		require.NoError(t, err)
		assert.Empty(t, ads)
	})
}

func TestUploadImages(t *testing.T) {
	ctx := context.Background()
	f := newListingFixture(t)

	t.Run("uploads under the ads prefix, URLs in input order", func(t *testing.T) {
		urls, err := f.service.UploadImages(ctx, []UploadFile{
			{Filename: "kitchen.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
			{Filename: "garden.png", ContentType: "image/png", Body: strings.NewReader("png")},
		})
		require.NoError(t, err)
		require.Len(t, urls, 2)

		// Uploads run concurrently, so the store sees keys in any order; the
		// returned URLs still line up with the input files.
		for _, key := range f.objects.uploads {
			assert.True(t, strings.HasPrefix(key, "ads/"), "key %q missing prefix", key)
		}
		assert.True(t, strings.HasSuffix(urls[0], "-kitchen.jpg"))
		assert.True(t, strings.HasSuffix(urls[1], "-garden.png"))
	})

	t.Run("one failing upload fails the whole batch", func(t *testing.T) {
		f := newListingFixture(t)
		f.objects.failUploadsLike = "-broken.jpg"

		_, err := f.service.UploadImages(ctx, []UploadFile{
			{Filename: "fine.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
			{Filename: "broken.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
		})
		assert.Equal(t, "UPSTREAM_FAILURE", appErrCode(t, err))
	})

	t.Run("sanitizes awkward filenames", func(t *testing.T) {
		f := newListingFixture(t)

		_, err := f.service.UploadImages(ctx, []UploadFile{
			{Filename: "Front Façade (2).JPG", ContentType: "image/jpeg", Body: strings.NewReader("jpeg")},
		})
		require.NoError(t, err)
		require.Len(t, f.objects.uploads, 1)
		assert.True(t, strings.HasSuffix(f.objects.uploads[0], "-front-facade-2.jpg"),
			"got key %q", f.objects.uploads[0])
	})

	t.Run("requires at least one file", func(t *testing.T) {
		_, err := f.service.UploadImages(ctx, nil)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})
}

func TestRemoveImage(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes by public URL", func(t *testing.T) {
		f := newListingFixture(t)

		err := f.service.RemoveImage(ctx, "https://cdn.test/ads/kitchen.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"ads/kitchen.jpg"}, f.objects.deleted)
	})

	t.Run("missing object maps to not found", func(t *testing.T) {
		f := newListingFixture(t)
		f.objects.failKeys["ads/gone.jpg"] = storage.ErrObjectNotFound

		err := f.service.RemoveImage(ctx, "https://cdn.test/ads/gone.jpg")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		f := newListingFixture(t)

		err := f.service.RemoveImage(ctx, "")
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})
}
