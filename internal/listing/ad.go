// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

/*
Package listing owns the property advertisement lifecycle: creation, search,
updates, deletion, view counting, and the image pipeline backing it all.

# Architecture

  - Entities: Ad, Location, Owner.
  - Service: Validation, ownership enforcement, image fan-out.
  - Storage: PostgreSQL (listing.ad) plus an S3-compatible bucket for images.

# Ownership Model

Every ad belongs to exactly one account, fixed at creation. Reads are public;
every mutation checks the caller against the owner and nothing else — there
is no editorial role above owners.
*/
package listing

import (
	"time"
)

// AdType distinguishes sale listings from rentals.
type AdType string

const (
	AdTypeSell AdType = "sell"
	AdTypeRent AdType = "rent"
)

// IsValid reports whether the value is one of the two recognized ad types.
func (t AdType) IsValid() bool {
	return t == AdTypeSell || t == AdTypeRent
}

// Category is the property kind advertised.
type Category string

const (
	CategoryTerrace      Category = "terrace"
	CategoryDetached     Category = "detached"
	CategorySemiDetached Category = "semi-detached"
	CategoryBungalow     Category = "bungalow"
	CategoryApartment    Category = "apartment"
	CategoryOther        Category = "other"
)

// Categories lists every recognized property category.
var Categories = []Category{
	CategoryTerrace,
	CategoryDetached,
	CategorySemiDetached,
	CategoryBungalow,
	CategoryApartment,
	CategoryOther,
}

// categoryNames returns the categories as strings for the validator.
func categoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// # Geography

// Location is a GeoJSON Point pinning the property on the map.
//
// Coordinates are [longitude, latitude], matching the GeoJSON axis order the
// map client emits.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Valid reports whether the location is a well-formed Point with in-range
// coordinates. Bounds are inclusive: the poles and the antimeridian are
// legitimate addresses.
func (l Location) Valid() bool {
	if l.Type != "Point" || len(l.Coordinates) != 2 {
		return false
	}
	longitude, latitude := l.Coordinates[0], l.Coordinates[1]
	return longitude >= -180 && longitude <= 180 && latitude >= -90 && latitude <= 90
}

// # Entities

// Owner is the public projection of the account behind an ad.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Ad represents a property advertisement.
//
// # Rules
//   - Type, Title, Description, Category, Address, Price, Location are required.
//   - RentPeriod is required for rentals and dropped for sales.
//   - Owner is fixed at creation; updates never touch it.
//   - ViewCount only grows, and only via the explicit increment fetch.
type Ad struct {
	ID          string   `json:"id"`
	Type        AdType   `json:"type"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	BuiltYear   *int     `json:"builtyear,omitempty"`
	Category    Category `json:"category"`
	Address     string   `json:"address"`
	Price       float64  `json:"price"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`
	Bathrooms   *int     `json:"bathrooms,omitempty"`
	LandSize    string   `json:"landSize,omitempty"`
	CarPark     *int     `json:"carpark,omitempty"`
	Images      []string `json:"images"`
	RentPeriod  string   `json:"rentPeriod,omitempty"`
	Location    Location `json:"location"`
	Owner       Owner    `json:"user"`
	ViewCount   int64    `json:"viewCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows ad listings. The zero value matches everything.
type Filter struct {
	// Type restricts to "sell" or "rent"; unrecognized values are ignored
	// so stale client links keep working.
	Type string
}

// Normalized returns the filter with unrecognized type values blanked.
func (f Filter) Normalized() Filter {
	if !AdType(f.Type).IsValid() {
		f.Type = ""
	}
	return f
}
