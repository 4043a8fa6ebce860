// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
)

func TestValidator_ChainPasses(t *testing.T) {
	v := &Validator{}
	err := v.
		Required("title", "Sunny bungalow").
		MinLen("title", "Sunny bungalow", 3).
		MaxLen("title", "Sunny bungalow", 100).
		Email("email", "buyer@rooftop.homes").
		OneOf("type", "rent", "sell", "rent").
		Range("builtyear", 1998, 1800, 2026).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

func TestValidator_CollectsAllFailures(t *testing.T) {
	v := &Validator{}
	err := v.
		Required("title", "  ").
		Email("email", "not-an-email").
		OneOf("type", "lease", "sell", "rent").
		Err()

	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 3)
	assert.Equal(t, "title", ae.Details[0].Field)
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name  string
		value int
		valid bool
	}{
		{name: "lower bound", value: 1800, valid: true},
		{name: "upper bound", value: 2026, valid: true},
		{name: "below", value: 1799, valid: false},
		{name: "above", value: 2027, valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Validator{}).Range("builtyear", tc.value, 1800, 2026).Err()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidator_NonNegative(t *testing.T) {
	neg := -1
	zero := 0

	assert.NoError(t, (&Validator{}).NonNegative("bedrooms", nil).Err())
	assert.NoError(t, (&Validator{}).NonNegative("bedrooms", &zero).Err())
	assert.Error(t, (&Validator{}).NonNegative("bedrooms", &neg).Err())
}

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{value: "https://rooftop.homes/reset", valid: true},
		{value: "http://localhost:3000", valid: true},
		{value: "ftp://example.com/file", valid: false},
		{value: "not a url", valid: false},
		{value: "", valid: false},
	}

	for _, tc := range tests {
		err := (&Validator{}).URL("photo", tc.value).Err()
		if tc.valid {
			assert.NoError(t, err, tc.value)
		} else {
			assert.Error(t, err, tc.value)
		}
	}
}

func TestValidator_UUID(t *testing.T) {
	assert.NoError(t, (&Validator{}).UUID("id", "0198c2f4-7b1a-7c3d-9e5f-1a2b3c4d5e6f").Err())
	assert.Error(t, (&Validator{}).UUID("id", "not-a-uuid").Err())
}

func TestValidator_Custom(t *testing.T) {
	err := (&Validator{}).Custom("price", true, "Must be zero or greater").Err()
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Must be zero or greater", ae.Details[0].Message)
}

func TestRequiredError(t *testing.T) {
	err := RequiredError("refreshToken", "This field is required")
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	assert.Len(t, err.Details, 1)
}
