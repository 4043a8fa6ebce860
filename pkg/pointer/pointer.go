// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

// Package pointer provides tiny generic helpers for working with optional values.
package pointer

// To returns a pointer to the given value.
//
// Useful for building partial-update payloads and test fixtures where
// literal values cannot be addressed directly.
func To[T any](value T) *T {
	return &value
}

// Deref returns the value behind ptr, or fallback when ptr is nil.
func Deref[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
