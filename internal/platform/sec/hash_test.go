// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("round-trips a typical password", func(t *testing.T) {
		hash, err := HashPassword("s3cret-pass")
		require.NoError(t, err)

		assert.True(t, CheckPasswordHash("s3cret-pass", hash))
		assert.False(t, CheckPasswordHash("wrong-pass", hash))
	})

	t.Run("hashes passwords past bcrypt's 72-byte cap", func(t *testing.T) {
		long := strings.Repeat("a", 100)

		hash, err := HashPassword(long)
		require.NoError(t, err)

		assert.True(t, CheckPasswordHash(long, hash))
	})

	t.Run("long passwords differing past byte 72 do not collide", func(t *testing.T) {
		base := strings.Repeat("a", 80)

		hash, err := HashPassword(base)
		require.NoError(t, err)

		// Raw bcrypt would silently truncate and accept this variant.
		assert.False(t, CheckPasswordHash(base+"tail", hash))
	})

	t.Run("boundary lengths hash cleanly", func(t *testing.T) {
		for _, length := range []int{71, 72, 73, 256} {
			hash, err := HashPassword(strings.Repeat("x", length))
			require.NoError(t, err)
			assert.True(t, CheckPasswordHash(strings.Repeat("x", length), hash))
		}
	})
}
