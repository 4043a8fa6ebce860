// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureCode returns a hex-encoded random string built from
// byteLength bytes of CSPRNG output (so the string is 2*byteLength chars).
//
// Used for password reset codes, pending-registration keys, and generated
// username suffixes.
func GenerateSecureCode(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
