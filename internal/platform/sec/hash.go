// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxInputBytes is bcrypt's hard input cap. Inputs past it make
// GenerateFromPassword fail outright.
const bcryptMaxInputBytes = 72

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt.DefaultCost (10) meets the platform's minimum cost-factor policy
// while keeping registration latency acceptable.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword(bcryptInput(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// bcrypt performs the comparison in constant time, preventing timing attacks.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), bcryptInput(plainTextPassword))
	return err == nil
}

// bcryptInput returns the bytes actually fed to bcrypt. Passwords over the
// 72-byte cap are folded through SHA-256 first (hex, 64 bytes) so accounts
// can use any password the account schema admits.
func bcryptInput(plainTextPassword string) []byte {
	if len(plainTextPassword) <= bcryptMaxInputBytes {
		return []byte(plainTextPassword)
	}
	digest := sha256.Sum256([]byte(plainTextPassword))
	return []byte(hex.EncodeToString(digest[:]))
}
