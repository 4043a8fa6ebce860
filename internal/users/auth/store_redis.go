// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rooftophq/rooftop/internal/platform/apperr"
	"github.com/rooftophq/rooftop/internal/platform/constants"
)

// RedisPendingRegistrationRepository implements PendingRegistrationRepository
// using Redis. Expiry falls out of the key TTL for free, which is exactly the
// semantics an unconfirmed registration needs.
type RedisPendingRegistrationRepository struct {
	client *redis.Client
}

// NewPendingRegistrationRepository creates a new Redis-backed repository.
func NewPendingRegistrationRepository(client *redis.Client) *RedisPendingRegistrationRepository {
	return &RedisPendingRegistrationRepository{client: client}
}

/*
Set stores a pending registration under its random code with the given TTL.

Parameters:
  - context: context.Context
  - code: string
  - pending: PendingRegistration
  - ttl: time.Duration

Returns:
  - error: Serialization or execution errors
*/
func (repository *RedisPendingRegistrationRepository) Set(context context.Context, code string, pending PendingRegistration, ttl time.Duration) error {
	key := constants.RedisPrefixPendingRegistration + code

	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("redis_pending_registration_marshal_failed: %w", err)
	}

	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_pending_registration_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the pending registration for a given code.

Description: Returns apperr.NotFound if the code is absent or expired.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - *PendingRegistration: Parked state
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisPendingRegistrationRepository) Get(context context.Context, code string) (*PendingRegistration, error) {
	key := constants.RedisPrefixPendingRegistration + code

	payload, err := repository.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Pending registration")
		}
		return nil, fmt.Errorf("redis_pending_registration_get_failed: %w", err)
	}

	pending := &PendingRegistration{}
	if err := json.Unmarshal(payload, pending); err != nil {
		return nil, fmt.Errorf("redis_pending_registration_unmarshal_failed: %w", err)
	}

	return pending, nil
}

/*
Delete removes a pending registration once it has been confirmed.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisPendingRegistrationRepository) Delete(context context.Context, code string) error {
	key := constants.RedisPrefixPendingRegistration + code

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_pending_registration_delete_failed: %w", err)
	}

	return nil
}
