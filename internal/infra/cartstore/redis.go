// Package cartstore persists the shopper's optimistic cart in Redis, one JSON
// envelope per guest session. Writes are last-write-wins: two clients sharing
// a session can race, and the newest Save simply replaces the older one.
package cartstore

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/infra"
	"storefront/internal/pkg/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	keyPrefix  = "cart:"
	lockPrefix = "cart-validation:"
)

type RedisStore struct {
	client   *redis.Client
	ttl      time.Duration
	lockTTL  time.Duration
	maxLines int
}

func NewRedisStore(client *redis.Client, cfg config.CartConfig) *RedisStore {
	return &RedisStore{
		client:   client,
		ttl:      cfg.TTL,
		lockTTL:  cfg.ValidationLockTTL,
		maxLines: cfg.MaxLines,
	}
}

// Load rehydrates the session's cart. A missing key yields an empty cart.
// A payload that no longer decodes into the envelope (schema drift, manual
// edits) is discarded and replaced with an empty cart instead of failing the
// request; the shopper loses the cart, not the session.
func (s *RedisStore) Load(ctx context.Context, cartID uuid.UUID) (*cart.Cart, error) {
	payload, err := s.client.Get(ctx, keyPrefix+cartID.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return cart.New(s.maxLines), nil
		}
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}

	lines, err := decodeCartPayload(payload)
	if err != nil {
		slog.Warn("discarding corrupt cart payload",
			"cart_id", cartID.String(),
			"error", err)
		if delErr := s.client.Del(ctx, keyPrefix+cartID.String()).Err(); delErr != nil {
			return nil, infra.WrapRepoErr("failed to discard corrupt cart", delErr)
		}
		return cart.New(s.maxLines), nil
	}

	return cart.Restore(lines, s.maxLines), nil
}

// Save persists the cart under the session key and refreshes the sliding TTL.
// Called after every mutation.
func (s *RedisStore) Save(ctx context.Context, cartID uuid.UUID, c *cart.Cart) error {
	payload, err := encodeCartPayload(c.Lines())
	if err != nil {
		return infra.WrapRepoErr("failed to encode cart", err, infra.KindCorrupt)
	}

	if err := s.client.Set(ctx, keyPrefix+cartID.String(), payload, s.ttl).Err(); err != nil {
		return infra.WrapRepoErr("failed to save cart", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := s.client.Del(ctx, keyPrefix+cartID.String()).Err(); err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}

// AcquireValidationLock makes checkout validation single-flight per cart.
// The TTL bounds the lock should the holder crash mid-validation.
func (s *RedisStore) AcquireValidationLock(ctx context.Context, cartID uuid.UUID) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockPrefix+cartID.String(), "1", s.lockTTL).Result()
	if err != nil {
		return false, infra.WrapRepoErr("failed to acquire validation lock", err)
	}
	return ok, nil
}

func (s *RedisStore) ReleaseValidationLock(ctx context.Context, cartID uuid.UUID) error {
	if err := s.client.Del(ctx, lockPrefix+cartID.String()).Err(); err != nil {
		return infra.WrapRepoErr("failed to release validation lock", err)
	}
	return nil
}
