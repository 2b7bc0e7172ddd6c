package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/markhallen/storefront/internal/cartsync"
	redisclient "github.com/markhallen/storefront/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type cartKeyer interface {
	CartCacheKey(owner string) string
}

// Cache persists cart snapshots in Redis as JSON, one key per owner.
type Cache struct {
	store kvStore
	keyer cartKeyer
	ttl   time.Duration
}

// New builds a snapshot cache on the shared Redis client.
func New(client *redisclient.Client, ttl time.Duration) (*Cache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	return &Cache{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Read loads the owner's snapshot. A missing key returns (nil, nil).
func (c *Cache) Read(ctx context.Context, owner cartsync.Owner) (*cartsync.Snapshot, error) {
	raw, err := c.store.Get(ctx, c.keyer.CartCacheKey(string(owner)))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart cache: %w", err)
	}

	var snap cartsync.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decoding cart cache: %w", err)
	}
	return &snap, nil
}

// Write stores the owner's snapshot with the configured TTL.
func (c *Cache) Write(ctx context.Context, owner cartsync.Owner, snap cartsync.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding cart cache: %w", err)
	}
	if err := c.store.Set(ctx, c.keyer.CartCacheKey(string(owner)), payload, c.ttl); err != nil {
		return fmt.Errorf("writing cart cache: %w", err)
	}
	return nil
}
