// Package cache is the short-lived shared store for live session snapshots.
// One Redis key per data category under the live: namespace; values are JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every live data key
const KeyPrefix = "live:"

// Data categories. Each maps to exactly one key under KeyPrefix.
const (
	CategoryStandings = "standings"
	CategoryTiming    = "timing"
	CategoryTires     = "tires"
	CategoryWeather   = "weather"
	CategorySession   = "session"
	CategoryStatus    = "status"
)

const lastUpdateKey = KeyPrefix + "last_update"

// DataTTL is the default lifetime of a snapshot category. Generous relative
// to the poll interval so a transient fetch failure does not blank the cache.
const DataTTL = time.Hour

// NonExpiring marks an entry that must not expire. Used for the session
// state, whose absence is itself meaningful.
const NonExpiring time.Duration = 0

// LiveCache reads and writes snapshot categories in Redis
type LiveCache struct {
	client *redis.Client
}

// New creates a cache over an existing Redis client
func New(client *redis.Client) *LiveCache {
	return &LiveCache{client: client}
}

// Put fully replaces a category's record and advances the global last-update
// timestamp. A zero ttl stores the entry without expiration.
func (c *LiveCache) Put(ctx context.Context, category string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", category, err)
	}

	if err := c.client.Set(ctx, KeyPrefix+category, data, ttl).Err(); err != nil {
		return fmt.Errorf("storing %s: %w", category, err)
	}

	if err := c.client.Set(ctx, lastUpdateKey, time.Now().UTC().Format(time.RFC3339), NonExpiring).Err(); err != nil {
		return fmt.Errorf("storing last update: %w", err)
	}

	return nil
}

// Get unmarshals a category into dest. Returns false when the entry is
// absent or expired.
func (c *LiveCache) Get(ctx context.Context, category string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, KeyPrefix+category).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", category, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("unmarshaling %s: %w", category, err)
	}

	return true, nil
}

// LastUpdate returns the timestamp of the most recent successful Put
func (c *LiveCache) LastUpdate(ctx context.Context) (time.Time, bool) {
	val, err := c.client.Get(ctx, lastUpdateKey).Result()
	if err != nil {
		return time.Time{}, false
	}

	ts, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}

// Clear removes every key in the live namespace
func (c *LiveCache) Clear(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, KeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("listing live keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clearing live keys: %w", err)
	}

	return nil
}
