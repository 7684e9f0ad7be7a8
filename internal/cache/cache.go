package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"strconv"       // Key building
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// DefaultTTL bounds how long a superseded listing lingers in Redis
const DefaultTTL = 60 * time.Second

const (
	allBookingsKey = "bookings:all"       // Admin listing
	occupiedKey    = "bookings:units"     // Occupied unit ids
	globalGenKey   = "bookings:gen"       // Bumped on every booking change
	userGenPrefix  = "bookings:gen:user:" // Bumped on changes to one user's bookings
)

// Listing names a cached listing and the generation counter that versions it.
// Entries are stored under the listing's current generation, so a write that
// raced with an invalidation lands on a key no reader will look up again.
type Listing struct {
	Base string // Unversioned key prefix
	Gen  string // Generation counter key
}

// UserListing is one user's booking listing
func UserListing(userID uint) Listing {
	return Listing{Base: UserKey(userID), Gen: userGenPrefix + strconv.FormatUint(uint64(userID), 10)}
}

// AllListing is the admin listing of every booking
func AllListing() Listing { return Listing{Base: allBookingsKey, Gen: globalGenKey} }

// OccupiedListing is the list of booked unit ids
func OccupiedListing() Listing { return Listing{Base: occupiedKey, Gen: globalGenKey} }

// BookingCache is a read-through cache for booking listings. A nil
// *BookingCache is valid and caches nothing.
type BookingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New wraps rdb. It returns nil when rdb is nil so caching is simply disabled.
func New(rdb *redis.Client, ttl time.Duration) *BookingCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BookingCache{rdb: rdb, ttl: ttl}
}

// UserKey is the unversioned cache key of one user's listing
func UserKey(userID uint) string {
	return "bookings:user:" + strconv.FormatUint(uint64(userID), 10)
}

// AllKey is the unversioned cache key of the admin listing
func AllKey() string { return allBookingsKey }

// OccupiedKey is the unversioned cache key of the occupied unit list
func OccupiedKey() string { return occupiedKey }

// Key returns the key listing currently lives at. It must be resolved before
// the listing is loaded from the database.
func (c *BookingCache) Key(ctx context.Context, listing Listing) (string, error) {
	if c == nil {
		return listing.Base, nil
	}
	gen, err := c.rdb.Get(ctx, listing.Gen).Int64() // Read current generation
	if errors.Is(err, redis.Nil) {
		gen = 0 // Never invalidated
	} else if err != nil {
		return "", err
	}
	return listing.Base + ":v" + strconv.FormatInt(gen, 10), nil
}

// Get unmarshals the value at key into dest and reports whether it was present
func (c *BookingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest)
}

// Set stores value at key as JSON with the cache TTL
func (c *BookingCache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Invalidate moves every listing a change to userID's bookings affects to a
// new generation. Superseded entries expire on their own.
func (c *BookingCache) Invalidate(ctx context.Context, userID uint) error {
	if c == nil {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, UserListing(userID).Gen) // User listing
		pipe.Incr(ctx, globalGenKey)            // Admin listing and occupied units
		return nil
	})
	return err
}

// Ping checks connectivity
func (c *BookingCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}
