// Package kv provides the durable key-value storage contract used by the
// session and reminder subsystems: TTL-capable string and hash entries plus
// membership sets. Operations are atomic per key but not transactional
// across keys; callers must tolerate partial failure between writes to
// different keys.
package kv

import (
	"context"
	"time"
)

// Store is the storage contract. A TTL of zero means "no expiry".
type Store interface {
	// Get returns the string value at key, or ok=false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes a string value, replacing any previous value and expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// HGetAll returns every field of the hash at key. An absent or expired
	// hash yields an empty (non-nil) map.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HSet upserts the given fields into the hash at key and refreshes its
	// expiry. Fields not mentioned are left untouched.
	HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error

	// SAdd adds member to the set at key. Adding an existing member is a
	// no-op.
	SAdd(ctx context.Context, key, member string) error

	// SRem removes member from the set at key. Removing an absent member
	// is a no-op.
	SRem(ctx context.Context, key, member string) error

	// SMembers returns all members of the set at key, sorted. An absent
	// set yields an empty slice.
	SMembers(ctx context.Context, key string) ([]string, error)

	// Close releases any underlying resources.
	Close() error
}
