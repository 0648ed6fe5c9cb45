// Package cache stores JSON-encoded values in Redis. When Redis is not
// available (local dev, tests) it falls back to an in-process map with the
// same TTL semantics, so sessions keep working without a running Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/supermart/config"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies the connection with a
// ping. On error the memory fallback stays active and the caller may log a
// warning and continue.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // fall back to the in-process store
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return mem.get(key, dest)
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}

	return true
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if RDB == nil {
		mem.set(key, data, ttl)
		return nil
	}

	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		mem.del(keys...)
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Forget is an alias for Del.
func Forget(key string) error {
	return Del(key)
}

// ─── In-process fallback ──────────────────────────────────────────────────────

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

type memStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

var mem = &memStore{entries: map[string]memEntry{}}

func (m *memStore) get(key string, dest interface{}) bool {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	return json.Unmarshal(entry.data, dest) == nil
}

func (m *memStore) set(key string, data []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = memEntry{data: data, expiresAt: exp}
	m.mu.Unlock()
}

func (m *memStore) del(keys ...string) {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
}

// Flush clears the in-process store. Intended for tests.
func Flush() {
	mem.mu.Lock()
	mem.entries = map[string]memEntry{}
	mem.mu.Unlock()
}
