package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// blacklistKeyPrefix namespaces revoked-jti keys in Redis so the
// blacklist can share a database with other application state.
const blacklistKeyPrefix = "revoked"

// RedisBlacklist stores revoked refresh-token identifiers in Redis.
// Each entry is written with a TTL equal to the remaining lifetime of
// its token, so the set never outgrows the number of live tokens.
// Redis handles concurrent insert/lookup from parallel requests.
type RedisBlacklist struct {
	Client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{Client: client}
}

func (b *RedisBlacklist) key(jti string) string { return blacklistKeyPrefix + ":" + jti }

// Insert marks a jti as revoked. Overwriting an existing entry is a
// no-op in effect, which makes revocation idempotent.
func (b *RedisBlacklist) Insert(ctx context.Context, jti string, ttl time.Duration) error {
	return b.Client.Set(ctx, b.key(jti), 1, ttl).Err()
}

// Contains reports whether a jti has been revoked.
func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.Client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryBlacklist is a process-local blacklist used in tests and when
// no Redis server is reachable at startup. Expired entries are pruned
// lazily on each insert.
type MemoryBlacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> entry expiry
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{revoked: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Insert(_ context.Context, jti string, ttl time.Duration) error {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, exp := range b.revoked {
		if now.After(exp) {
			delete(b.revoked, id)
		}
	}
	b.revoked[jti] = now.Add(ttl)
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	exp, ok := b.revoked[jti]
	return ok && time.Now().Before(exp), nil
}
