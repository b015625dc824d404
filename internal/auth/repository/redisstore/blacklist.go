package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blacklist:"

// RedisBlacklist stores revoked token strings as redis keys. With a zero TTL
// entries never expire, matching the SQL-backed blacklist; a positive TTL
// bounds growth for deployments that opt in.
type RedisBlacklist struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBlacklist(client *redis.Client, ttl time.Duration) *RedisBlacklist {
	return &RedisBlacklist{client: client, ttl: ttl}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, token string) error {
	// SET is idempotent; re-revoking only refreshes the timestamp value.
	value := time.Now().UTC().Format(time.RFC3339)
	if err := b.client.Set(ctx, keyPrefix+token, value, b.ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return n > 0, nil
}
