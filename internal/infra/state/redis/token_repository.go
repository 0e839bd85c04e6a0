package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTokenRepository 是 TokenRepository 接口的 Redis 实现。
// 每个已注销的 token 对应一个带 TTL 的 key, 过期后自动清理。
type RedisTokenRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenRepository 创建 RedisTokenRepository 实例
func NewRedisTokenRepository(client *redis.Client, keyPrefix string) *RedisTokenRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisTokenRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "sb:" // 默认前缀 (studybud)
	}
	return &RedisTokenRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisTokenRepository) revokedKey(tokenID string) string {
	return fmt.Sprintf("%sauth:revoked:%s", r.keyPrefix, tokenID)
}

// Revoke 记录已注销的 token。ttl <= 0 时说明 token 已过期, 无需记录。
func (r *RedisTokenRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := r.revokedKey(tokenID)
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to revoke token on key %s: %w", key, err)
	}
	return nil
}

// IsRevoked 检查 token 是否已注销
func (r *RedisTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := r.revokedKey(tokenID)
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to check revoked token on key %s: %w", key, err)
	}
	return n > 0, nil
}
