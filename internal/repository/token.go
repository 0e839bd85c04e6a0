package repository

import (
	"context"
	"time"
)

// TokenRepository 记录已注销的 JWT, 通常由 Redis 实现。
type TokenRepository interface {
	// Revoke 将 tokenID 标记为已注销, ttl 之后自动过期。
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked 检查 tokenID 是否已被注销。
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
