package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// TokenRepository 是 repository.TokenRepository 的 mock 实现
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
