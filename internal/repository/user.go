package repository

import (
	"context"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByID 根据用户 ID 查找用户, 不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByEmail 根据邮箱查找用户。调用方负责先做小写规范化。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create 创建新用户。用户名或邮箱重复时返回 ErrDuplicateEntry。
	Create(ctx context.Context, user *domain.User) error

	// Update 更新已有用户的资料字段。
	// 用户名或邮箱与他人冲突时返回 ErrDuplicateEntry, 用户不存在时返回 ErrUserNotFound。
	Update(ctx context.Context, user *domain.User) error

	// Delete 删除用户: 其主持的房间 host 置空, 其消息和参与记录一并删除。
	Delete(ctx context.Context, id uint) error
}
