// Package domain 定义了论坛的核心实体 (数据库模型) 和各操作的输入结构。
package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultAvatar 是未上传头像时使用的头像引用。
const DefaultAvatar = "avatar.svg"

// User 表示论坛用户。登录标识是 Email 而不是 Username。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200)" json:"name"`                                    // 显示名称
	Username  string    `gorm:"type:varchar(50);uniqueIndex:idx_username;not null" json:"username"` // 始终以小写存储
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`     // 登录标识, 小写存储
	Password  string    `gorm:"type:text;not null" json:"-"`                                      // bcrypt 哈希
	Bio       string    `gorm:"type:text" json:"bio"`
	Avatar    string    `gorm:"type:varchar(255);default:avatar.svg" json:"avatar"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeSave 在每次写入前规范化用户名和邮箱。
// 放在模型钩子里, 保证任何写入路径都不会存入大写用户名。
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = NormalizeUsername(u.Username)
	u.Email = NormalizeEmail(u.Email)
	if u.Avatar == "" {
		u.Avatar = DefaultAvatar
	}
	return nil
}

// NormalizeUsername 去除首尾空白并转为小写。
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail 去除首尾空白并转为小写。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
