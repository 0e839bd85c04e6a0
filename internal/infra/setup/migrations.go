package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
)

// MigrateDB 建立表结构、唯一索引和外键约束。
// 返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	// 参与者连接表使用自定义模型, 需要在 AutoMigrate 之前注册
	if err := db.SetupJoinTable(&domain.Room{}, "Participants", &domain.RoomParticipant{}); err != nil {
		return fmt.Errorf("failed to set up room_participants join table: %w", err)
	}

	// 顺序很重要: 被引用的表先建
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Topic{},
		&domain.Room{},
		&domain.Message{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
