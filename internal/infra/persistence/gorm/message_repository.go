package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"
)

const messageOrder = "messages.updated_at DESC, messages.created_at DESC, messages.id DESC"

// GormMessageRepository 是 MessageRepository 接口的 GORM 实现
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GormMessageRepository 实例
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMessageRepository")
	}
	return &GormMessageRepository{db: db}
}

// FindByID 根据 ID 查找消息
func (r *GormMessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMessageNotFound
		}
		return nil, fmt.Errorf("gorm: find message by id %d: %w", id, err)
	}
	return &msg, nil
}

// CreateAndJoin 保存消息, 并在同一事务里把作者加入房间参与者。
// 参与记录以 (room_id, user_id) 为主键, 重复加入会被忽略。
func (r *GormMessageRepository) CreateAndJoin(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(msg).Error; err != nil {
			return fmt.Errorf("gorm: create message in room %d: %w", msg.RoomID, err)
		}
		participant := domain.RoomParticipant{RoomID: msg.RoomID, UserID: msg.UserID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error; err != nil {
			return fmt.Errorf("gorm: add participant %d to room %d: %w", msg.UserID, msg.RoomID, err)
		}
		return nil
	})
}

// Delete 删除单条消息
func (r *GormMessageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Message{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete message %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrMessageNotFound
	}
	return nil
}

// FindByRoom 返回房间内的全部消息
func (r *GormMessageRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).Preload("User").
		Where("messages.room_id = ?", roomID).
		Order(messageOrder).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages of room %d: %w", roomID, err)
	}
	return msgs, nil
}

// FindByUser 返回用户发布的全部消息
func (r *GormMessageRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).Preload("User").Preload("Room").
		Where("messages.user_id = ?", userID).
		Order(messageOrder).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages of user %d: %w", userID, err)
	}
	return msgs, nil
}

// SearchByTopic 返回所在房间话题名包含 q 的消息, q 为空时返回全部消息
func (r *GormMessageRepository) SearchByTopic(ctx context.Context, q string) ([]domain.Message, error) {
	query := r.db.WithContext(ctx).Model(&domain.Message{}).Preload("User").Preload("Room")
	if q != "" {
		query = query.
			Joins("JOIN rooms ON rooms.id = messages.room_id").
			Joins("JOIN topics ON topics.id = rooms.topic_id").
			Where(icontains("topics.name"), containsPattern(q))
	}
	var msgs []domain.Message
	if err := query.Order(messageOrder).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("gorm: search messages by topic (q: '%s'): %w", q, err)
	}
	return msgs, nil
}
