package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"
)

// GormTopicRepository 是 TopicRepository 接口的 GORM 实现
type GormTopicRepository struct {
	db *gorm.DB
}

// NewGormTopicRepository 创建 GormTopicRepository 实例
func NewGormTopicRepository(db *gorm.DB) *GormTopicRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTopicRepository")
	}
	return &GormTopicRepository{db: db}
}

// GetOrCreate 先以 "冲突则忽略" 的方式插入, 再按名称读取。
// 唯一索引保证并发请求最终拿到同一行。
func (r *GormTopicRepository) GetOrCreate(ctx context.Context, name string) (*domain.Topic, error) {
	db := r.db.WithContext(ctx)
	candidate := domain.Topic{Name: name}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return nil, fmt.Errorf("gorm: insert topic '%s': %w", name, err)
	}

	var topic domain.Topic
	if err := db.Where("name = ?", name).First(&topic).Error; err != nil {
		return nil, fmt.Errorf("gorm: load topic '%s': %w", name, err)
	}
	return &topic, nil
}

// Search 返回名称包含 q 的话题
func (r *GormTopicRepository) Search(ctx context.Context, q string) ([]domain.Topic, error) {
	query := r.db.WithContext(ctx).Model(&domain.Topic{})
	if q != "" {
		query = query.Where(icontains("name"), containsPattern(q))
	}
	var topics []domain.Topic
	if err := query.Order("id").Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("gorm: search topics (q: '%s'): %w", q, err)
	}
	return topics, nil
}

// List 按 ID 顺序列出话题
func (r *GormTopicRepository) List(ctx context.Context, limit int) ([]domain.Topic, error) {
	query := r.db.WithContext(ctx).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var topics []domain.Topic
	if err := query.Find(&topics).Error; err != nil {
		return nil, fmt.Errorf("gorm: list topics (limit %d): %w", limit, err)
	}
	return topics, nil
}

// Delete 删除话题, 引用它的房间 topic_id 置 NULL
func (r *GormTopicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Room{}).Where("topic_id = ?", id).UpdateColumn("topic_id", nil).Error; err != nil {
			return fmt.Errorf("gorm: clear topic %d of rooms: %w", id, err)
		}
		result := tx.Delete(&domain.Topic{}, id)
		if result.Error != nil {
			return fmt.Errorf("gorm: delete topic %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrTopicNotFound
		}
		return nil
	})
}
