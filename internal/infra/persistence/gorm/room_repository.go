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

// roomOrder 是房间列表的默认排序, id 作为最后的稳定排序键
const roomOrder = "rooms.updated_at DESC, rooms.created_at DESC, rooms.id DESC"

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// withRelations 预加载房间的 host/topic/participants
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Host").Preload("Topic").Preload("Participants")
}

// FindByID 实现根据房间 ID 查找房间
func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := withRelations(r.db.WithContext(ctx)).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

// Create 插入新房间。关联字段由调用方通过 HostID/TopicID 指定, 这里不做 upsert。
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error
	if err != nil {
		return fmt.Errorf("gorm: create room (name: %s): %w", room.Name, err)
	}
	return nil
}

// Update 更新房间可编辑字段, updated_at 由 GORM 自动刷新
func (r *GormRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	result := r.db.WithContext(ctx).Model(room).Omit(clause.Associations).
		Select("Name", "Description", "TopicID").
		Updates(room)
	if result.Error != nil {
		return fmt.Errorf("gorm: update room %d: %w", room.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrRoomNotFound
	}
	return nil
}

// Delete 在一个事务中删除房间及其消息和参与记录
func (r *GormRoomRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("gorm: delete messages of room %d: %w", id, err)
		}
		if err := tx.Where("room_id = ?", id).Delete(&domain.RoomParticipant{}).Error; err != nil {
			return fmt.Errorf("gorm: delete participants of room %d: %w", id, err)
		}
		result := tx.Delete(&domain.Room{}, id)
		if result.Error != nil {
			return fmt.Errorf("gorm: delete room %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrRoomNotFound
		}
		return nil
	})
}

// Search 实现房间搜索: 话题名 / 房间名 / 描述 任一包含 q 即匹配。
// q 为空表示 "全部话题", 不添加任何过滤条件。
func (r *GormRoomRepository) Search(ctx context.Context, q string) ([]domain.Room, error) {
	query := withRelations(r.db.WithContext(ctx).Model(&domain.Room{}))
	if q != "" {
		pattern := containsPattern(q)
		query = query.
			Joins("LEFT JOIN topics ON topics.id = rooms.topic_id").
			Where(icontains("topics.name")+" OR "+icontains("rooms.name")+" OR "+icontains("rooms.description"),
				pattern, pattern, pattern)
	}

	var rooms []domain.Room
	if err := query.Order(roomOrder).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("gorm: search rooms (q: '%s'): %w", q, err)
	}
	return rooms, nil
}

// FindAll 返回全部房间
func (r *GormRoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	return r.Search(ctx, "")
}

// FindByHost 返回某用户主持的房间
func (r *GormRoomRepository) FindByHost(ctx context.Context, userID uint) ([]domain.Room, error) {
	var rooms []domain.Room
	err := withRelations(r.db.WithContext(ctx)).
		Where("rooms.host_id = ?", userID).
		Order(roomOrder).
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find rooms by host %d: %w", userID, err)
	}
	return rooms, nil
}
