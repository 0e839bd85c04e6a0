package repository

import (
	"context"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
)

// RoomRepository 定义了房间数据的存储和检索操作。
// 所有列表方法都按 最近更新 -> 最近创建 排序。
type RoomRepository interface {
	// FindByID 根据房间 ID 查找房间, 预加载 Host/Topic/Participants。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// Create 保存新房间, 不写入任何关联。
	Create(ctx context.Context, room *domain.Room) error

	// Update 保存房间的 name/description/topic, 并刷新 UpdatedAt。
	Update(ctx context.Context, room *domain.Room) error

	// Delete 删除房间以及其全部消息和参与记录。
	Delete(ctx context.Context, id uint) error

	// Search 返回话题名、房间名或描述中包含 q (不区分大小写) 的房间。
	// q 为空时返回全部房间。
	Search(ctx context.Context, q string) ([]domain.Room, error)

	// FindAll 返回全部房间 (含参与者)。
	FindAll(ctx context.Context) ([]domain.Room, error)

	// FindByHost 返回某用户主持的全部房间。
	FindByHost(ctx context.Context, userID uint) ([]domain.Room, error)
}

// TopicRepository 定义了话题的存储操作。
type TopicRepository interface {
	// GetOrCreate 按名称查找话题, 不存在时原子地创建。
	GetOrCreate(ctx context.Context, name string) (*domain.Topic, error)

	// Search 返回名称包含 q (不区分大小写) 的话题, q 为空时返回全部。
	Search(ctx context.Context, q string) ([]domain.Topic, error)

	// List 按 ID 顺序返回最多 limit 个话题, limit <= 0 表示不限制。
	List(ctx context.Context, limit int) ([]domain.Topic, error)

	// Delete 删除话题, 引用它的房间 topic 置空。
	Delete(ctx context.Context, id uint) error
}

// MessageRepository 定义了消息的存储操作。
type MessageRepository interface {
	// FindByID 根据 ID 查找消息, 预加载 User。
	FindByID(ctx context.Context, id uint) (*domain.Message, error)

	// CreateAndJoin 在同一事务中保存消息并把作者加入房间参与者 (已存在则忽略)。
	CreateAndJoin(ctx context.Context, msg *domain.Message) error

	// Delete 删除单条消息。
	Delete(ctx context.Context, id uint) error

	// FindByRoom 返回某个房间的全部消息。
	FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error)

	// FindByUser 返回某个用户发布的全部消息。
	FindByUser(ctx context.Context, userID uint) ([]domain.Message, error)

	// SearchByTopic 返回所在房间的话题名包含 q 的消息, q 为空时返回全部。
	SearchByTopic(ctx context.Context, q string) ([]domain.Message, error)
}
