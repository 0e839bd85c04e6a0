package domain

import (
	"sort"
	"time"
)

// Topic 是对房间进行分组的标签, 按名称惰性创建 (get-or-create)。
// name 上的唯一索引保证并发 get-or-create 不会产生重复行。
type Topic struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(191);uniqueIndex:idx_topic_name;not null" json:"name"`
}

// Room 表示一个讨论房间。
type Room struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	HostID      *uint  `gorm:"index" json:"host"`  // 创建者, 用户被删除后置为 NULL
	TopicID     *uint  `gorm:"index" json:"topic"` // 所属话题, 话题被删除后置为 NULL
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// CreatedAt 只在创建时写入; UpdatedAt 每次保存都会刷新。
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index" json:"updated"`

	Host         *User  `gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL" json:"-"`
	Topic        *Topic `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"-"`
	Participants []User `gorm:"many2many:room_participants;constraint:OnDelete:CASCADE" json:"-"`
}

// IsHostedBy 判断 userID 是否为房间创建者。host 为空的房间不属于任何人。
func (r *Room) IsHostedBy(userID uint) bool {
	return r.HostID != nil && *r.HostID == userID
}

// ParticipantIDs 按 ID 升序返回参与者 ID 列表。
func (r *Room) ParticipantIDs() []uint {
	ids := make([]uint, 0, len(r.Participants))
	for _, p := range r.Participants {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Message 是房间内的一条发言。用户或房间被删除时级联删除。
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	RoomID    uint      `gorm:"index;not null" json:"room"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index" json:"updated"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Room *Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

// RoomParticipant 是 rooms 与 users 多对多关系的连接表记录。
type RoomParticipant struct {
	RoomID    uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"` // 首次发言 (加入) 时间
}

// TableName 与 Room.Participants 的 many2many 表名保持一致。
func (RoomParticipant) TableName() string {
	return "room_participants"
}
