package http

import (
	"time"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
)

// RoomJSON 是房间在 JSON 接口中的表示, 参与者只输出 ID
type RoomJSON struct {
	ID           uint      `json:"id"`
	Host         *uint     `json:"host"`
	Topic        *uint     `json:"topic"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Participants []uint    `json:"participants"`
	Updated      time.Time `json:"updated"`
	Created      time.Time `json:"created"`
}

func newRoomJSON(room *domain.Room) RoomJSON {
	return RoomJSON{
		ID:           room.ID,
		Host:         room.HostID,
		Topic:        room.TopicID,
		Name:         room.Name,
		Description:  room.Description,
		Participants: room.ParticipantIDs(),
		Updated:      room.UpdatedAt,
		Created:      room.CreatedAt,
	}
}

func newRoomJSONList(rooms []domain.Room) []RoomJSON {
	out := make([]RoomJSON, 0, len(rooms))
	for i := range rooms {
		out = append(out, newRoomJSON(&rooms[i]))
	}
	return out
}

// UserSummary 是页面中展示的用户简要信息
type UserSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func newUserSummary(user *domain.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{ID: user.ID, Name: user.Name, Username: user.Username, Avatar: user.Avatar}
}

// UserProfileJSON 是用户主页的完整资料, 不包含密码
type UserProfileJSON struct {
	UserSummary
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

func newUserProfileJSON(user *domain.User) UserProfileJSON {
	return UserProfileJSON{UserSummary: *newUserSummary(user), Email: user.Email, Bio: user.Bio}
}

// RoomCard 是房间列表中的一项
type RoomCard struct {
	ID               uint         `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Topic            string       `json:"topic,omitempty"`
	Host             *UserSummary `json:"host"`
	ParticipantCount int          `json:"participant_count"`
	Created          time.Time    `json:"created"`
	Updated          time.Time    `json:"updated"`
}

func newRoomCard(room *domain.Room) RoomCard {
	card := RoomCard{
		ID:               room.ID,
		Name:             room.Name,
		Description:      room.Description,
		Host:             newUserSummary(room.Host),
		ParticipantCount: len(room.Participants),
		Created:          room.CreatedAt,
		Updated:          room.UpdatedAt,
	}
	if room.Topic != nil {
		card.Topic = room.Topic.Name
	}
	return card
}

func newRoomCards(rooms []domain.Room) []RoomCard {
	out := make([]RoomCard, 0, len(rooms))
	for i := range rooms {
		out = append(out, newRoomCard(&rooms[i]))
	}
	return out
}

// MessageJSON 是消息在页面中的表示
type MessageJSON struct {
	ID       uint         `json:"id"`
	Body     string       `json:"body"`
	User     *UserSummary `json:"user"`
	RoomID   uint         `json:"room_id"`
	RoomName string       `json:"room_name,omitempty"`
	Created  time.Time    `json:"created"`
}

func newMessageJSON(msg *domain.Message) MessageJSON {
	out := MessageJSON{
		ID:      msg.ID,
		Body:    msg.Body,
		User:    newUserSummary(msg.User),
		RoomID:  msg.RoomID,
		Created: msg.CreatedAt,
	}
	if msg.Room != nil {
		out.RoomName = msg.Room.Name
	}
	return out
}

func newMessageJSONList(msgs []domain.Message) []MessageJSON {
	out := make([]MessageJSON, 0, len(msgs))
	for i := range msgs {
		out = append(out, newMessageJSON(&msgs[i]))
	}
	return out
}

// TopicJSON 是话题的表示
type TopicJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTopicJSONList(topics []domain.Topic) []TopicJSON {
	out := make([]TopicJSON, 0, len(topics))
	for _, t := range topics {
		out = append(out, TopicJSON{ID: t.ID, Name: t.Name})
	}
	return out
}
