package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	maxRoomNameLength  = 200
	maxTopicNameLength = 191
)

// RoomService 负责房间的创建、查看、修改和删除。
type RoomService struct {
	roomRepo    repository.RoomRepository
	topicRepo   repository.TopicRepository
	messageRepo repository.MessageRepository
}

// NewRoomService 创建 RoomService 实例。
func NewRoomService(roomRepo repository.RoomRepository, topicRepo repository.TopicRepository, messageRepo repository.MessageRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	if topicRepo == nil {
		panic("TopicRepository cannot be nil for RoomService")
	}
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo, topicRepo: topicRepo, messageRepo: messageRepo}
}

// RoomDetail 是房间详情页的数据: 房间、消息 (最新在前) 和参与者。
type RoomDetail struct {
	Room         *domain.Room
	Messages     []domain.Message
	Participants []domain.User
}

// CreateRoom 以 actor 为 host 创建房间。话题按名称 get-or-create。
// host 不会自动成为参与者, 直到其在房间里发言。
func (s *RoomService) CreateRoom(ctx context.Context, actor domain.Actor, input domain.RoomInput) (*domain.Room, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	input = normalizeRoomInput(input)
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "topic": input.TopicName})

	if err := validateRoomInput(input); err != nil {
		logCtx.WithError(err).Warn("CreateRoom: invalid input")
		return nil, err
	}

	topic, err := s.topicRepo.GetOrCreate(ctx, input.TopicName)
	if err != nil {
		logCtx.WithError(err).Error("CreateRoom: failed to resolve topic")
		return nil, ErrInternalServer
	}

	hostID := actor.UserID
	room := &domain.Room{
		HostID:      &hostID,
		TopicID:     &topic.ID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		logCtx.WithError(err).Error("CreateRoom: failed to save room")
		return nil, ErrInternalServer
	}
	room.Topic = topic

	logCtx.WithField("room_id", room.ID).Info("Room created successfully")
	return room, nil
}

// FindRoomByID 根据 ID 查找房间
func (s *RoomService) FindRoomByID(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		mapped := mapRepoError(err, ErrRoomNotFound)
		if mapped == ErrInternalServer {
			logrus.WithError(err).WithField("room_id", roomID).Error("FindRoomByID: repository error")
		}
		return nil, mapped
	}
	return room, nil
}

// GetRoom 返回房间详情
func (s *RoomService) GetRoom(ctx context.Context, roomID uint) (*RoomDetail, error) {
	room, err := s.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.FindByRoom(ctx, roomID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("GetRoom: failed to load messages")
		return nil, ErrInternalServer
	}
	return &RoomDetail{Room: room, Messages: messages, Participants: room.Participants}, nil
}

// UpdateRoom 修改房间的名称、描述和话题, 只有 host 可以操作。
func (s *RoomService) UpdateRoom(ctx context.Context, actor domain.Actor, roomID uint, input domain.RoomInput) (*domain.Room, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "room_id": roomID})

	room, err := s.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeRoomChange(actor, room); err != nil {
		logCtx.Warn("UpdateRoom: actor is not the host")
		return nil, err
	}

	input = normalizeRoomInput(input)
	if err := validateRoomInput(input); err != nil {
		logCtx.WithError(err).Warn("UpdateRoom: invalid input")
		return nil, err
	}

	topic, err := s.topicRepo.GetOrCreate(ctx, input.TopicName)
	if err != nil {
		logCtx.WithError(err).Error("UpdateRoom: failed to resolve topic")
		return nil, ErrInternalServer
	}

	room.Name = input.Name
	room.Description = input.Description
	room.TopicID = &topic.ID
	room.Topic = topic
	if err := s.roomRepo.Update(ctx, room); err != nil {
		logCtx.WithError(err).Error("UpdateRoom: failed to save room")
		return nil, mapRepoError(err, ErrRoomNotFound)
	}

	logCtx.Info("Room updated successfully")
	return room, nil
}

// DeleteRoom 删除房间 (连同消息), 只有 host 可以操作。
func (s *RoomService) DeleteRoom(ctx context.Context, actor domain.Actor, roomID uint) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "room_id": roomID})

	room, err := s.FindRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := AuthorizeRoomChange(actor, room); err != nil {
		logCtx.Warn("DeleteRoom: actor is not the host")
		return err
	}

	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		logCtx.WithError(err).Error("DeleteRoom: failed to delete room")
		return mapRepoError(err, ErrRoomNotFound)
	}
	logCtx.Info("Room deleted successfully")
	return nil
}

// --- 私有辅助函数 ---

func normalizeRoomInput(input domain.RoomInput) domain.RoomInput {
	return domain.RoomInput{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		TopicName:   strings.TrimSpace(input.TopicName),
	}
}

func validateRoomInput(input domain.RoomInput) error {
	var problems []string
	if input.Name == "" {
		problems = append(problems, "room name is required")
	} else if utf8.RuneCountInString(input.Name) > maxRoomNameLength {
		problems = append(problems, "room name must be at most 200 characters")
	}
	if input.TopicName == "" {
		problems = append(problems, "topic is required")
	} else if utf8.RuneCountInString(input.TopicName) > maxTopicNameLength {
		problems = append(problems, "topic must be at most 191 characters")
	}
	return newValidationError(problems)
}
