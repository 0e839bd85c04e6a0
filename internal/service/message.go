package service

import (
	"context"
	"strings"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"

	"github.com/sirupsen/logrus"
)

// MessageService 负责在房间内发言和删除发言。
type MessageService struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
}

// NewMessageService 创建 MessageService 实例。
func NewMessageService(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository) *MessageService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for MessageService")
	}
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for MessageService")
	}
	return &MessageService{roomRepo: roomRepo, messageRepo: messageRepo}
}

// PostMessage 在房间内发言, 发言者自动成为房间参与者 (重复发言不会重复加入)。
func (s *MessageService) PostMessage(ctx context.Context, actor domain.Actor, roomID uint, body string) (*domain.Message, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "room_id": roomID})

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, newValidationError([]string{"message body is required"})
	}

	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		mapped := mapRepoError(err, ErrRoomNotFound)
		if mapped == ErrInternalServer {
			logCtx.WithError(err).Error("PostMessage: failed to load room")
		}
		return nil, mapped
	}

	msg := &domain.Message{UserID: actor.UserID, RoomID: roomID, Body: body}
	if err := s.messageRepo.CreateAndJoin(ctx, msg); err != nil {
		logCtx.WithError(err).Error("PostMessage: failed to save message")
		return nil, ErrInternalServer
	}

	logCtx.WithField("message_id", msg.ID).Info("Message posted")
	return msg, nil
}

// DeleteMessage 删除消息, 只有作者本人可以操作。返回消息所在的房间 ID。
func (s *MessageService) DeleteMessage(ctx context.Context, actor domain.Actor, messageID uint) (uint, error) {
	if err := requireAuthenticated(actor); err != nil {
		return 0, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": actor.UserID, "message_id": messageID})

	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		mapped := mapRepoError(err, ErrMessageNotFound)
		if mapped == ErrInternalServer {
			logCtx.WithError(err).Error("DeleteMessage: failed to load message")
		}
		return 0, mapped
	}
	if err := AuthorizeMessageDelete(actor, msg); err != nil {
		logCtx.Warn("DeleteMessage: actor is not the author")
		return 0, err
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		logCtx.WithError(err).Error("DeleteMessage: failed to delete message")
		return 0, mapRepoError(err, ErrMessageNotFound)
	}
	logCtx.Info("Message deleted")
	return msg.RoomID, nil
}
