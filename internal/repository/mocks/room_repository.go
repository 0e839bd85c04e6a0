package mocks

import (
	"context"

	"github.com/KoustavHazra/studybudyapp/internal/domain"

	"github.com/stretchr/testify/mock"
)

// RoomRepository 是 repository.RoomRepository 的 mock 实现
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*domain.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *RoomRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RoomRepository) Search(ctx context.Context, q string) ([]domain.Room, error) {
	args := m.Called(ctx, q)
	rooms, _ := args.Get(0).([]domain.Room)
	return rooms, args.Error(1)
}

func (m *RoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]domain.Room)
	return rooms, args.Error(1)
}

func (m *RoomRepository) FindByHost(ctx context.Context, userID uint) ([]domain.Room, error) {
	args := m.Called(ctx, userID)
	rooms, _ := args.Get(0).([]domain.Room)
	return rooms, args.Error(1)
}

// TopicRepository 是 repository.TopicRepository 的 mock 实现
type TopicRepository struct {
	mock.Mock
}

func (m *TopicRepository) GetOrCreate(ctx context.Context, name string) (*domain.Topic, error) {
	args := m.Called(ctx, name)
	topic, _ := args.Get(0).(*domain.Topic)
	return topic, args.Error(1)
}

func (m *TopicRepository) Search(ctx context.Context, q string) ([]domain.Topic, error) {
	args := m.Called(ctx, q)
	topics, _ := args.Get(0).([]domain.Topic)
	return topics, args.Error(1)
}

func (m *TopicRepository) List(ctx context.Context, limit int) ([]domain.Topic, error) {
	args := m.Called(ctx, limit)
	topics, _ := args.Get(0).([]domain.Topic)
	return topics, args.Error(1)
}

func (m *TopicRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MessageRepository 是 repository.MessageRepository 的 mock 实现
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

func (m *MessageRepository) CreateAndJoin(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MessageRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MessageRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error) {
	args := m.Called(ctx, roomID)
	msgs, _ := args.Get(0).([]domain.Message)
	return msgs, args.Error(1)
}

func (m *MessageRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	msgs, _ := args.Get(0).([]domain.Message)
	return msgs, args.Error(1)
}

func (m *MessageRepository) SearchByTopic(ctx context.Context, q string) ([]domain.Message, error) {
	args := m.Called(ctx, q)
	msgs, _ := args.Get(0).([]domain.Message)
	return msgs, args.Error(1)
}
