package service

import (
	"context"
	"strings"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"

	"github.com/sirupsen/logrus"
)

// topicPreviewLimit 是侧边栏话题预览的数量上限
const topicPreviewLimit = 5

// FeedService 负责首页搜索、话题搜索和动态列表。
type FeedService struct {
	roomRepo    repository.RoomRepository
	topicRepo   repository.TopicRepository
	messageRepo repository.MessageRepository
}

// NewFeedService 创建 FeedService 实例。
func NewFeedService(roomRepo repository.RoomRepository, topicRepo repository.TopicRepository, messageRepo repository.MessageRepository) *FeedService {
	if roomRepo == nil || topicRepo == nil || messageRepo == nil {
		panic("repositories cannot be nil for FeedService")
	}
	return &FeedService{roomRepo: roomRepo, topicRepo: topicRepo, messageRepo: messageRepo}
}

// HomeView 是首页数据
type HomeView struct {
	Query     string
	Rooms     []domain.Room
	RoomCount int
	Topics    []domain.Topic   // 最多 5 个, 不受 q 过滤
	Messages  []domain.Message // 按话题名过滤的动态
}

// NormalizeQuery 规范化搜索词。空白等同于空, 即 "全部话题"。
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}

// Home 按搜索词过滤房间和动态。
func (s *FeedService) Home(ctx context.Context, q string) (*HomeView, error) {
	q = NormalizeQuery(q)
	logCtx := logrus.WithField("q", q)

	rooms, err := s.roomRepo.Search(ctx, q)
	if err != nil {
		logCtx.WithError(err).Error("Home: failed to search rooms")
		return nil, ErrInternalServer
	}
	topics, err := s.topicRepo.List(ctx, topicPreviewLimit)
	if err != nil {
		logCtx.WithError(err).Error("Home: failed to list topics")
		return nil, ErrInternalServer
	}
	messages, err := s.messageRepo.SearchByTopic(ctx, q)
	if err != nil {
		logCtx.WithError(err).Error("Home: failed to search messages")
		return nil, ErrInternalServer
	}

	return &HomeView{
		Query:     q,
		Rooms:     rooms,
		RoomCount: len(rooms),
		Topics:    topics,
		Messages:  messages,
	}, nil
}

// Topics 返回名称包含 q 的话题
func (s *FeedService) Topics(ctx context.Context, q string) ([]domain.Topic, error) {
	q = NormalizeQuery(q)
	topics, err := s.topicRepo.Search(ctx, q)
	if err != nil {
		logrus.WithError(err).WithField("q", q).Error("Topics: failed to search topics")
		return nil, ErrInternalServer
	}
	return topics, nil
}

// Activity 返回全部消息动态
func (s *FeedService) Activity(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.messageRepo.SearchByTopic(ctx, "")
	if err != nil {
		logrus.WithError(err).Error("Activity: failed to list messages")
		return nil, ErrInternalServer
	}
	return messages, nil
}

// ListRooms 返回全部房间, 供只读 API 使用
func (s *FeedService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListRooms: failed to list rooms")
		return nil, ErrInternalServer
	}
	return rooms, nil
}
