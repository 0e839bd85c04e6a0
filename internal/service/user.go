package service

import (
	"context"
	"errors"
	"strings"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"

	"github.com/sirupsen/logrus"
)

// UserService 负责用户主页和资料修改。
type UserService struct {
	userRepo    repository.UserRepository
	roomRepo    repository.RoomRepository
	topicRepo   repository.TopicRepository
	messageRepo repository.MessageRepository
}

// NewUserService 创建 UserService 实例。
func NewUserService(userRepo repository.UserRepository, roomRepo repository.RoomRepository, topicRepo repository.TopicRepository, messageRepo repository.MessageRepository) *UserService {
	if userRepo == nil || roomRepo == nil || topicRepo == nil || messageRepo == nil {
		panic("repositories cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo, roomRepo: roomRepo, topicRepo: topicRepo, messageRepo: messageRepo}
}

// ProfileView 是用户主页数据
type ProfileView struct {
	User     *domain.User
	Rooms    []domain.Room    // 该用户主持的房间
	Messages []domain.Message // 该用户的发言
	Topics   []domain.Topic
}

// Profile 返回用户主页
func (s *UserService) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		mapped := mapRepoError(err, ErrUserNotFound)
		if mapped == ErrInternalServer {
			logCtx.WithError(err).Error("Profile: failed to load user")
		}
		return nil, mapped
	}
	rooms, err := s.roomRepo.FindByHost(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Profile: failed to load rooms")
		return nil, ErrInternalServer
	}
	messages, err := s.messageRepo.FindByUser(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("Profile: failed to load messages")
		return nil, ErrInternalServer
	}
	topics, err := s.topicRepo.List(ctx, 0)
	if err != nil {
		logCtx.WithError(err).Error("Profile: failed to load topics")
		return nil, ErrInternalServer
	}
	return &ProfileView{User: user, Rooms: rooms, Messages: messages, Topics: topics}, nil
}

// UpdateProfile 修改 actor 自己的资料。用户名或邮箱与他人冲突时返回 ErrProfileConflict。
// Avatar 为空时保留原值。
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, input domain.ProfileInput) (*domain.User, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	logCtx := logrus.WithField("user_id", actor.UserID)

	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		mapped := mapRepoError(err, ErrUserNotFound)
		if mapped == ErrInternalServer {
			logCtx.WithError(err).Error("UpdateProfile: failed to load user")
		}
		return nil, mapped
	}

	username := domain.NormalizeUsername(input.Username)
	email := domain.NormalizeEmail(input.Email)
	var problems []string
	if username == "" {
		problems = append(problems, "username is required")
	} else if len(username) > maxUsernameLength {
		problems = append(problems, "username must be at most 50 characters")
	}
	if email == "" {
		problems = append(problems, "email is required")
	} else if err := validate.Var(email, "email"); err != nil {
		problems = append(problems, "enter a valid email address")
	}
	if err := newValidationError(problems); err != nil {
		logCtx.WithError(err).Warn("UpdateProfile: invalid input")
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Username = username
	user.Email = email
	user.Bio = strings.TrimSpace(input.Bio)
	if avatar := strings.TrimSpace(input.Avatar); avatar != "" {
		user.Avatar = avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("UpdateProfile: username or email already taken")
			return nil, ErrProfileConflict
		}
		logCtx.WithError(err).Error("UpdateProfile: failed to save user")
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	logCtx.Info("Profile updated")
	user.Password = ""
	return user, nil
}
