package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeRoomChange(t *testing.T) {
	host := uint(1)
	room := &domain.Room{ID: 3, HostID: &host}

	assert.NoError(t, AuthorizeRoomChange(domain.NewActor(1), room))
	assert.ErrorIs(t, AuthorizeRoomChange(domain.NewActor(2), room), ErrForbidden)
	assert.ErrorIs(t, AuthorizeRoomChange(domain.Actor{}, room), ErrUnauthenticated, "匿名用户应先登录")
	assert.ErrorIs(t, AuthorizeRoomChange(domain.NewActor(1), &domain.Room{ID: 4}), ErrForbidden, "无 host 的房间不属于任何人")
}

func TestAuthorizeMessageDelete(t *testing.T) {
	msg := &domain.Message{ID: 1, UserID: 2}

	assert.NoError(t, AuthorizeMessageDelete(domain.NewActor(2), msg))
	assert.ErrorIs(t, AuthorizeMessageDelete(domain.NewActor(1), msg), ErrForbidden)
	assert.ErrorIs(t, AuthorizeMessageDelete(domain.Actor{}, msg), ErrUnauthenticated)
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		username string
		ok       bool
	}{
		{"Str0ng!Pass", "alice", true},
		{"short1!", "alice", false},
		{"12345678", "alice", false},
		{"alllowercase1!", "alice", false},
		{"NoDigits!!", "alice", false},
		{"NoSpecial12", "alice", false},
		{"Alice!123", "alice!123", false},
		{"Aa1!" + strings.Repeat("x", 68), "alice", true},
		{"Aa1!" + strings.Repeat("x", 69), "alice", false},
		{"Aa1!" + strings.Repeat("x", 80), "alice", false},
	}
	for _, tt := range tests {
		problems := validatePassword(tt.password, tt.username)
		if tt.ok {
			assert.Empty(t, problems, tt.password)
		} else {
			assert.NotEmpty(t, problems, tt.password)
		}
	}
}

func TestMapRepoError(t *testing.T) {
	assert.NoError(t, mapRepoError(nil, ErrRoomNotFound))
	assert.Equal(t, ErrRoomNotFound, mapRepoError(fmt.Errorf("find room: %w", repository.ErrNotFound), ErrRoomNotFound))
	assert.Equal(t, ErrInternalServer, mapRepoError(assert.AnError, ErrRoomNotFound))
}
