package service

import (
	"github.com/KoustavHazra/studybudyapp/internal/domain"
)

// requireAuthenticated 拒绝匿名访问者, 匿名请求不会进入所有权检查。
func requireAuthenticated(actor domain.Actor) error {
	if actor.IsAnonymous() {
		return ErrUnauthenticated
	}
	return nil
}

// AuthorizeRoomChange 检查 actor 是否可以修改或删除房间: 只有 host 本人可以。
// host 已被删除 (为 NULL) 的房间任何人都不能修改。
func AuthorizeRoomChange(actor domain.Actor, room *domain.Room) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if room == nil || !room.IsHostedBy(actor.UserID) {
		return ErrForbidden
	}
	return nil
}

// AuthorizeMessageDelete 检查 actor 是否可以删除消息: 只有作者本人可以。
func AuthorizeMessageDelete(actor domain.Actor, msg *domain.Message) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if msg == nil || msg.UserID != actor.UserID {
		return ErrForbidden
	}
	return nil
}
