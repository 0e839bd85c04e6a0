package domain

// Actor 是发起操作的用户身份, 由 handler 显式传入 service。
// 零值表示匿名访问者。
type Actor struct {
	UserID uint
}

// NewActor 根据已认证的用户 ID 构造 Actor。
func NewActor(userID uint) Actor {
	return Actor{UserID: userID}
}

// IsAnonymous 报告该 Actor 是否未登录。
func (a Actor) IsAnonymous() bool {
	return a.UserID == 0
}

// RoomInput 是创建/修改房间时允许编辑的字段。
// host 和 participants 不在其中, 它们由 service 维护。
type RoomInput struct {
	Name        string
	Description string
	TopicName   string
}

// ProfileInput 是用户编辑个人资料时允许修改的字段。
type ProfileInput struct {
	Name     string
	Username string
	Email    string
	Bio      string
	Avatar   string
}

// Registration 是注册表单的字段。
type Registration struct {
	Name      string
	Username  string
	Email     string
	Password1 string
	Password2 string
}
