package http

import (
	"net/http"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 处理用户主页和资料修改
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ProfilePage 是用户主页
type ProfilePage struct {
	User     UserProfileJSON `json:"user"`
	Rooms    []RoomCard      `json:"rooms"`
	Messages []MessageJSON   `json:"room_messages"`
	Topics   []TopicJSON     `json:"topics"`
}

// Profile 返回用户主页
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, ProfilePage{
		User:     newUserProfileJSON(view.User),
		Rooms:    newRoomCards(view.Rooms),
		Messages: newMessageJSONList(view.Messages),
		Topics:   newTopicJSONList(view.Topics),
	})
}

// ProfileRequest 是资料修改表单
type ProfileRequest struct {
	Name     string `json:"name" binding:"max=200"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar" binding:"max=255"`
}

// UpdateProfile 修改当前用户的资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), currentActor(c), domain.ProfileInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, newUserProfileJSON(user))
}
