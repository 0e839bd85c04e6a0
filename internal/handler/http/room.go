package http

import (
	"net/http"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RoomHandler 封装了房间和消息相关的 HTTP 处理逻辑
type RoomHandler struct {
	roomService    *service.RoomService
	messageService *service.MessageService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService, messageService *service.MessageService) *RoomHandler {
	return &RoomHandler{roomService: roomService, messageService: messageService}
}

// RoomRequest 是创建/修改房间的表单。topic 按名称匹配, 不存在时自动创建。
type RoomRequest struct {
	Topic       string `json:"topic"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r RoomRequest) input() domain.RoomInput {
	return domain.RoomInput{Name: r.Name, Description: r.Description, TopicName: r.Topic}
}

// RoomPage 是房间详情页
type RoomPage struct {
	Room         RoomCard      `json:"room"`
	Messages     []MessageJSON `json:"room_messages"`
	Participants []UserSummary `json:"participants"`
}

// GetRoom 返回房间详情页
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	participants := make([]UserSummary, 0, len(detail.Participants))
	for i := range detail.Participants {
		participants = append(participants, *newUserSummary(&detail.Participants[i]))
	}
	SuccessResponse(c, http.StatusOK, RoomPage{
		Room:         newRoomCard(detail.Room),
		Messages:     newMessageJSONList(detail.Messages),
		Participants: participants,
	})
}

// CreateRoom 创建房间, 当前用户成为 host
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	actor := currentActor(c)
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("user_id", actor.UserID).Warn("Handler.CreateRoom: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), actor, req.input())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, newRoomCard(room))
}

// UpdateRoom 修改房间, 只有 host 可以操作
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor := currentActor(c)
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Warn("Handler.UpdateRoom: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), actor, roomID, req.input())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, newRoomCard(room))
}

// DeleteRoom 删除房间, 只有 host 可以操作
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(c.Request.Context(), currentActor(c), roomID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Room deleted", "redirect": "/"})
}

// MessageRequest 是发言表单
type MessageRequest struct {
	Body string `json:"body"`
}

// PostMessage 在房间内发言
func (h *RoomHandler) PostMessage(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	msg, err := h.messageService.PostMessage(c.Request.Context(), currentActor(c), roomID, req.Body)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, newMessageJSON(msg))
}

// DeleteMessage 删除自己的消息
func (h *RoomHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roomID, err := h.messageService.DeleteMessage(c.Request.Context(), currentActor(c), messageID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Message deleted", "room_id": roomID})
}
