package http

import (
	"net/http"

	"github.com/KoustavHazra/studybudyapp/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedHandler 处理首页、话题页、动态页和只读 JSON 接口
type FeedHandler struct {
	feedService *service.FeedService
	roomService *service.RoomService
}

// NewFeedHandler 创建 FeedHandler 实例
func NewFeedHandler(feedService *service.FeedService, roomService *service.RoomService) *FeedHandler {
	return &FeedHandler{feedService: feedService, roomService: roomService}
}

// HomePage 是首页
type HomePage struct {
	Query     string        `json:"q"`
	Rooms     []RoomCard    `json:"rooms"`
	RoomCount int           `json:"room_count"`
	Topics    []TopicJSON   `json:"topics"`
	Messages  []MessageJSON `json:"room_messages"`
}

// Home 返回首页, ?q= 同时过滤房间和动态
func (h *FeedHandler) Home(c *gin.Context) {
	view, err := h.feedService.Home(c.Request.Context(), c.Query("q"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, HomePage{
		Query:     view.Query,
		Rooms:     newRoomCards(view.Rooms),
		RoomCount: view.RoomCount,
		Topics:    newTopicJSONList(view.Topics),
		Messages:  newMessageJSONList(view.Messages),
	})
}

// Topics 返回话题搜索页
func (h *FeedHandler) Topics(c *gin.Context) {
	topics, err := h.feedService.Topics(c.Request.Context(), c.Query("q"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"topics": newTopicJSONList(topics)})
}

// Activity 返回最近动态页
func (h *FeedHandler) Activity(c *gin.Context) {
	msgs, err := h.feedService.Activity(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"room_messages": newMessageJSONList(msgs)})
}

// apiRoutes 是 GET /api/ 返回的路由说明
var apiRoutes = []string{
	"GET /api",
	"GET /api/rooms",
	"GET /api/rooms/:id",
}

// APIRoutes 列出只读 JSON 接口
func (h *FeedHandler) APIRoutes(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, apiRoutes)
}

// APIRooms 以 JSON 返回全部房间
func (h *FeedHandler) APIRooms(c *gin.Context) {
	rooms, err := h.feedService.ListRooms(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, newRoomJSONList(rooms))
}

// APIRoom 以 JSON 返回单个房间
func (h *FeedHandler) APIRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.FindRoomByID(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, newRoomJSON(room))
}
