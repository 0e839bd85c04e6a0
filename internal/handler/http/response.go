package http

import (
	"net/http"
	"strconv"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// SuccessResponse 返回成功响应
func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// currentActor 从 Auth 中间件写入的上下文中取出当前用户。
// 未经过 Auth 中间件的请求得到匿名 Actor。
func currentActor(c *gin.Context) domain.Actor {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return domain.Actor{}
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		return domain.Actor{}
	}
	return domain.NewActor(userID)
}

// parseIDParam 解析路径中的数字 ID, 失败时直接写入 404 响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(id), true
}
