package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	httpHandler "github.com/KoustavHazra/studybudyapp/internal/handler/http"
)

// Handlers 汇总路由需要的全部 handler
type Handlers struct {
	Auth *httpHandler.AuthHandler
	Room *httpHandler.RoomHandler
	User *httpHandler.UserHandler
	Feed *httpHandler.FeedHandler
}

// RegisterRoutes 注册全部路由。requireAuth 用于需要登录的路由。
func RegisterRoutes(router gin.IRouter, h Handlers, requireAuth gin.HandlerFunc) {
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	// 只读 JSON 接口
	api := router.Group("/api")
	{
		api.GET("/", h.Feed.APIRoutes)
		api.GET("/rooms", h.Feed.APIRooms)
		api.GET("/rooms/:id", h.Feed.APIRoom)
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", requireAuth, h.Auth.Logout)
	}

	router.GET("/", h.Feed.Home)

	private := router.Group("", requireAuth)
	{
		private.POST("/rooms", h.Room.CreateRoom)
		private.GET("/rooms/:id", h.Room.GetRoom)
		private.PUT("/rooms/:id", h.Room.UpdateRoom)
		private.DELETE("/rooms/:id", h.Room.DeleteRoom)
		private.POST("/rooms/:id/messages", h.Room.PostMessage)
		private.DELETE("/messages/:id", h.Room.DeleteMessage)
		private.GET("/users/:id", h.User.Profile)
		private.PUT("/users/me", h.User.UpdateProfile)
		private.GET("/topics", h.Feed.Topics)
		private.GET("/activity", h.Feed.Activity)
	}
}

// CORSMiddleware 允许来自 allowedOrigin 的跨域请求
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware 记录每个请求的状态码、耗时、客户端 IP、方法和路径
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		statusCode := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
			return
		}
		switch {
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
