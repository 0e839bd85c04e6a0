package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/KoustavHazra/studybudyapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// ContextUserIDKey 是已认证用户 ID 在 gin.Context 中的键
	ContextUserIDKey = "user_id"
	// ContextTokenKey 是原始 token 在 gin.Context 中的键, 供注销使用
	ContextTokenKey = "token"
	// LoginURL 是未登录时提示客户端跳转的地址
	LoginURL = "/auth/login"
)

// ErrMissingAuthHeader 表示请求没有携带 Authorization 头
var ErrMissingAuthHeader = errors.New("missing Authorization header")

// ErrMalformedAuthHeader 表示 Authorization 头不是 "Bearer <token>" 格式
var ErrMalformedAuthHeader = errors.New("malformed Authorization header")

// TokenAuthenticator 校验 token 并返回用户 ID, 由 service.AuthService 实现
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// Auth 返回一个 Gin 中间件, 要求请求携带有效且未注销的 Bearer token。
// 未登录的请求以 401 终止, 并在响应中给出登录地址。
func Auth(authenticator TokenAuthenticator) gin.HandlerFunc {
	if authenticator == nil {
		panic("TokenAuthenticator cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Debug("Auth middleware: no usable token")
			unauthenticated(c)
			return
		}

		userID, err := authenticator.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, service.ErrInternalServer) {
				logrus.WithError(err).Error("Auth middleware: failed to verify token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
				return
			}
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			unauthenticated(c)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextTokenKey, tokenStr)
		logrus.WithField("user_id", userID).Debug("Auth middleware: user authenticated via JWT")
		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":     service.ErrUnauthenticated.Error(),
		"login_url": LoginURL,
	})
}

// extractToken 从 Authorization 头中提取 Bearer token
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}
