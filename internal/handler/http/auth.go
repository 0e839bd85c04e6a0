package http

import (
	"net/http"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/middleware"
	"github.com/KoustavHazra/studybudyapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler 封装了注册、登录和注销的 HTTP 处理逻辑
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest 是注册表单
type RegisterRequest struct {
	Name      string `json:"name" binding:"max=200"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password1 string `json:"password1" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// AuthResponse 是注册/登录成功的响应
type AuthResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    UserProfileJSON `json:"user"`
}

// Register 处理用户注册请求, 成功后直接返回登录 token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), domain.Registration{
		Name:      req.Name,
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    newUserProfileJSON(user),
	})
}

// LoginRequest 是登录表单, 登录标识是邮箱
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and password required")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    newUserProfileJSON(user),
	})
}

// Logout 注销当前请求携带的 token
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextTokenKey)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Logged out"})
}
