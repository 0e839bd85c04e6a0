package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const maxUsernameLength = 50

// validate 与 gin binding 使用同一个校验库
var validate = validator.New()

// Claims 是签发给用户的 JWT 载荷。RegisteredClaims.ID 用作注销时的 token 标识。
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService 负责注册、登录、注销和 token 校验。
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSecret []byte        // 存储密钥的字节形式
	jwtExpiry time.Duration // JWT 过期时间
}

// NewAuthService 创建 AuthService 实例。
// jwtSecretKey 应从安全配置中获取, jwtExpiryHours <= 0 时默认 24 小时。
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if tokenRepo == nil {
		panic("TokenRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSecret: []byte(jwtSecretKey),
		jwtExpiry: time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// Register 创建用户并立即登录, 返回新用户和 token。
// 用户名和邮箱在保存前转为小写。
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, string, error) {
	username := domain.NormalizeUsername(reg.Username)
	email := domain.NormalizeEmail(reg.Email)
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	if err := validateRegistration(username, email, reg); err != nil {
		logCtx.WithError(err).Warn("Registration rejected: invalid form")
		return nil, "", err
	}

	hashedPassword, err := hashPassword(reg.Password1)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, "", ErrInternalServer
	}

	user := &domain.User{
		Name:     strings.TrimSpace(reg.Name),
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Avatar:   domain.DefaultAvatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: username or email already exists")
			return nil, "", ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, "", ErrInternalServer
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token after registration")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, token, nil
}

// Login 通过邮箱和密码登录。
// 邮箱不存在和密码错误返回同一个 ErrAuthenticationFailed, 不泄露是哪一项出错。
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	logCtx := logrus.WithField("email", email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
			return nil, "", ErrAuthenticationFailed
		}
		logCtx.WithError(err).Error("Login attempt failed: error finding user")
		return nil, "", ErrInternalServer
	}
	if user == nil || !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during login")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return user, token, nil
}

// Logout 注销 token, 直到它原本的过期时间为止都不再被接受。
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseJWT(tokenString)
	if err != nil {
		logrus.WithError(err).Warn("Logout with invalid token")
		return ErrUnauthenticated
	}
	logCtx := logrus.WithField("user_id", claims.UserID)

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.tokenRepo.Revoke(ctx, claims.ID, ttl); err != nil {
		logCtx.WithError(err).Error("Failed to revoke token")
		return ErrInternalServer
	}
	logCtx.Info("User logged out")
	return nil
}

// Authenticate 校验 token 的签名、有效期和注销状态, 返回其中的用户 ID。
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (uint, error) {
	claims, err := s.parseJWT(tokenString)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to check token revocation")
		return 0, ErrInternalServer
	}
	if revoked {
		return 0, fmt.Errorf("%w: token has been revoked", ErrUnauthenticated)
	}
	return claims.UserID, nil
}

// --- 私有辅助函数 ---

// validateRegistration 校验注册表单
func validateRegistration(username, email string, reg domain.Registration) error {
	var problems []string
	if username == "" {
		problems = append(problems, "username is required")
	} else if len(username) > maxUsernameLength {
		problems = append(problems, "username must be at most 50 characters")
	}
	if email == "" {
		problems = append(problems, "email is required")
	} else if err := validate.Var(email, "email"); err != nil {
		problems = append(problems, "enter a valid email address")
	}
	if reg.Password1 != reg.Password2 {
		problems = append(problems, "the two password fields didn't match")
	}
	problems = append(problems, validatePassword(reg.Password1, username)...)
	return newValidationError(problems)
}

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// generateJWT 为指定用户 ID 生成 JWT Token
func (s *AuthService) generateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// parseJWT 解析并验证 token, 只接受 HMAC 签名
func (s *AuthService) parseJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid || claims.UserID == 0 || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
