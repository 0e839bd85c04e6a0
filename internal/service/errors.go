package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KoustavHazra/studybudyapp/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrProfileConflict      = errors.New("username or email already taken")
	ErrForbidden            = errors.New("you are not allowed here")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrValidation           = errors.New("validation failed")
	ErrInternalServer       = errors.New("internal server error")
)

// ValidationError 携带表单校验失败的字段信息, errors.Is(err, ErrValidation) 为 true。
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// newValidationError 在 problems 非空时返回 *ValidationError, 否则返回 nil
func newValidationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// mapRepoError 将仓库层的错误映射到服务层定义的错误。
// notFound 是该资源对应的 "未找到" 业务错误。
func mapRepoError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	default:
		return ErrInternalServer
	}
}
