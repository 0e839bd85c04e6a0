package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	// bcrypt 只接受最多 72 字节的输入
	maxPasswordBytes = 72
)

var (
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#\$%\^&\*\(\)_\+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)
	allDigits  = regexp.MustCompile(`^[0-9]+$`)
)

// validatePassword 返回密码不满足策略的原因列表, 满足时返回 nil。
func validatePassword(password, username string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, "password must be at least 8 characters long")
	}
	if len(password) > maxPasswordBytes {
		problems = append(problems, "password must be at most 72 bytes long")
	}
	if allDigits.MatchString(password) {
		problems = append(problems, "password can't be entirely numeric")
	}
	if !hasLower.MatchString(password) || !hasUpper.MatchString(password) ||
		!hasDigit.MatchString(password) || !hasSpecial.MatchString(password) {
		problems = append(problems, "password must contain upper-lowercase, numbers and special chars")
	}
	if username != "" && strings.EqualFold(password, username) {
		problems = append(problems, "password is too similar to the username")
	}
	return problems
}
