package gormpersistence

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// likeEscape 是 LIKE 查询使用的转义字符。
// 不用反斜杠, MySQL 字符串字面量里反斜杠本身也需要转义。
const likeEscape = "!"

// isDuplicateEntryError 检查错误是否为唯一约束冲突。
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	// 开启 TranslateError 后驱动会翻译为 gorm.ErrDuplicatedKey
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "Duplicate entry") || // MySQL
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

// containsPattern 把搜索词转换为不区分大小写的 LIKE 子串模式, 并转义通配符。
func containsPattern(q string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// icontains 生成 "LOWER(column) LIKE ? ESCAPE '!'" 条件片段。
// MySQL (utf8mb4) 的 LOWER 会转换所有 Unicode 字母。SQLite 的 LOWER 只转换 ASCII,
// 所以在 SQLite 上 "CAFÉ" 不会被 "café" 匹配到。
func icontains(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}
