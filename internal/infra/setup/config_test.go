package setup

import (
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{User: "study", Password: "p@ss:w/rd?", Host: "db", Port: "3307", Name: "forum"}

	dsn, err := cfg.DSN()
	require.NoError(t, err)

	// 密码中的特殊字符也要能被驱动原样解析回来
	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "study", parsed.User)
	assert.Equal(t, "p@ss:w/rd?", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "forum", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.Local, parsed.Loc)
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDBConfig_DSN_Defaults(t *testing.T) {
	dsn, err := DBConfig{User: "u", Password: "p"}.DSN()
	require.NoError(t, err)

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3306", parsed.Addr)
	assert.Equal(t, "studybud", parsed.DBName)
}

func TestDBConfig_DSN_MissingCredentials(t *testing.T) {
	_, err := DBConfig{Password: "p"}.DSN()
	assert.Error(t, err, "缺少 DB_USER 应报错")
	_, err = DBConfig{User: "u"}.DSN()
	assert.Error(t, err, "缺少 DB_PASSWORD 应报错")
}
