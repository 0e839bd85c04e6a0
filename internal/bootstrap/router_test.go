package bootstrap

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	httpHandler "github.com/KoustavHazra/studybudyapp/internal/handler/http"
	gormpersistence "github.com/KoustavHazra/studybudyapp/internal/infra/persistence/gorm"
	"github.com/KoustavHazra/studybudyapp/internal/infra/setup"
	"github.com/KoustavHazra/studybudyapp/internal/middleware"
	"github.com/KoustavHazra/studybudyapp/internal/repository/mocks"
	"github.com/KoustavHazra/studybudyapp/internal/service"
)

// newTestRouter 组装一个使用内存 SQLite 的完整路由, token 注销记录用 mock 代替 Redis
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, setup.MigrateDB(db))

	tokenRepo := new(mocks.TokenRepository)
	tokenRepo.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil).Maybe()
	tokenRepo.On("Revoke", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	userRepo := gormpersistence.NewGormUserRepository(db)
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	topicRepo := gormpersistence.NewGormTopicRepository(db)
	messageRepo := gormpersistence.NewGormMessageRepository(db)

	authService, err := service.NewAuthService(userRepo, tokenRepo, "test-secret", 1)
	require.NoError(t, err)
	roomService := service.NewRoomService(roomRepo, topicRepo, messageRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware("http://localhost:3000"))
	RegisterRoutes(router, Handlers{
		Auth: httpHandler.NewAuthHandler(authService),
		Room: httpHandler.NewRoomHandler(roomService, service.NewMessageService(roomRepo, messageRepo)),
		User: httpHandler.NewUserHandler(service.NewUserService(userRepo, roomRepo, topicRepo, messageRepo)),
		Feed: httpHandler.NewFeedHandler(service.NewFeedService(roomRepo, topicRepo, messageRepo), roomService),
	}, middleware.Auth(authService))
	return router
}

func call(t *testing.T, r http.Handler, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func register(t *testing.T, r http.Handler, username, email string) (string, uint) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"%s","username":"%s","email":"%s","password1":"Str0ng!Pass","password2":"Str0ng!Pass"}`,
		username, username, email)
	code, resp := call(t, r, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, code, resp)
	user := resp["user"].(map[string]interface{})
	return resp["token"].(string), uint(user["id"].(float64))
}

func TestRouter_ForumFlow(t *testing.T) {
	r := newTestRouter(t)

	aliceToken, aliceID := register(t, r, "Alice123", "alice@example.com")
	bobToken, bobID := register(t, r, "bob", "bob@example.com")

	// 用户名大小写不敏感唯一
	code, _ := call(t, r, http.MethodPost, "/auth/register", "",
		`{"username":"ALICE123","email":"other@example.com","password1":"Str0ng!Pass","password2":"Str0ng!Pass"}`)
	assert.Equal(t, http.StatusConflict, code)

	// 邮箱任意大小写都能登录
	code, resp := call(t, r, http.MethodPost, "/auth/login", "", `{"email":"ALICE@Example.com","password":"Str0ng!Pass"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice123", resp["user"].(map[string]interface{})["username"], "用户名以小写存储")

	code, _ = call(t, r, http.MethodPost, "/auth/login", "", `{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	// 未登录访问受保护页面
	code, resp = call(t, r, http.MethodPost, "/rooms", "", `{"topic":"Python","name":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, middleware.LoginURL, resp["login_url"])

	// alice 创建房间
	code, resp = call(t, r, http.MethodPost, "/rooms", aliceToken,
		`{"topic":"Python","name":"Let's learn python","description":"beginners"}`)
	require.Equal(t, http.StatusCreated, code, resp)
	roomID := uint(resp["id"].(float64))
	roomPath := fmt.Sprintf("/rooms/%d", roomID)
	apiRoomPath := fmt.Sprintf("/api/rooms/%d", roomID)

	// bob 发言两次, 只加入一次
	for i := 0; i < 2; i++ {
		code, _ = call(t, r, http.MethodPost, roomPath+"/messages", bobToken, `{"body":"hi"}`)
		require.Equal(t, http.StatusCreated, code)
	}
	code, resp = call(t, r, http.MethodGet, apiRoomPath, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(aliceID), resp["host"])
	assert.Equal(t, []interface{}{float64(bobID)}, resp["participants"], "host 不是参与者, bob 只加入一次")

	// bob 不能修改或删除 alice 的房间
	code, _ = call(t, r, http.MethodPut, roomPath, bobToken, `{"topic":"Go","name":"hijacked"}`)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, r, http.MethodDelete, roomPath, bobToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	_, resp = call(t, r, http.MethodGet, apiRoomPath, "", "")
	assert.Equal(t, "Let's learn python", resp["name"], "房间未被修改")

	// 搜索
	_, resp = call(t, r, http.MethodGet, "/?q=Py", "", "")
	assert.Equal(t, float64(1), resp["room_count"])
	_, resp = call(t, r, http.MethodGet, "/?q=rust", "", "")
	assert.Equal(t, float64(0), resp["room_count"])
	_, resp = call(t, r, http.MethodGet, "/", "", "")
	assert.Equal(t, float64(1), resp["room_count"])

	// 房间详情和用户主页
	code, resp = call(t, r, http.MethodGet, roomPath, bobToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["room_messages"], 2)
	code, resp = call(t, r, http.MethodGet, fmt.Sprintf("/users/%d", bobID), aliceToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["room_messages"], 2)

	// 资料修改冲突
	code, _ = call(t, r, http.MethodPut, "/users/me", bobToken, `{"username":"alice123","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusConflict, code)

	// alice 删除房间, 消息一并删除
	code, _ = call(t, r, http.MethodDelete, roomPath, aliceToken, "")
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodGet, apiRoomPath, "", "")
	assert.Equal(t, http.StatusNotFound, code)
	_, resp = call(t, r, http.MethodGet, "/activity", aliceToken, "")
	assert.Len(t, resp["room_messages"], 0)

	code, _ = call(t, r, http.MethodPost, "/auth/logout", aliceToken, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_APIIndexAndPing(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var routes []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &routes))
	assert.Equal(t, []string{"GET /api", "GET /api/rooms", "GET /api/rooms/:id"}, routes)

	code, resp := call(t, r, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", resp["message"])

	req = httptest.NewRequest(http.MethodOptions, "/rooms", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code, "CORS 预检请求")
}
