package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KoustavHazra/studybudyapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	userID uint
	err    error
}

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (uint, error) {
	if f.err != nil {
		return 0, f.err
	}
	if token != "good" {
		return 0, service.ErrUnauthenticated
	}
	return f.userID, nil
}

func newAuthRouter(a TokenAuthenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", Auth(a), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserIDKey), "token": c.GetString(ContextTokenKey)})
	})
	return r
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		auth       fakeAuthenticator
		wantStatus int
	}{
		{"有效 token", "Bearer good", fakeAuthenticator{userID: 7}, http.StatusOK},
		{"bearer 大小写不敏感", "bearer good", fakeAuthenticator{userID: 7}, http.StatusOK},
		{"缺少 Authorization", "", fakeAuthenticator{userID: 7}, http.StatusUnauthorized},
		{"格式错误", "Token good", fakeAuthenticator{userID: 7}, http.StatusUnauthorized},
		{"无效 token", "Bearer bad", fakeAuthenticator{userID: 7}, http.StatusUnauthorized},
		{"校验时内部错误", "Bearer good", fakeAuthenticator{err: service.ErrInternalServer}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.auth)
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			switch tt.wantStatus {
			case http.StatusOK:
				assert.Equal(t, float64(7), body["user_id"])
				assert.Equal(t, "good", body["token"])
			case http.StatusUnauthorized:
				assert.Equal(t, LoginURL, body["login_url"], "未登录应提示登录地址")
			}
		})
	}
}

func TestAuth_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { Auth(nil) })
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := extractToken(c)
	assert.True(t, errors.Is(err, ErrMissingAuthHeader))

	c.Request.Header.Set("Authorization", "Bearer a b")
	_, err = extractToken(c)
	assert.True(t, errors.Is(err, ErrMalformedAuthHeader))
}
