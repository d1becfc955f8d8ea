package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/logger"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
}

func newRouter(cfg *config.Config, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		a := Actor(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":    a.UserID,
			"role":       a.Role,
			"admin":      a.IsAdmin,
			"request_id": logger.RequestID(c.Request.Context()),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testConfig()
	token, err := IssueToken(cfg, &models.User{ID: 7, Role: models.RoleTrainer})
	require.NoError(t, err)

	w := get(newRouter(cfg), token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"pt","admin":false,"request_id":"`+w.Header().Get(HeaderRequestID)+`"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cfg := testConfig()

	other := &config.Config{JWTSecret: "other", JWTTTL: time.Hour}
	foreign, err := IssueToken(other, &models.User{ID: 1, Role: models.RoleMember})
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "role": "member", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "member", "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing": "",
		"garbage": "abc.def.ghi",
		"foreign": foreign,
		"expired": expired,
		"no_sub":  noSub,
	} {
		t.Run(name, func(t *testing.T) {
			w := get(newRouter(cfg), token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "error_code")
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, RequireAdmin())

	member, _ := IssueToken(cfg, &models.User{ID: 1, Role: models.RoleMember})
	admin, _ := IssueToken(cfg, &models.User{ID: 2, Role: models.RoleMember, IsSuperuser: true})

	assert.Equal(t, http.StatusForbidden, get(r, member).Code)
	assert.Equal(t, http.StatusOK, get(r, admin).Code)
}

func TestRequireAdminOrTrainer(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg, RequireAdminOrTrainer())

	member, _ := IssueToken(cfg, &models.User{ID: 1, Role: models.RoleMember})
	trainer, _ := IssueToken(cfg, &models.User{ID: 2, Role: models.RoleTrainer})

	assert.Equal(t, http.StatusForbidden, get(r, member).Code)
	assert.Equal(t, http.StatusOK, get(r, trainer).Code)
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, logger.RequestID(c.Request.Context())) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", NewRateLimiter(1, 2).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
}
