package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/mailer"
	"github.com/BruksfildServices01/gym-manager/internal/middleware"
	"github.com/BruksfildServices01/gym-manager/internal/models"
	"github.com/BruksfildServices01/gym-manager/internal/notify"
	"github.com/BruksfildServices01/gym-manager/internal/storage"
	"github.com/BruksfildServices01/gym-manager/internal/testutil"
)

const testPassword = "s3cret-pass"

type harness struct {
	t      *testing.T
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:            "test-secret",
		JWTTTL:               time.Hour,
		AuthRatePerSecond:    1000,
		AuthRateBurst:        1000,
		StatsCacheTTL:        time.Minute,
		AvatarMaxUploadBytes: 1 << 20,
	}

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := notify.NewService(db, mailer.LogMailer{})
	t.Cleanup(svc.Close)

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:      db,
		Config:  cfg,
		Notify:  svc,
		Storage: store,
	})

	return &harness{t: t, db: db, cfg: cfg, router: r}
}

// ======================================================
// FIXTURES
// ======================================================

func (h *harness) user(username, role string) *models.User {
	h.t.Helper()
	u := testutil.CreateUser(h.t, h.db, username, role)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(h.t, err)
	require.NoError(h.t, h.db.Model(u).Update("password_hash", string(hash)).Error)
	return u
}

func (h *harness) admin(username string) *models.User {
	h.t.Helper()
	return testutil.CreateAdmin(h.t, h.db, username)
}

// ======================================================
// REQUESTS
// ======================================================

func (h *harness) do(method, path string, body any, as *models.User) *httptest.ResponseRecorder {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		token, err := middleware.IssueToken(h.cfg, as)
		require.NoError(h.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type listBody[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, w).Code
}

// sessionAt returns an hour long slot on a fixed future day.
func sessionAt(hour int) (string, string) {
	start := time.Date(2030, 5, 14, hour, 0, 0, 0, time.UTC)
	return start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339)
}

func requireStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}
