package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/db"
	"github.com/quizdeck-dev/quizdeck/internal/auth"
	"github.com/quizdeck-dev/quizdeck/internal/config"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"github.com/quizdeck-dev/quizdeck/internal/permissions"
	"github.com/quizdeck-dev/quizdeck/internal/router"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A uniquely named shared-cache memory database so the connection pool
	// sees a single store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	authService, err := auth.NewService(testSecret, time.Hour)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.Load()
	cfg.BcryptCost = bcrypt.MinCost

	return &testEnv{
		router: router.New(router.Deps{DB: conn, Auth: authService, Log: log, Cfg: cfg}),
		db:     conn,
		auth:   authService,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}

	return w, env
}

// register creates a user through the API and returns its id.
func (e *testEnv) register(t *testing.T, name, email, password string) uint {
	t.Helper()

	w, env := e.do(t, "POST", "/api/v1/users/register", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, 201, w.Code, "register %s: %s", name, env.Message)

	var summary struct {
		ID uint `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	return summary.ID
}

func (e *testEnv) login(t *testing.T, name, password string) string {
	t.Helper()

	w, env := e.do(t, "POST", "/api/v1/users/login", gin.H{
		"name":     name,
		"password": password,
	}, "")
	require.Equal(t, 200, w.Code, "login %s: %s", name, env.Message)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func (e *testEnv) registerAndLogin(t *testing.T, name, email, password string) (uint, string) {
	t.Helper()
	id := e.register(t, name, email, password)
	return id, e.login(t, name, password)
}

// grantAdmin flips the ADMIN bit directly in storage; there is no endpoint
// for it.
func (e *testEnv) grantAdmin(t *testing.T, name string) {
	t.Helper()

	var user models.User
	require.NoError(t, e.db.Where("name = ?", name).First(&user).Error)
	user.Permissions.Grant(permissions.Admin)
	require.NoError(t, e.db.Save(&user).Error)
}
