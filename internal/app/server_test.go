package app_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"comicweb_backend/internal/app"
	"comicweb_backend/internal/config"
	"comicweb_backend/internal/email"
	"comicweb_backend/internal/models"
	"comicweb_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestServer - роутер приложения поверх in-memory БД и почты в памяти
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Mail   *email.MemoryProvider
	Config *config.Config
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    *string         `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "integration-secret-integration-secret"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Upload.MaxSize = 1 << 20
	return cfg
}

func NewTestServer(t *testing.T) *TestServer {
	return NewTestServerWithConfig(t, testConfig(t))
}

func NewTestServerWithConfig(t *testing.T, cfg *config.Config) *TestServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	mail := email.NewMemoryProvider()

	router, err := app.SetupRouter(cfg, db, app.Options{EmailProvider: mail}, nil)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db, Mail: mail, Config: cfg}
}

// SendRequest отправляет JSON и возвращает статус и разобранный конверт
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	require.Equal(t, res.StatusCode, env.StatusCode, "statusCode in envelope must match HTTP status")
	return res.StatusCode, env
}

// Login создает пользователя с ролью и возвращает его access токен
func (ts *TestServer) Login(t *testing.T, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := testutil.CreateUser(t, ts.DB, testutil.UniqueEmail(string(role)), role)
	status, env := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    user.Email,
		"password": testutil.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, status)

	var tokens struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, env, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken, user
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), "data: %s", env.Data)
}

func message(env envelope) string {
	if env.Message == nil {
		return ""
	}
	return *env.Message
}
