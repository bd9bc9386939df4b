package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/dto"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSeedEmail    = "admin@mycollab.local"
	testSeedPassword = "admin123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *services.TokenService
}

type envOption func(*Dependencies)

func withOAuth(oauth services.GoogleOAuth) envOption {
	return func(d *Dependencies) { d.OAuth = oauth }
}

func withAI(ai *services.AIService) envOption {
	return func(d *Dependencies) { d.AI = ai }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	_, err = database.MigrateDatabase(db)
	require.NoError(t, err)

	return db
}

func setupTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db := newTestDB(t)
	tokens := services.NewTokenService("test-secret", time.Hour)

	deps := Dependencies{
		DB:             db,
		SessionStore:   cookie.NewStore([]byte("session-secret")),
		Tokens:         tokens,
		FrontendURL:    "http://frontend.test",
		SeedAdminEmail: testSeedEmail,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &testEnv{
		t:      t,
		db:     db,
		router: NewRouter(deps),
		tokens: tokens,
	}
}

// seedAdmin creates the protected seed admin and returns its token
func (e *testEnv) seedAdmin() (string, dto.UserDTO) {
	e.t.Helper()

	authService := services.NewAuthService(repository.NewUserRepository(e.db), e.tokens)
	created, err := authService.EnsureSeedAdmin("Admin", testSeedEmail, testSeedPassword)
	require.NoError(e.t, err)
	require.True(e.t, created)

	return e.login(testSeedEmail, testSeedPassword)
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(email, password string) (string, dto.UserDTO) {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	var resp authResponse
	decodeBody(e.t, w, &resp)
	require.NotEmpty(e.t, resp.Token)
	return resp.Token, resp.User
}

func (e *testEnv) login(email, password string) (string, dto.UserDTO) {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var resp authResponse
	decodeBody(e.t, w, &resp)
	return resp.Token, resp.User
}

func (e *testEnv) createBoard(token, title string) dto.BoardDTO {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/boards", token, map[string]string{"title": title})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Board dto.BoardDTO `json:"board"`
	}
	decodeBody(e.t, w, &resp)
	return resp.Board
}

func (e *testEnv) createTask(token string, listID uint64, title string) dto.TaskDTO {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/tasks", token, map[string]interface{}{
		"title":  title,
		"listId": listID,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Task dto.TaskDTO `json:"task"`
	}
	decodeBody(e.t, w, &resp)
	return resp.Task
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &resp)
	return resp.Error
}

// fakeGoogleOAuth stands in for the Google authorization server
type fakeGoogleOAuth struct {
	profile *services.GoogleProfile
	err     error
}

func (f *fakeGoogleOAuth) AuthCodeURL(state string) string {
	return "https://accounts.google.test/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeGoogleOAuth) Profile(ctx context.Context, code string) (*services.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
