package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/dto"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "First.User@Example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp authResponse
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "first.user@example.com", resp.User.Email)
	assert.Equal(t, "first.user", resp.User.Name)
	assert.Equal(t, models.RoleAdmin, resp.User.Role, "first account becomes admin")
	assert.NotContains(t, w.Body.String(), "password")

	_, second := env.register("second@example.com", "supersecret")
	assert.Equal(t, models.RoleUser, second.Role)
}

func TestAuthHandler_SignupAlias(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp authResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Alice", resp.User.Name)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := setupTestEnv(t)
	env.register("taken@example.com", "supersecret")

	tests := []struct {
		name    string
		body    map[string]string
		status  int
		message string
	}{
		{"missing email", map[string]string{"password": "supersecret"}, http.StatusBadRequest, "Email and password are required"},
		{"short password", map[string]string{"email": "new@example.com", "password": "12345"}, http.StatusBadRequest, "Password must be at least 6 characters"},
		{"duplicate email", map[string]string{"email": "TAKEN@example.com", "password": "supersecret"}, http.StatusConflict, "Email is already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	_, user := env.register("login@example.com", "supersecret")

	token, loggedIn := env.login("LOGIN@example.com", "supersecret")
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	principal, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, "login@example.com", principal.Email)

	for _, body := range []map[string]string{
		{"email": "login@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "supersecret"},
	} {
		w := env.do(http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", errorMessage(t, w))
	}

	w := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "login@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupTestEnv(t)
	token, user := env.register("me@example.com", "supersecret")

	w := env.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User dto.UserDTO `json:"user"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, user.ID, resp.User.ID)

	w = env.do(http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, w))

	w = env.do(http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, w))
}

func TestAuthHandler_GoogleDisabled(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/auth/google", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthHandler_GoogleFlow(t *testing.T) {
	oauth := &fakeGoogleOAuth{profile: &services.GoogleProfile{
		ID:            "google-123",
		Email:         "gopher@example.com",
		VerifiedEmail: true,
		Name:          "Gopher",
	}}
	env := setupTestEnv(t, withOAuth(oauth))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	consent, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := consent.Query().Get("state")
	require.NotEmpty(t, state)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to carry the state")

	callback := func(state string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state="+url.QueryEscape(state), nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w = callback("forged")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OAuth state", errorMessage(t, w))

	w = callback(state)
	require.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "http://frontend.test/callback?"), location)

	redirect, err := url.Parse(location)
	require.NoError(t, err)
	token := redirect.Query().Get("token")
	require.NotEmpty(t, token)

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal([]byte(redirect.Query().Get("user")), &user))
	assert.Equal(t, "gopher@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)

	principal, err := env.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
}

func TestAuthHandler_GoogleLinksExistingAccount(t *testing.T) {
	oauth := &fakeGoogleOAuth{profile: &services.GoogleProfile{
		ID:            "google-456",
		Email:         "linked@example.com",
		VerifiedEmail: true,
	}}
	env := setupTestEnv(t, withOAuth(oauth))
	_, existing := env.register("linked@example.com", "supersecret")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))
	require.Equal(t, http.StatusFound, w.Code)

	consent, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state="+url.QueryEscape(consent.Query().Get("state")), nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, existing.ID).Error)
	require.NotNil(t, stored.GoogleID)
	assert.Equal(t, "google-456", *stored.GoogleID)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthHandler_GoogleUnverifiedEmailDoesNotLink(t *testing.T) {
	oauth := &fakeGoogleOAuth{profile: &services.GoogleProfile{
		ID:    "other-sub",
		Email: testSeedEmail,
	}}
	env := setupTestEnv(t, withOAuth(oauth))
	_, admin := env.seedAdmin()

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))
	require.Equal(t, http.StatusFound, w.Code)

	consent, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state="+url.QueryEscape(consent.Query().Get("state")), nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Google email is not verified", errorMessage(t, w))
	assert.Empty(t, w.Header().Get("Location"))

	var stored models.User
	require.NoError(t, env.db.First(&stored, admin.ID).Error)
	assert.Nil(t, stored.GoogleID)
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := env.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			OK      bool   `json:"ok"`
			Service string `json:"service"`
		}
		decodeBody(t, w, &resp)
		assert.True(t, resp.OK)
		assert.Equal(t, serviceName, resp.Service)
	}
	assert.NotEmpty(t, env.do(http.MethodGet, "/api/health", "", nil).Header().Get("X-Request-ID"))
}
