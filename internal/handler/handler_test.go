package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/apperr"
	"classroom/internal/auth"
	"classroom/internal/authz"
	"classroom/internal/config"
	"classroom/internal/user"
)

type fakeUserStore struct {
	nextID int64
	users  []user.User
}

func (f *fakeUserStore) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.users {
		if existing.UserID == u.UserID {
			return user.User{}, apperr.Conflict("user id or email already registered")
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.IsActive = true
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserStore) ByUserID(_ context.Context, userID string) (user.User, error) {
	for _, u := range f.users {
		if u.UserID == userID {
			return u, nil
		}
	}
	return user.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserStore) ByID(_ context.Context, id int64) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserStore) List(_ context.Context, limit, offset int) ([]user.User, error) {
	return f.users, nil
}

func (f *fakeUserStore) Update(_ context.Context, id int64, p user.Patch) (user.User, error) {
	return user.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	return apperr.NotFound("user not found")
}

func (f *fakeUserStore) SetPassword(_ context.Context, id int64, hash string) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users[i].PasswordHash = hash
			return nil
		}
	}
	return apperr.NotFound("user not found")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.App{
		JWTIssuer:     "classroom-test",
		JWTSigningKey: "test-signing-key",
		AccessTTL:     time.Hour,
	}
	users := user.NewService(&fakeUserStore{}, authz.NewGate(nil))
	h := New(cfg, users, nil, nil, nil, nil, nil, nil)

	r := gin.New()
	authn := auth.Middleware(cfg.JWTSigningKey, cfg.JWTIssuer, users)
	h.RegisterRoutes(r, authn)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRolesEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/auth/roles", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student")
	assert.Contains(t, w.Body.String(), "professor")
	assert.Contains(t, w.Body.String(), "admin")
}

func TestRegisterTokenMeFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"user_id": "1MS21CS001", "password": "secret123", "full_name": "Anil Kumar",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	// The password hash never leaves the API.
	assert.NotContains(t, w.Body.String(), "password")

	// Duplicate registration conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"user_id": "1MS21CS001", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"user_id": "1MS21CS001", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	assert.Equal(t, "bearer", tokenResp.TokenType)
	require.NotEmpty(t, tokenResp.AccessToken)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, tokenResp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1MS21CS001")
}

func TestTokenBadCredentials(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"user_id": "nobody", "password": "whatever",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "incorrect user id or password")
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{
		"/api/auth/me",
		"/api/attendance/",
		"/api/timetable/",
		"/api/notifications/",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestProtectedRoutesRejectGarbageToken(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersForbiddenForStudent(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"user_id": "1MS21CS001", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/token", gin.H{
		"user_id": "1MS21CS001", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))

	w = doJSON(t, r, http.MethodGet, "/api/auth/users", nil, tokenResp.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthzDegradedWithoutBackends(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}
