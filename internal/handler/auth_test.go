package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/user-auth-api/internal/auth"
	"github.com/iliyamo/user-auth-api/internal/middleware"
	"github.com/iliyamo/user-auth-api/internal/model"
	"github.com/iliyamo/user-auth-api/internal/repository"
	"github.com/iliyamo/user-auth-api/internal/utils"
)

// memStore is a map-backed auth.UserStore, just enough for driving the
// handlers through a real service.
type memStore struct {
	mu     sync.Mutex
	users  map[uint64]*model.User
	nextID uint64
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uint64]*model.User), nextID: 1}
}

func (m *memStore) Create(_ context.Context, name, email, hash, role string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	id := m.nextID
	m.nextID++
	m.users[id] = &model.User{ID: id, Name: name, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now().UTC()}
	return id, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memStore) SetRefreshToken(_ context.Context, id uint64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.RefreshToken = &token
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) RotateRefreshToken(_ context.Context, id uint64, presented, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != presented {
		return false, nil
	}
	u.RefreshToken = &next
	return true, nil
}

func (m *memStore) ClearRefreshToken(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.RefreshToken = nil
	}
	return nil
}

func (m *memStore) SetVerificationToken(_ context.Context, id uint64, token string, expire time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.VerificationToken = &token
		u.VerificationTokenExpire = &expire
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) ConsumeVerificationToken(_ context.Context, id uint64, email, token string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.IsVerified || u.Email != email ||
		u.VerificationToken == nil || *u.VerificationToken != token ||
		u.VerificationTokenExpire == nil || !u.VerificationTokenExpire.After(now) {
		return false, nil
	}
	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationTokenExpire = nil
	return true, nil
}

func (m *memStore) SetResetToken(_ context.Context, id uint64, token string, expire time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.ResetPasswordToken = &token
		u.ResetPasswordExpire = &expire
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) ClearResetToken(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.ResetPasswordToken = nil
		u.ResetPasswordExpire = nil
	}
	return nil
}

func (m *memStore) ConsumeResetToken(_ context.Context, id uint64, email, token, newHash string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Email != email ||
		u.ResetPasswordToken == nil || *u.ResetPasswordToken != token ||
		u.ResetPasswordExpire == nil || !u.ResetPasswordExpire.After(now) {
		return false, nil
	}
	u.PasswordHash = newHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	u.RefreshToken = nil
	return true, nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uint64, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.PasswordHash = newHash
		u.RefreshToken = nil
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) UpdateRole(_ context.Context, id uint64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.Role = role
		return nil
	}
	return repository.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) CountAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memStore) CountByRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountCreatedSince(_ context.Context, t time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.CreatedAt.After(t) {
			n++
		}
	}
	return n, nil
}

// nopSender drops all outbound email.
type nopSender struct{}

func (nopSender) SendVerification(context.Context, string, string) error   { return nil }
func (nopSender) ResendVerification(context.Context, string, string) error { return nil }
func (nopSender) SendPasswordReset(context.Context, string, string) error  { return nil }
func (nopSender) SendWelcome(context.Context, string, string) error        { return nil }

func newTestHandler() (*AuthHandler, *memStore) {
	store := newMemStore()
	svc := auth.NewService(store, nopSender{}, nil, auth.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		VerificationTTL:  24 * time.Hour,
		ResetTTL:         time.Hour,
		BcryptCost:       bcrypt.MinCost,
	})
	return NewAuthHandler(svc, 7*24*time.Hour, false), store
}

func seedVerified(t *testing.T, store *memStore, email, password string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	id, err := store.Create(context.Background(), "Test User", email, hash, model.RoleUser)
	require.NoError(t, err)
	store.mu.Lock()
	store.users[id].IsVerified = true
	store.mu.Unlock()
	return id
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookieName {
			return ck
		}
	}
	t.Fatal("no refreshToken cookie in response")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	h, _ := newTestHandler()

	rec := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		User    model.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "alice@example.com", body.User.Email)
	require.False(t, body.User.IsVerified)
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	h, store := newTestHandler()
	seedVerified(t, store, "alice@example.com", "password123")

	rec := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "already exists")
}

func TestLoginEndpointSetsCookie(t *testing.T) {
	h, store := newTestHandler()
	seedVerified(t, store, "bob@example.com", "password123")

	rec := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"bob@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ck := refreshCookie(t, rec)
	require.NotEmpty(t, ck.Value)
	require.True(t, ck.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	require.Equal(t, "/", ck.Path)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	// The body token is an access token, never the cookie's refresh token.
	require.NotEqual(t, ck.Value, body.Token)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	h, store := newTestHandler()
	seedVerified(t, store, "bob@example.com", "password123")

	rec := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"bob@example.com","password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginEndpointUnverified(t *testing.T) {
	h, store := newTestHandler()
	hash, err := utils.HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), "Carol", "carol@example.com", hash, model.RoleUser)
	require.NoError(t, err)

	rec := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"carol@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), `"requiresVerification":true`)
}

func TestRefreshEndpointRotatesCookie(t *testing.T) {
	h, store := newTestHandler()
	seedVerified(t, store, "bob@example.com", "password123")

	login := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"bob@example.com","password":"password123"}`, nil)
	old := refreshCookie(t, login)

	rec := doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh", "", func(r *http.Request) {
		r.AddCookie(old)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := refreshCookie(t, rec)
	require.NotEqual(t, old.Value, fresh.Value)

	// Replaying the old cookie fails: the stored token was rotated.
	rec = doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh", "", func(r *http.Request) {
		r.AddCookie(old)
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpointNoCookie(t *testing.T) {
	h, _ := newTestHandler()

	rec := doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid refresh token")
}

func TestRefreshEndpointGarbageCookie(t *testing.T) {
	h, _ := newTestHandler()

	rec := doJSON(t, h.Refresh, http.MethodPost, "/api/auth/refresh", "", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "garbage"})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpointClearsCookie(t *testing.T) {
	h, store := newTestHandler()
	id := seedVerified(t, store, "bob@example.com", "password123")

	login := doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		`{"email":"bob@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, login.Code)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserID, id)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ck := refreshCookie(t, rec)
	require.Empty(t, ck.Value)
	require.Negative(t, ck.MaxAge)

	store.mu.Lock()
	require.Nil(t, store.users[id].RefreshToken)
	store.mu.Unlock()
}

func TestVerifyEmailEndpoint(t *testing.T) {
	h, store := newTestHandler()

	reg := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusCreated, reg.Code)

	var body struct {
		User model.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &body))
	store.mu.Lock()
	token := *store.users[body.User.ID].VerificationToken
	store.mu.Unlock()

	rec := doJSON(t, h.VerifyEmail, http.MethodPost, "/api/auth/verify-email",
		`{"token":"`+token+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second consumption reports the already verified state.
	rec = doJSON(t, h.VerifyEmail, http.MethodPost, "/api/auth/verify-email",
		`{"token":"`+token+`"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "already verified")
}

func TestForgotPasswordEndpointMasksExistence(t *testing.T) {
	h, store := newTestHandler()
	seedVerified(t, store, "bob@example.com", "password123")

	known := doJSON(t, h.ForgotPassword, http.MethodPost, "/api/auth/forgot-password",
		`{"email":"bob@example.com"}`, nil)
	unknown := doJSON(t, h.ForgotPassword, http.MethodPost, "/api/auth/forgot-password",
		`{"email":"nobody@example.com"}`, nil)

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	require.JSONEq(t, known.Body.String(), unknown.Body.String())
}

func TestChangePasswordEndpointClearsCookie(t *testing.T) {
	h, store := newTestHandler()
	id := seedVerified(t, store, "bob@example.com", "password123")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password",
		strings.NewReader(`{"currentPassword":"password123","newPassword":"newpassword1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserID, id)

	require.NoError(t, h.ChangePassword(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "login again")

	ck := refreshCookie(t, rec)
	require.Empty(t, ck.Value)
	require.Negative(t, ck.MaxAge)
}
