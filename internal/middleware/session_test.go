package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubSessionStore struct {
	token *string
	err   error
}

func (s stubSessionStore) GetRefreshToken(context.Context, uint64) (*string, error) {
	return s.token, s.err
}

type stubRoleStore struct {
	role string
	err  error
}

func (s stubRoleStore) GetRole(context.Context, uint64) (string, error) {
	return s.role, s.err
}

func runWithUser(t *testing.T, mw echo.MiddlewareFunc, userID any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set(ContextUserID, userID)
	}
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "through")
	})
	require.NoError(t, h(c))
	return rec
}

func TestCheckSessionLive(t *testing.T) {
	t.Parallel()

	tok := "stored-refresh-token"
	rec := runWithUser(t, CheckSession(stubSessionStore{token: &tok}), uint64(1))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckSessionLoggedOut(t *testing.T) {
	t.Parallel()

	// NULL refresh token means no live session, however valid the access
	// token still is.
	rec := runWithUser(t, CheckSession(stubSessionStore{token: nil}), uint64(1))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "session expired")
}

func TestCheckSessionUserGone(t *testing.T) {
	t.Parallel()

	rec := runWithUser(t, CheckSession(stubSessionStore{err: errors.New("no rows")}), uint64(1))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckSessionWithoutAuth(t *testing.T) {
	t.Parallel()

	rec := runWithUser(t, CheckSession(stubSessionStore{}), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	t.Parallel()

	rec := runWithUser(t, RequireRole(stubRoleStore{role: "admin"}, "admin"), uint64(1))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbids(t *testing.T) {
	t.Parallel()

	rec := runWithUser(t, RequireRole(stubRoleStore{role: "user"}, "admin"), uint64(1))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "forbidden")
}

func TestRequireRoleUserGone(t *testing.T) {
	t.Parallel()

	rec := runWithUser(t, RequireRole(stubRoleStore{err: errors.New("no rows")}, "admin"), uint64(1))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	t.Parallel()

	rec := runWithUser(t, RequireRole(stubRoleStore{role: "admin"}, "admin"), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
