package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_orders/pkg/authclient"
	"github.com/Skotchmaster/shop_orders/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

type stubRefresher struct {
	resp *authclient.RefreshResponse
	err  error
	hits int
}

func (s *stubRefresher) RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*authclient.RefreshResponse, error) {
	s.hits++
	return s.resp, s.err
}

func mustToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(sub, role, exp, secret)
	require.NoError(t, err)
	return tok
}

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err, called
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	return he.Code
}

func TestRequireAuth_BearerToken(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+mustToken(t, "7", RoleCustomer, time.Now().Add(time.Minute)))

	_, c, err, called := run(t, m.RequireAuth, req)
	require.NoError(t, err)
	require.True(t, called)

	id, err := UserID(c)
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.Equal(t, RoleCustomer, Role(c))
}

func TestRequireAuth_MissingToken(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	_, _, err, called := run(t, m.RequireAuth, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestRequireAdmin_ForbidsCustomer(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: mustToken(t, "7", RoleCustomer, time.Now().Add(time.Minute))})

	_, _, err, called := run(t, m.RequireAdmin, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestRequireAuth_RefreshesExpiredCookie(t *testing.T) {
	fresh := mustToken(t, "9", RoleAdmin, time.Now().Add(time.Minute))
	ref := &stubRefresher{resp: &authclient.RefreshResponse{
		AccessToken:  fresh,
		RefreshToken: "next-refresh",
		AccessExp:    time.Now().Add(time.Minute).Unix(),
		RefreshExp:   time.Now().Add(time.Hour).Unix(),
	}}
	m := NewAutoRefreshMiddleware(secret, ref)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: mustToken(t, "9", RoleAdmin, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})

	rec, c, err, called := run(t, m.RequireAdmin, req)
	require.NoError(t, err)
	require.True(t, called)
	assert.Equal(t, 1, ref.hits)
	assert.Len(t, rec.Result().Cookies(), 2)

	id, err := UserID(c)
	require.NoError(t, err)
	assert.EqualValues(t, 9, id)
}

func TestRequireAuth_RefreshFailureClearsCookies(t *testing.T) {
	ref := &stubRefresher{err: authclient.ErrRefreshRejected}
	m := NewAutoRefreshMiddleware(secret, ref)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: mustToken(t, "9", RoleAdmin, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh"})

	rec, _, err, called := run(t, m.RequireAuth, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
	}
}

func TestUserID_Invalid(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := UserID(c)
	assert.ErrorIs(t, err, ErrUnauthorized)

	c.Set(ContextUserID, "not-a-number")
	_, err = UserID(c)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
