package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satsun/backend/internal/utils"
)

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	called := false
	var uid string
	next := func(c echo.Context) error {
		called = true
		uid, _ = c.Get("user_id").(string)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth("secret")(next)(c))
	return rec, called, uid
}

func TestJWTAuthInjectsUserID(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", "user-1", 15)
	require.NoError(t, err)

	rec, called, uid := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "user-1", uid)
}

func TestJWTAuthMissingHeaderIs401(t *testing.T) {
	rec, called, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthBadSchemeIs401(t *testing.T) {
	rec, called, _ := runJWT(t, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthForgedTokenIs401(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "user-1", 15)
	require.NoError(t, err)

	rec, called, _ := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
