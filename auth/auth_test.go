package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTokenClaims(t *testing.T) {
	ti := NewTokenIssuer("secret", "formbook-api", "formbook", time.Hour)
	ti.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	tok, err := ti.CreateToken(&models.User{PublicID: "u-1", Email: "ada@example.com"})
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(tok, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return time.Unix(1_700_000_100, 0) }))
	require.NoError(t, err)

	claims := parsed.Claims.(*Claims)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "formbook-api", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"formbook"}, claims.Audience)
	assert.Equal(t, int64(1_700_003_600), claims.ExpiresAt.Unix())
}

func TestCreateTokenWithoutSecret(t *testing.T) {
	_, err := NewTokenIssuer("", "i", "a", time.Hour).CreateToken(&models.User{})
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestSessionCookies(t *testing.T) {
	env := config.Environment{Domain: "localhost"}

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", env, time.Hour)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, env)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
