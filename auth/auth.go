package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "auth_token"

// Claims is the token payload. Subject carries the user's PublicID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (ti *TokenIssuer) CreateToken(user *models.User) (string, error) {
	if len(ti.secret) == 0 {
		return "", errors.New("auth: JWT secret key not set")
	}
	now := ti.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.PublicID,
			Issuer:    ti.issuer,
			Audience:  jwt.ClaimStrings{ti.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

func (ti *TokenIssuer) Secret() []byte   { return ti.secret }
func (ti *TokenIssuer) Issuer() string   { return ti.issuer }
func (ti *TokenIssuer) Audience() string { return ti.audience }
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

func SetSessionCookie(w http.ResponseWriter, token string, env config.Environment, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   env.Domain,
		HttpOnly: true,
		Secure:   env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearSessionCookie(w http.ResponseWriter, env config.Environment) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   env.Domain,
		HttpOnly: true,
		Secure:   env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
