package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andrewpaige1/formbook-api/auth"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/rs/zerolog/log"
)

// CustomClaims carries the non-registered claims issued by auth.TokenIssuer.
type CustomClaims struct {
	Email string `json:"email"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken validates bearer or cookie tokens. Requests without a
// valid token pass through anonymously; SyncUser decides what needs a login.
func EnsureValidToken(issuer *auth.TokenIssuer) (func(http.Handler) http.Handler, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return issuer.Secret(), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer.Issuer(),
		[]string{issuer.Audience()},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	return func(next http.Handler) http.Handler {
		// A bad or stale token is dropped rather than refused, so sign-in and
		// sign-out keep working for a client holding an old cookie.
		anonymous := func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("EnsureValidToken: ignoring invalid token")
			next.ServeHTTP(w, r)
		}
		mw := jwtmiddleware.New(
			jwtValidator.ValidateToken,
			jwtmiddleware.WithCredentialsOptional(true),
			jwtmiddleware.WithErrorHandler(anonymous),
			jwtmiddleware.WithTokenExtractor(headerOrCookie),
		)
		return mw.CheckJWT(next)
	}, nil
}

// headerOrCookie prefers the Authorization header and falls back to the
// session cookie.
func headerOrCookie(r *http.Request) (string, error) {
	token, err := jwtmiddleware.AuthHeaderTokenExtractor(r)
	if err != nil || token != "" {
		return token, err
	}
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return "", nil
	}
	return cookie.Value, nil
}
