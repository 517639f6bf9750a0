package utils

import (
	"context"
	"net/http"

	"github.com/andrewpaige1/formbook-api/models"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

type contextKey string

const (
	userKey    contextKey = "user"
	blockedKey contextKey = "blocked"
)

// GetSubject returns the token subject (the user's PublicID) if the request
// carried a valid token.
func GetSubject(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func WithBlocked(ctx context.Context) context.Context {
	return context.WithValue(ctx, blockedKey, true)
}

// CurrentUser returns the signed-in, non-blocked user.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userKey).(*models.User)
	return user, ok && user != nil
}

func IsBlocked(r *http.Request) bool {
	blocked, _ := r.Context().Value(blockedKey).(bool)
	return blocked
}
