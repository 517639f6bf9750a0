package middleware

import (
	"errors"
	"net/http"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LoadUser attaches the token's user to the request context. Tokens of
// deleted users are ignored; blocked users are flagged and stay anonymous.
func LoadUser(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := utils.GetSubject(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			var user models.User
			err := db.WithContext(r.Context()).Where("public_id = ?", subject).First(&user).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// deleted account; continue anonymously
				log.Info().Str("subject", subject).Msg("LoadUser: token for unknown user")
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.Error().Err(err).Str("subject", subject).Msg("LoadUser: database error")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			ctx := r.Context()
			if user.IsBlocked {
				ctx = utils.WithBlocked(ctx)
			} else {
				ctx = utils.WithUser(ctx, &user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SyncUser requires a signed-in, non-blocked user.
func SyncUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if utils.IsBlocked(r) {
			http.Error(w, "Account is blocked", http.StatusForbidden)
			return
		}
		if _, ok := utils.CurrentUser(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin requires a signed-in admin.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return SyncUser(func(w http.ResponseWriter, r *http.Request) {
		user, _ := utils.CurrentUser(r)
		if !user.IsAdmin {
			log.Warn().Str("user", user.PublicID).Str("path", r.URL.Path).Msg("RequireAdmin: forbidden")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
