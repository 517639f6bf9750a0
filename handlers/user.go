package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andrewpaige1/formbook-api/auth"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type credentials struct {
	Email    string
	Password string
	Name     string
}

type sessionResponse struct {
	User  *models.User
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// POST /api/auth/signup
func (db *DBHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, "SignUp", &req) {
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(req.Password) == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	var count int64
	if err := db.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		fail(w, "SignUp", err)
		return
	}
	if count > 0 {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrWeakPassword) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		fail(w, "SignUp", err)
		return
	}

	now := time.Now()
	user := models.User{
		PublicID:     uuid.NewString(),
		Email:        email,
		Name:         utils.PlainText(req.Name),
		PasswordHash: hash,
		LastSignInAt: &now,
	}
	if err := insertUser(db.WithContext(r.Context()), &user); err != nil {
		if errors.Is(err, errEmailTaken) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		fail(w, "SignUp", err)
		return
	}

	log.Info().Str("user", user.PublicID).Msg("SignUp: created user")
	db.startSession(w, &user, http.StatusCreated)
}

var errEmailTaken = errors.New("email already registered")

// insertUser creates user, reporting errEmailTaken when a concurrent signup
// won the unique email index.
func insertUser(tx *gorm.DB, user *models.User) error {
	err := tx.Create(user).Error
	if err == nil {
		return nil
	}
	var count int64
	if cerr := tx.Unscoped().Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; cerr == nil && count > 0 {
		return errEmailTaken
	}
	return err
}

// POST /api/auth/signin
func (db *DBHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, "SignIn", &req) {
		return
	}

	var user models.User
	err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		fail(w, "SignIn", err)
		return
	}
	if user.IsBlocked {
		log.Info().Str("user", user.PublicID).Msg("SignIn: blocked user refused")
		http.Error(w, "Account is blocked", http.StatusForbidden)
		return
	}

	now := time.Now()
	user.LastSignInAt = &now
	if err := db.Model(&user).Update("last_sign_in_at", now).Error; err != nil {
		log.Warn().Err(err).Str("user", user.PublicID).Msg("SignIn: could not record sign in time")
	}

	db.startSession(w, &user, http.StatusOK)
}

func (db *DBHandler) startSession(w http.ResponseWriter, user *models.User, status int) {
	token, err := db.Tokens.CreateToken(user)
	if err != nil {
		log.Error().Err(err).Msg("startSession: token generation error")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	auth.SetSessionCookie(w, token, db.Env, db.Tokens.TTL())
	utils.WriteJSON(w, status, sessionResponse{User: user, Token: token})
}

// POST /api/auth/signout
func (db *DBHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, db.Env)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/auth/me
func (db *DBHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.CurrentUser(r)
	utils.WriteJSON(w, http.StatusOK, user)
}
