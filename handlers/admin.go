package handlers

import (
	"errors"
	"net/http"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var adminUserSorts = map[string]string{
	"email":        "email",
	"name":         "name",
	"created_at":   "created_at",
	"last_sign_in": "last_sign_in_at",
	"is_admin":     "is_admin",
	"is_blocked":   "is_blocked",
}

// GET /api/admin/users
func (db *DBHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sort := utils.ParseSort(r, adminUserSorts, utils.SortSpec{Column: "created_at"})
	users := []models.User{}
	if err := db.WithContext(r.Context()).Order(sort.OrderBy()).Order("id").Find(&users).Error; err != nil {
		fail(w, "ListUsers", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// targetUser loads the user named in the path. Admins may not act on
// their own account through these endpoints.
func (db *DBHandler) targetUser(w http.ResponseWriter, r *http.Request, op string) (*models.User, bool) {
	var target models.User
	err := db.WithContext(r.Context()).Where("public_id = ?", r.PathValue("userID")).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		fail(w, op, err)
		return nil, false
	}
	admin, _ := utils.CurrentUser(r)
	if admin.ID == target.ID {
		http.Error(w, "Cannot change your own account here", http.StatusBadRequest)
		return nil, false
	}
	return &target, true
}

// PUT /api/admin/users/{userID}/admin
func (db *DBHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	target, ok := db.targetUser(w, r, "SetAdmin")
	if !ok {
		return
	}
	var req struct {
		IsAdmin bool
	}
	if !decode(w, r, "SetAdmin", &req) {
		return
	}
	if err := db.WithContext(r.Context()).Model(target).Update("is_admin", req.IsAdmin).Error; err != nil {
		fail(w, "SetAdmin", err)
		return
	}
	log.Info().Str("user", target.PublicID).Bool("admin", req.IsAdmin).Msg("SetAdmin: role changed")
	utils.WriteJSON(w, http.StatusOK, target)
}

// PUT /api/admin/users/{userID}/block
func (db *DBHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	target, ok := db.targetUser(w, r, "SetBlocked")
	if !ok {
		return
	}
	var req struct {
		IsBlocked bool
	}
	if !decode(w, r, "SetBlocked", &req) {
		return
	}
	if err := db.WithContext(r.Context()).Model(target).Update("is_blocked", req.IsBlocked).Error; err != nil {
		fail(w, "SetBlocked", err)
		return
	}
	log.Info().Str("user", target.PublicID).Bool("blocked", req.IsBlocked).Msg("SetBlocked: status changed")
	utils.WriteJSON(w, http.StatusOK, target)
}

// DELETE /api/admin/users/{userID}
func (db *DBHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	target, ok := db.targetUser(w, r, "DeleteUser")
	if !ok {
		return
	}
	err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.Template{}).Error; err != nil {
			return err
		}
		return tx.Delete(target).Error
	})
	if err != nil {
		fail(w, "DeleteUser", err)
		return
	}
	log.Info().Str("user", target.PublicID).Msg("DeleteUser: successfully deleted")
	w.WriteHeader(http.StatusNoContent)
}
