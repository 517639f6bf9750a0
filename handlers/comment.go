package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/clause"
)

// viewableTemplate loads the template and checks read access.
func (db *DBHandler) viewableTemplate(w http.ResponseWriter, r *http.Request, op string) (*models.Template, bool) {
	tpl, err := db.findTemplate(r.Context(), r.PathValue("templateID"))
	if err != nil {
		fail(w, op, err)
		return nil, false
	}
	user, _ := utils.CurrentUser(r)
	if !tpl.CanView(user) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return tpl, true
}

// GET /api/templates/{templateID}/comments
func (db *DBHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.viewableTemplate(w, r, "GetComments")
	if !ok {
		return
	}
	comments := []models.Comment{}
	err := db.WithContext(r.Context()).
		Preload("User").
		Where("template_id = ?", tpl.ID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		fail(w, "GetComments", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, comments)
}

// POST /api/templates/{templateID}/comments
func (db *DBHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.viewableTemplate(w, r, "CreateComment")
	if !ok {
		return
	}
	user, _ := utils.CurrentUser(r)

	var req struct {
		Content string
	}
	if !decode(w, r, "CreateComment", &req) {
		return
	}
	comment := models.Comment{TemplateID: tpl.ID, UserID: user.ID, Content: utils.PlainText(req.Content)}
	if err := comment.Validate(); err != nil {
		fail(w, "CreateComment", err)
		return
	}
	if err := db.WithContext(r.Context()).Omit("User").Create(&comment).Error; err != nil {
		fail(w, "CreateComment", err)
		return
	}
	comment.User = user.Author()

	if db.Hub != nil {
		payload, err := json.Marshal(comment)
		if err != nil {
			log.Error().Err(err).Msg("CreateComment: could not encode live event")
		} else {
			n := db.Hub.Publish(tpl.ID, payload)
			log.Debug().Str("template", tpl.PublicID).Int("subscribers", n).Msg("CreateComment: published")
		}
	}
	utils.WriteJSON(w, http.StatusCreated, comment)
}

// GET /api/templates/{templateID}/comments/live
func (db *DBHandler) LiveComments(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.viewableTemplate(w, r, "LiveComments")
	if !ok {
		return
	}
	db.Hub.ServeWS(w, r, tpl.ID)
}

type likeResponse struct {
	Likes int64
	Liked bool
}

func (db *DBHandler) writeLikes(w http.ResponseWriter, r *http.Request, op string, tpl *models.Template, liked bool) {
	var resp likeResponse
	resp.Liked = liked
	if err := db.WithContext(r.Context()).Model(&models.Like{}).Where("template_id = ?", tpl.ID).Count(&resp.Likes).Error; err != nil {
		fail(w, op, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// POST /api/templates/{templateID}/like
func (db *DBHandler) LikeTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.viewableTemplate(w, r, "LikeTemplate")
	if !ok {
		return
	}
	user, _ := utils.CurrentUser(r)
	like := models.Like{TemplateID: tpl.ID, UserID: user.ID}
	if err := db.WithContext(r.Context()).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		fail(w, "LikeTemplate", err)
		return
	}
	db.writeLikes(w, r, "LikeTemplate", tpl, true)
}

// DELETE /api/templates/{templateID}/like
func (db *DBHandler) UnlikeTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.viewableTemplate(w, r, "UnlikeTemplate")
	if !ok {
		return
	}
	user, _ := utils.CurrentUser(r)
	err := db.WithContext(r.Context()).
		Where("template_id = ? AND user_id = ?", tpl.ID, user.ID).
		Delete(&models.Like{}).Error
	if err != nil {
		fail(w, "UnlikeTemplate", err)
		return
	}
	db.writeLikes(w, r, "UnlikeTemplate", tpl, false)
}
