package handlers

import (
	"net/http"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// manageableTemplate loads the template and checks that the caller may
// edit it, writing the error response when not.
func (db *DBHandler) manageableTemplate(w http.ResponseWriter, r *http.Request, op string) (*models.Template, bool) {
	tpl, err := db.findTemplate(r.Context(), r.PathValue("templateID"))
	if err != nil {
		fail(w, op, err)
		return nil, false
	}
	user, _ := utils.CurrentUser(r)
	if !tpl.CanManage(user) {
		log.Warn().Str("template", tpl.PublicID).Uint("user", user.ID).Msg(op + ": forbidden")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return tpl, true
}

func saveOrder(tx *gorm.DB, questions []models.Question) error {
	for _, q := range questions {
		err := tx.Model(&models.Question{}).Where("id = ?", q.ID).Update("order_index", q.OrderIndex).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// PUT /api/templates/{templateID}/questions/order
func (db *DBHandler) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.manageableTemplate(w, r, "ReorderQuestions")
	if !ok {
		return
	}

	var req struct {
		QuestionIDs []uint
	}
	if !decode(w, r, "ReorderQuestions", &req) {
		return
	}

	ordered, err := models.ApplyOrder(tpl.Questions, req.QuestionIDs)
	if err != nil {
		fail(w, "ReorderQuestions", err)
		return
	}
	if err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		return saveOrder(tx, ordered)
	}); err != nil {
		fail(w, "ReorderQuestions", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ordered)
}

// POST /api/templates/{templateID}/questions/move
func (db *DBHandler) MoveQuestion(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.manageableTemplate(w, r, "MoveQuestion")
	if !ok {
		return
	}

	var req struct {
		From int
		To   int
	}
	if !decode(w, r, "MoveQuestion", &req) {
		return
	}

	moved, err := models.MoveQuestion(tpl.Questions, req.From, req.To)
	if err != nil {
		fail(w, "MoveQuestion", err)
		return
	}
	if err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		return saveOrder(tx, moved)
	}); err != nil {
		fail(w, "MoveQuestion", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, moved)
}
