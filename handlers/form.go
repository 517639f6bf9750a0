package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type answersInput struct {
	Answers map[uint]interface{}
}

// values converts JSON answer values to their stored string form.
func (in answersInput) values() (map[uint]string, error) {
	out := make(map[uint]string, len(in.Answers))
	for id, v := range in.Answers {
		switch val := v.(type) {
		case nil:
			out[id] = ""
		case string:
			out[id] = val
		case bool:
			out[id] = strconv.FormatBool(val)
		case float64:
			out[id] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return nil, &models.ValidationError{Field: "Answers", Message: fmt.Sprintf("unsupported value for question %d", id)}
		}
	}
	return out, nil
}

type FormResponse struct {
	models.Form
	TemplateID string
	Questions  []models.Question
}

func (db *DBHandler) findForm(r *http.Request) (*models.Form, error) {
	publicID := r.PathValue("formID")
	var form models.Form
	err := db.WithContext(r.Context()).
		Preload("User").
		Preload("Answers").
		Preload("Template.Questions", orderedQuestions).
		Where("public_id = ?", publicID).
		First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(fmt.Sprintf("Form with ID %s not found", publicID))
	}
	if err != nil {
		return nil, err
	}
	if form.Template.ID == 0 {
		// template was deleted
		return nil, notFoundError(fmt.Sprintf("Form with ID %s not found", publicID))
	}
	return &form, nil
}

func formResponse(form *models.Form) FormResponse {
	return FormResponse{Form: *form, TemplateID: form.Template.PublicID, Questions: form.Template.Questions}
}

// POST /api/templates/{templateID}/forms
func (db *DBHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.CurrentUser(r)
	tpl, err := db.findTemplate(r.Context(), r.PathValue("templateID"))
	if err != nil {
		fail(w, "SubmitForm", err)
		return
	}
	if !tpl.CanFill(user) {
		log.Info().Str("template", tpl.PublicID).Uint("user", user.ID).Msg("SubmitForm: not allowed to fill")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req answersInput
	if !decode(w, r, "SubmitForm", &req) {
		return
	}
	values, err := req.values()
	if err != nil {
		fail(w, "SubmitForm", err)
		return
	}
	answers, err := models.BuildAnswers(tpl.Questions, values)
	if err != nil {
		fail(w, "SubmitForm", err)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		log.Error().Err(err).Msg("SubmitForm: failed to generate publicID")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	form := models.Form{
		PublicID:   publicID,
		TemplateID: tpl.ID,
		UserID:     user.ID,
		Answers:    answers,
	}
	if err := db.WithContext(r.Context()).Omit("User", "Template").Create(&form).Error; err != nil {
		fail(w, "SubmitForm", err)
		return
	}

	log.Info().Str("form", form.PublicID).Str("template", tpl.PublicID).Msg("SubmitForm: form submitted")
	form.User = user.Author()
	form.Template = *tpl
	utils.WriteJSON(w, http.StatusCreated, formResponse(&form))
}

// GET /api/forms/{formID}
func (db *DBHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	form, err := db.findForm(r)
	if err != nil {
		fail(w, "GetForm", err)
		return
	}
	user, _ := utils.CurrentUser(r)
	if form.UserID != user.ID && !form.Template.CanManage(user) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	utils.WriteJSON(w, http.StatusOK, formResponse(form))
}

// PUT /api/forms/{formID}
func (db *DBHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	form, err := db.findForm(r)
	if err != nil {
		fail(w, "UpdateForm", err)
		return
	}
	user, _ := utils.CurrentUser(r)
	if form.UserID != user.ID && !user.IsAdmin {
		log.Warn().Str("form", form.PublicID).Uint("user", user.ID).Msg("UpdateForm: unauthorized update attempt")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req answersInput
	if !decode(w, r, "UpdateForm", &req) {
		return
	}
	values, err := req.values()
	if err != nil {
		fail(w, "UpdateForm", err)
		return
	}
	answers, err := models.BuildAnswers(form.Template.Questions, values)
	if err != nil {
		fail(w, "UpdateForm", err)
		return
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("form_id = ?", form.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].FormID = form.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Form{}).Where("id = ?", form.ID).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		fail(w, "UpdateForm", err)
		return
	}

	form.Answers = answers
	log.Info().Str("form", form.PublicID).Msg("UpdateForm: successfully updated")
	utils.WriteJSON(w, http.StatusOK, formResponse(form))
}

// DELETE /api/forms/{formID}
func (db *DBHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	form, err := db.findForm(r)
	if err != nil {
		fail(w, "DeleteForm", err)
		return
	}
	user, _ := utils.CurrentUser(r)
	if form.UserID != user.ID && !form.Template.CanManage(user) {
		log.Warn().Str("form", form.PublicID).Uint("user", user.ID).Msg("DeleteForm: unauthorized delete attempt")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if err := db.WithContext(r.Context()).Delete(&models.Form{}, form.ID).Error; err != nil {
		fail(w, "DeleteForm", err)
		return
	}
	log.Info().Str("form", form.PublicID).Msg("DeleteForm: successfully deleted")
	w.WriteHeader(http.StatusNoContent)
}

type ResultRow struct {
	FormID      string
	SubmittedAt time.Time
	User        string
	Values      map[uint]string
}

type ResultsTable struct {
	Columns []models.Question
	Rows    []ResultRow
}

// GET /api/templates/{templateID}/forms
func (db *DBHandler) GetTemplateForms(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.manageableTemplate(w, r, "GetTemplateForms")
	if !ok {
		return
	}

	table := ResultsTable{Columns: []models.Question{}, Rows: []ResultRow{}}
	shown := make(map[uint]struct{})
	for _, q := range tpl.Questions {
		if q.ShowInTable {
			table.Columns = append(table.Columns, q)
			shown[q.ID] = struct{}{}
		}
	}

	var forms []models.Form
	err := db.WithContext(r.Context()).
		Preload("User").
		Preload("Answers").
		Where("template_id = ?", tpl.ID).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		fail(w, "GetTemplateForms", err)
		return
	}

	for _, f := range forms {
		row := ResultRow{FormID: f.PublicID, SubmittedAt: f.CreatedAt, User: f.User.Email, Values: map[uint]string{}}
		for _, a := range f.Answers {
			if _, ok := shown[a.QuestionID]; ok {
				row.Values[a.QuestionID] = a.Value
			}
		}
		table.Rows = append(table.Rows, row)
	}
	utils.WriteJSON(w, http.StatusOK, table)
}

// GET /api/templates/{templateID}/results
func (db *DBHandler) GetTemplateResults(w http.ResponseWriter, r *http.Request) {
	tpl, ok := db.manageableTemplate(w, r, "GetTemplateResults")
	if !ok {
		return
	}

	var answers []models.Answer
	err := db.WithContext(r.Context()).
		Joins("JOIN forms ON forms.id = answers.form_id AND forms.deleted_at IS NULL").
		Where("forms.template_id = ?", tpl.ID).
		Find(&answers).Error
	if err != nil {
		fail(w, "GetTemplateResults", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.Summarize(tpl.Questions, answers))
}

type UserFormRow struct {
	FormID        string
	SubmittedAt   time.Time
	TemplateID    string
	TemplateTitle string
	TemplateOwner string
}

var myFormSorts = map[string]string{
	"submitted_at": "forms.created_at",
	"template":     "templates.title",
	"owner":        "users.email",
}

// GET /api/me/forms
func (db *DBHandler) GetMyForms(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.CurrentUser(r)
	sort := utils.ParseSort(r, myFormSorts, utils.SortSpec{Column: "forms.created_at", Desc: true})

	rows := []UserFormRow{}
	err := db.WithContext(r.Context()).Model(&models.Form{}).
		Select("forms.public_id AS form_id, forms.created_at AS submitted_at, "+
			"templates.public_id AS template_id, templates.title AS template_title, users.email AS template_owner").
		Joins("JOIN templates ON templates.id = forms.template_id AND templates.deleted_at IS NULL").
		Joins("JOIN users ON users.id = templates.user_id").
		Where("forms.user_id = ?", user.ID).
		Order(sort.OrderBy()).
		Scan(&rows).Error
	if err != nil {
		fail(w, "GetMyForms", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}
