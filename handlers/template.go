package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	latestLimit  = 10
	popularLimit = 5
)

type questionInput struct {
	ID           uint
	Title        string
	Description  string
	QuestionType models.QuestionType
	ShowInTable  bool
}

type templateInput struct {
	Title        string
	Description  string
	ImageURL     string
	TopicID      uint
	IsPublic     *bool
	Tags         []string
	Questions    []questionInput
	AllowedUsers *[]string // emails; nil leaves the list untouched
}

type TemplateResponse struct {
	models.Template
	Likes      int64
	LikedByMe  bool
	IsOwner    bool
	CanFill    bool
	FormsCount int64
}

func orderedQuestions(tx *gorm.DB) *gorm.DB {
	return tx.Order("order_index ASC, id ASC")
}

// findTemplate loads a template by public id with everything the detail
// view and the access checks need.
func (db *DBHandler) findTemplate(ctx context.Context, publicID string) (*models.Template, error) {
	var tpl models.Template
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Topic").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("name") }).
		Preload("Questions", orderedQuestions).
		Preload("AllowedUsers").
		Where("public_id = ?", publicID).
		First(&tpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError(fmt.Sprintf("Template with ID %s not found", publicID))
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// resolveUsers maps access-list emails to users.
func resolveUsers(tx *gorm.DB, emails []string) ([]models.User, error) {
	users := []models.User{}
	if len(emails) == 0 {
		return users, nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			normalized = append(normalized, e)
		}
	}
	if err := tx.Where("email IN ?", normalized).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(normalized) {
		return nil, &models.ValidationError{Field: "AllowedUsers", Message: "unknown user in access list"}
	}
	return users, nil
}

func (in *templateInput) header(tpl *models.Template) error {
	tpl.Title = utils.PlainText(in.Title)
	tpl.Description = strings.TrimSpace(in.Description)
	tpl.ImageURL = strings.TrimSpace(in.ImageURL)
	tpl.TopicID = in.TopicID
	if in.IsPublic != nil {
		tpl.IsPublic = *in.IsPublic
	}
	return tpl.ValidateHeader()
}

func (db *DBHandler) checkTopic(ctx context.Context, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Topic{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &models.ValidationError{Field: "TopicID", Message: "unknown topic"}
	}
	return nil
}

// POST /api/templates
func (db *DBHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.CurrentUser(r)

	var req templateInput
	if !decode(w, r, "CreateTemplate", &req) {
		return
	}

	tpl := models.Template{UserID: user.ID, IsPublic: true}
	if err := req.header(&tpl); err != nil {
		fail(w, "CreateTemplate", err)
		return
	}
	if err := db.checkTopic(r.Context(), tpl.TopicID); err != nil {
		fail(w, "CreateTemplate", err)
		return
	}
	tagNames, err := models.NormalizeTags(req.Tags)
	if err != nil {
		fail(w, "CreateTemplate", err)
		return
	}
	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, models.Question{
			Title:        utils.PlainText(q.Title),
			Description:  strings.TrimSpace(q.Description),
			QuestionType: q.QuestionType,
			ShowInTable:  q.ShowInTable,
		})
	}
	if err := models.ValidateQuestions(questions); err != nil {
		fail(w, "CreateTemplate", err)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		log.Error().Err(err).Msg("CreateTemplate: failed to generate publicID")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	tpl.PublicID = publicID
	tpl.Questions = questions

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if tpl.Tags, err = resolveTags(tx, tagNames); err != nil {
			return err
		}
		if req.AllowedUsers != nil {
			if tpl.AllowedUsers, err = resolveUsers(tx, *req.AllowedUsers); err != nil {
				return err
			}
		}
		return tx.Create(&tpl).Error
	})
	if err != nil {
		fail(w, "CreateTemplate", err)
		return
	}

	log.Info().Str("template", tpl.PublicID).Uint("user", user.ID).Msg("CreateTemplate: created template")
	created, err := db.findTemplate(r.Context(), tpl.PublicID)
	if err != nil {
		fail(w, "CreateTemplate", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, db.templateResponse(r.Context(), created, user))
}

func (db *DBHandler) templateResponse(ctx context.Context, tpl *models.Template, user *models.User) TemplateResponse {
	resp := TemplateResponse{
		Template: *tpl,
		IsOwner:  tpl.IsOwnedBy(user),
		CanFill:  tpl.CanFill(user),
	}
	if !tpl.CanManage(user) {
		resp.AllowedUsers = nil
	}

	q := db.WithContext(ctx)
	if err := q.Model(&models.Like{}).Where("template_id = ?", tpl.ID).Count(&resp.Likes).Error; err != nil {
		log.Warn().Err(err).Str("template", tpl.PublicID).Msg("templateResponse: like count failed")
	}
	if err := q.Model(&models.Form{}).Where("template_id = ?", tpl.ID).Count(&resp.FormsCount).Error; err != nil {
		log.Warn().Err(err).Str("template", tpl.PublicID).Msg("templateResponse: form count failed")
	}
	if user != nil {
		var liked int64
		q.Model(&models.Like{}).Where("template_id = ? AND user_id = ?", tpl.ID, user.ID).Count(&liked)
		resp.LikedByMe = liked > 0
	}
	return resp
}

// GET /api/templates/{templateID}
func (db *DBHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("templateID")
	tpl, err := db.findTemplate(r.Context(), publicID)
	if err != nil {
		fail(w, "GetTemplate", err)
		return
	}

	user, _ := utils.CurrentUser(r)
	if !tpl.CanView(user) {
		log.Info().Str("template", publicID).Msg("GetTemplate: forbidden access to private template")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	utils.WriteJSON(w, http.StatusOK, db.templateResponse(r.Context(), tpl, user))
}

// PUT /api/templates/{templateID}
func (db *DBHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("templateID")
	user, _ := utils.CurrentUser(r)

	tpl, err := db.findTemplate(r.Context(), publicID)
	if err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}
	if !tpl.CanManage(user) {
		log.Warn().Str("template", publicID).Uint("user", user.ID).Msg("UpdateTemplate: unauthorized update attempt")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req templateInput
	if !decode(w, r, "UpdateTemplate", &req) {
		return
	}
	if err := req.header(tpl); err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}
	if err := db.checkTopic(r.Context(), tpl.TopicID); err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}
	tagNames, err := models.NormalizeTags(req.Tags)
	if err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}
	questions, err := reconcileQuestions(tpl.Questions, req.Questions)
	if err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Template{}).Where("id = ?", tpl.ID).Updates(map[string]interface{}{
			"title":       tpl.Title,
			"description": tpl.Description,
			"image_url":   tpl.ImageURL,
			"topic_id":    tpl.TopicID,
			"is_public":   tpl.IsPublic,
		}).Error; err != nil {
			return err
		}
		if err := saveQuestions(tx, tpl.ID, questions); err != nil {
			return err
		}

		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		if err := replaceAssociation(tx, tpl, "Tags", tags); err != nil {
			return err
		}

		if req.AllowedUsers != nil {
			users, err := resolveUsers(tx, *req.AllowedUsers)
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, tpl, "AllowedUsers", users); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}

	log.Info().Str("template", publicID).Msg("UpdateTemplate: successfully updated")
	updated, err := db.findTemplate(r.Context(), publicID)
	if err != nil {
		fail(w, "UpdateTemplate", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, db.templateResponse(r.Context(), updated, user))
}

func replaceAssociation[T any](tx *gorm.DB, tpl *models.Template, name string, values []T) error {
	assoc := tx.Model(tpl).Association(name)
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

// reconcileQuestions merges the submitted list with the stored one: known
// IDs are updated, zero IDs are new, stored questions not listed are
// dropped. The result is validated and in submitted order.
func reconcileQuestions(existing []models.Question, input []questionInput) ([]models.Question, error) {
	byID := make(map[uint]models.Question, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	out := make([]models.Question, 0, len(input))
	seen := make(map[uint]struct{}, len(input))
	for _, in := range input {
		q := models.Question{}
		if in.ID != 0 {
			stored, ok := byID[in.ID]
			if !ok {
				return nil, &models.ValidationError{Field: "Questions", Message: fmt.Sprintf("question %d does not belong to this template", in.ID)}
			}
			if _, dup := seen[in.ID]; dup {
				return nil, &models.ValidationError{Field: "Questions", Message: fmt.Sprintf("question %d listed twice", in.ID)}
			}
			seen[in.ID] = struct{}{}
			q = stored
		}
		q.Title = utils.PlainText(in.Title)
		q.Description = strings.TrimSpace(in.Description)
		q.QuestionType = in.QuestionType
		q.ShowInTable = in.ShowInTable
		out = append(out, q)
	}
	if err := models.ValidateQuestions(out); err != nil {
		return nil, err
	}
	return out, nil
}

func saveQuestions(tx *gorm.DB, templateID uint, questions []models.Question) error {
	keep := make([]uint, 0, len(questions))
	for _, q := range questions {
		if q.ID != 0 {
			keep = append(keep, q.ID)
		}
	}
	drop := tx.Where("template_id = ?", templateID)
	if len(keep) > 0 {
		drop = drop.Where("id NOT IN ?", keep)
	}
	if err := drop.Delete(&models.Question{}).Error; err != nil {
		return err
	}

	for i := range questions {
		q := &questions[i]
		if q.ID == 0 {
			q.TemplateID = templateID
			if err := tx.Create(q).Error; err != nil {
				return err
			}
			continue
		}
		err := tx.Model(&models.Question{}).
			Where("id = ? AND template_id = ?", q.ID, templateID).
			Updates(map[string]interface{}{
				"title":         q.Title,
				"description":   q.Description,
				"question_type": q.QuestionType,
				"show_in_table": q.ShowInTable,
				"order_index":   q.OrderIndex,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DELETE /api/templates/{templateID}
func (db *DBHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("templateID")
	user, _ := utils.CurrentUser(r)

	var tpl models.Template
	if err := db.WithContext(r.Context()).Where("public_id = ?", publicID).First(&tpl).Error; err != nil {
		fail(w, "DeleteTemplate", err)
		return
	}
	if !tpl.CanManage(user) {
		log.Warn().Str("template", publicID).Uint("user", user.ID).Msg("DeleteTemplate: unauthorized delete attempt")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	result := db.WithContext(r.Context()).Delete(&tpl)
	if result.Error != nil {
		fail(w, "DeleteTemplate", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, fmt.Sprintf("Template with ID %s not found", publicID), http.StatusNotFound)
		return
	}

	log.Info().Str("template", publicID).Msg("DeleteTemplate: successfully deleted")
	w.WriteHeader(http.StatusNoContent)
}

type TemplateSummary struct {
	models.Template
	FormsCount int64
}

// withFormCounts loads templates by ID with list-view preloads and attaches
// their form counts, keeping the order of ids.
func withFormCounts(ctx context.Context, db *gorm.DB, templates []models.Template) ([]TemplateSummary, error) {
	out := make([]TemplateSummary, 0, len(templates))
	if len(templates) == 0 {
		return out, nil
	}
	ids := make([]uint, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}

	var rows []struct {
		TemplateID uint
		Count      int64
	}
	err := db.WithContext(ctx).Model(&models.Form{}).
		Select("template_id, COUNT(*) AS count").
		Where("template_id IN ?", ids).
		Group("template_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.TemplateID] = row.Count
	}
	for _, t := range templates {
		out = append(out, TemplateSummary{Template: t, FormsCount: counts[t.ID]})
	}
	return out, nil
}

func listPreloads(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User").Preload("Topic").Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("name") })
}

var myTemplateSorts = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"is_public":  "is_public",
}

// GET /api/me/templates
func (db *DBHandler) GetMyTemplates(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.CurrentUser(r)
	sort := utils.ParseSort(r, myTemplateSorts, utils.SortSpec{Column: "created_at", Desc: true})

	var templates []models.Template
	err := listPreloads(db.WithContext(r.Context())).
		Where("user_id = ?", user.ID).
		Order(sort.OrderBy()).
		Find(&templates).Error
	if err != nil {
		fail(w, "GetMyTemplates", err)
		return
	}
	summaries, err := withFormCounts(r.Context(), db.DB, templates)
	if err != nil {
		fail(w, "GetMyTemplates", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summaries)
}

func latestTemplates(ctx context.Context, db *gorm.DB) ([]TemplateSummary, error) {
	var templates []models.Template
	err := listPreloads(db.WithContext(ctx)).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(latestLimit).
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return withFormCounts(ctx, db, templates)
}

// popularTemplates ranks public templates by number of submitted forms.
func popularTemplates(ctx context.Context, db *gorm.DB) ([]TemplateSummary, error) {
	var ranked []struct {
		ID    uint
		Count int64
	}
	err := db.WithContext(ctx).Model(&models.Template{}).
		Select("templates.id AS id, COUNT(forms.id) AS count").
		Joins("LEFT JOIN forms ON forms.template_id = templates.id AND forms.deleted_at IS NULL").
		Where("templates.is_public = ?", true).
		Group("templates.id").
		Order("count DESC, templates.id DESC").
		Limit(popularLimit).
		Scan(&ranked).Error
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return []TemplateSummary{}, nil
	}

	ids := make([]uint, len(ranked))
	for i, row := range ranked {
		ids[i] = row.ID
	}
	var templates []models.Template
	if err := listPreloads(db.WithContext(ctx)).Where("id IN ?", ids).Find(&templates).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	out := make([]TemplateSummary, 0, len(ranked))
	for _, row := range ranked {
		if t, ok := byID[row.ID]; ok {
			out = append(out, TemplateSummary{Template: t, FormsCount: row.Count})
		}
	}
	return out, nil
}

// GET /api/templates/latest
func (db *DBHandler) GetLatestTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := latestTemplates(r.Context(), db.DB)
	if err != nil {
		fail(w, "GetLatestTemplates", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, templates)
}

// GET /api/templates/popular
func (db *DBHandler) GetPopularTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := popularTemplates(r.Context(), db.DB)
	if err != nil {
		fail(w, "GetPopularTemplates", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, templates)
}
