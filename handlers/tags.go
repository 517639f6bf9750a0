package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"gorm.io/gorm"
)

const tagSuggestLimit = 5

type TagCount struct {
	ID    uint
	Name  string
	Count int64
}

// GET /api/topics
func (db *DBHandler) GetTopics(w http.ResponseWriter, r *http.Request) {
	var topics []models.Topic
	if err := db.WithContext(r.Context()).Order("name").Find(&topics).Error; err != nil {
		fail(w, "GetTopics", err)
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	utils.WriteJSON(w, http.StatusOK, topics)
}

// GET /api/tags
func (db *DBHandler) GetTagCloud(w http.ResponseWriter, r *http.Request) {
	tags, err := tagCloud(r.Context(), db.DB)
	if err != nil {
		fail(w, "GetTagCloud", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tags)
}

// tagCloud counts public templates per tag.
func tagCloud(ctx context.Context, db *gorm.DB) ([]TagCount, error) {
	tags := []TagCount{}
	err := db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name, COUNT(DISTINCT templates.id) AS count").
		Joins("JOIN template_tags ON template_tags.tag_id = tags.id").
		Joins("JOIN templates ON templates.id = template_tags.template_id AND templates.deleted_at IS NULL AND templates.is_public = ?", true).
		Group("tags.id, tags.name").
		Order("tags.name").
		Scan(&tags).Error
	return tags, err
}

// GET /api/tags/suggest?q=
func (db *DBHandler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	tags := []models.Tag{}
	if prefix == "" {
		utils.WriteJSON(w, http.StatusOK, tags)
		return
	}

	err := db.WithContext(r.Context()).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("name").
		Limit(tagSuggestLimit).
		Find(&tags).Error
	if err != nil {
		fail(w, "SuggestTags", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tags)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// resolveTags finds or creates each tag by name.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag := models.Tag{Name: name}
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
