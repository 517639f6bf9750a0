package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/andrewpaige1/formbook-api/models"
	"github.com/andrewpaige1/formbook-api/utils"
	"gorm.io/gorm"
)

const searchLimit = 50

type SearchResult struct {
	models.Template
	Score int
}

// Search weights per matching term.
const (
	titleWeight       = 3
	tagWeight         = 2
	descriptionWeight = 1
	questionWeight    = 1
)

// GET /api/search?q=&tags=
func (db *DBHandler) SearchTemplates(w http.ResponseWriter, r *http.Request) {
	terms := searchTerms(r.URL.Query().Get("q"))
	tags := utils.SplitList(r.URL.Query().Get("tags"))
	user, _ := utils.CurrentUser(r)

	results, err := searchTemplates(r.Context(), db.DB, terms, tags, user)
	if err != nil {
		fail(w, "SearchTemplates", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, results)
}

func searchTerms(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func searchTemplates(ctx context.Context, db *gorm.DB, terms, tags []string, user *models.User) ([]SearchResult, error) {
	results := []SearchResult{}
	if len(terms) == 0 && len(tags) == 0 {
		return results, nil
	}

	query := db.WithContext(ctx).Model(&models.Template{}).
		Preload("User").Preload("Topic").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("name") }).
		Preload("Questions", orderedQuestions)

	if user != nil {
		query = query.Where("templates.is_public = ? OR templates.user_id = ?", true, user.ID)
	} else {
		query = query.Where("templates.is_public = ?", true)
	}

	if len(tags) > 0 {
		query = query.Where("templates.id IN (?)", db.Table("template_tags").
			Select("template_tags.template_id").
			Joins("JOIN tags ON tags.id = template_tags.tag_id").
			Where("tags.name IN ?", tags).
			Group("template_tags.template_id").
			Having("COUNT(DISTINCT tags.id) = ?", len(tags)))
	}

	if len(terms) > 0 {
		match := db.Where("1 = 0")
		for _, term := range terms {
			pattern := "%" + escapeLike(term) + "%"
			match = match.
				Or("LOWER(templates.title) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(templates.description) LIKE ? ESCAPE '\\'", pattern).
				Or("templates.id IN (?)", db.Model(&models.Question{}).
					Select("template_id").
					Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern)).
				Or("templates.id IN (?)", db.Table("template_tags").
					Select("template_tags.template_id").
					Joins("JOIN tags ON tags.id = template_tags.tag_id").
					Where("LOWER(tags.name) LIKE ? ESCAPE '\\'", pattern))
		}
		query = query.Where(match)
	}

	// every candidate is scored; the limit applies to the ranked list
	var templates []models.Template
	if err := query.Order("templates.created_at DESC").Order("templates.id DESC").Find(&templates).Error; err != nil {
		return nil, err
	}

	for _, tpl := range templates {
		results = append(results, SearchResult{Template: tpl, Score: scoreTemplate(&tpl, terms)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}
	return results, nil
}

// scoreTemplate ranks a candidate by where each term occurs.
func scoreTemplate(tpl *models.Template, terms []string) int {
	score := 0
	title := strings.ToLower(tpl.Title)
	desc := strings.ToLower(tpl.Description)
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(desc, term) {
			score += descriptionWeight
		}
		for _, tag := range tpl.Tags {
			if strings.Contains(strings.ToLower(tag.Name), term) {
				score += tagWeight
				break
			}
		}
		for _, q := range tpl.Questions {
			if strings.Contains(strings.ToLower(q.Title), term) {
				score += questionWeight
				break
			}
		}
	}
	return score
}
