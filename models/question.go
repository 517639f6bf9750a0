package models

import (
	"sort"
	"strings"

	"gorm.io/gorm"
)

type QuestionType string

const (
	SingleLine QuestionType = "single_line"
	MultiLine  QuestionType = "multi_line"
	Integer    QuestionType = "integer"
	Checkbox   QuestionType = "checkbox"
)

// MaxQuestionsPerType caps how many questions of one type a template holds.
const MaxQuestionsPerType = 4

func (qt QuestionType) Valid() bool {
	switch qt {
	case SingleLine, MultiLine, Integer, Checkbox:
		return true
	}
	return false
}

// Question is a typed field of a template
type Question struct {
	gorm.Model
	TemplateID   uint         `gorm:"not null;index"`
	Title        string       `gorm:"not null;size:200"`
	Description  string       `gorm:"size:1000"`
	QuestionType QuestionType `gorm:"not null;size:20"`
	ShowInTable  bool         `gorm:"default:false"`
	OrderIndex   int          `gorm:"not null;default:0"`
}

// ValidateQuestions checks titles, types and the per-type limit, then
// rewrites OrderIndex to match slice position.
func ValidateQuestions(questions []Question) error {
	perType := make(map[QuestionType]int)
	for i := range questions {
		q := &questions[i]
		q.Title = strings.TrimSpace(q.Title)
		if q.Title == "" {
			return &ValidationError{Field: "Questions", Message: "every question needs a title"}
		}
		if !q.QuestionType.Valid() {
			return &ValidationError{Field: "Questions", Message: "unknown question type \"" + string(q.QuestionType) + "\""}
		}
		perType[q.QuestionType]++
		if perType[q.QuestionType] > MaxQuestionsPerType {
			return &ValidationError{Field: "Questions", Message: "maximum 4 " + string(q.QuestionType) + " questions allowed"}
		}
	}
	Reindex(questions)
	return nil
}

// Reindex assigns OrderIndex 0..n-1 in slice order.
func Reindex(questions []Question) {
	for i := range questions {
		questions[i].OrderIndex = i
	}
}

// SortByOrder orders questions by OrderIndex, falling back to ID.
func SortByOrder(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].OrderIndex != questions[j].OrderIndex {
			return questions[i].OrderIndex < questions[j].OrderIndex
		}
		return questions[i].ID < questions[j].ID
	})
}

// MoveQuestion moves the question at index from to index to, shifting the
// ones in between, and reindexes the result. The input is not modified.
func MoveQuestion(questions []Question, from, to int) ([]Question, error) {
	n := len(questions)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, ErrIndexOutOfRange
	}
	out := make([]Question, 0, n)
	out = append(out, questions[:from]...)
	out = append(out, questions[from+1:]...)
	moved := questions[from]
	out = append(out[:to], append([]Question{moved}, out[to:]...)...)
	Reindex(out)
	return out, nil
}

// ApplyOrder reorders questions to follow ids, which must name every
// question exactly once.
func ApplyOrder(questions []Question, ids []uint) ([]Question, error) {
	if len(ids) != len(questions) {
		return nil, ErrInvalidPermutation
	}
	byID := make(map[uint]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, ErrInvalidPermutation
		}
		delete(byID, id)
		out = append(out, q)
	}
	Reindex(out)
	return out, nil
}
