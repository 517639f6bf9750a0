package models

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Form is one user's submitted answers against a template
type Form struct {
	gorm.Model
	PublicID   string   `gorm:"size:21;uniqueIndex"`
	TemplateID uint     `gorm:"not null;index"`
	Template   Template `gorm:"foreignKey:TemplateID" json:"-"`
	UserID     uint     `gorm:"not null;index"`
	User       Author   `gorm:"foreignKey:UserID"`
	Answers    []Answer `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE;"`
}

// Answer holds the string encoding of one question's value.
type Answer struct {
	gorm.Model
	FormID     uint   `gorm:"not null;index"`
	QuestionID uint   `gorm:"not null;index"`
	Value      string `gorm:"type:text"`
}

// BuildAnswers validates raw values against the template's questions and
// returns one answer per question in question order. Questions without a
// value get an empty answer.
func BuildAnswers(questions []Question, values map[uint]string) ([]Answer, error) {
	known := make(map[uint]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	for id := range values {
		if _, ok := known[id]; !ok {
			return nil, ErrUnknownQuestion
		}
	}

	answers := make([]Answer, 0, len(questions))
	for _, q := range questions {
		v, err := normalizeAnswer(q, values[q.ID])
		if err != nil {
			return nil, err
		}
		answers = append(answers, Answer{QuestionID: q.ID, Value: v})
	}
	return answers, nil
}

func normalizeAnswer(q Question, raw string) (string, error) {
	switch q.QuestionType {
	case Integer:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return "", nil
		}
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return "", &ValidationError{Field: q.Title, Message: "must be a whole number"}
		}
		return raw, nil
	case Checkbox:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "", "false":
			return "false", nil
		case "true":
			return "true", nil
		}
		return "", &ValidationError{Field: q.Title, Message: "must be true or false"}
	case SingleLine:
		if strings.ContainsAny(raw, "\r\n") {
			return "", &ValidationError{Field: q.Title, Message: "must be a single line"}
		}
		return strings.TrimSpace(raw), nil
	default:
		return raw, nil
	}
}
