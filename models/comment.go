package models

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Comment is a message left on a template
type Comment struct {
	gorm.Model
	TemplateID uint   `gorm:"not null;index"`
	UserID     uint   `gorm:"not null;index"`
	User       Author `gorm:"foreignKey:UserID"`
	Content    string `gorm:"not null;size:2000"`
}

const MaxCommentLength = 2000

func (c *Comment) Validate() error {
	c.Content = strings.TrimSpace(c.Content)
	if c.Content == "" {
		return &ValidationError{Field: "Content", Message: "comment cannot be empty"}
	}
	if utf8.RuneCountInString(c.Content) > MaxCommentLength {
		return &ValidationError{Field: "Content", Message: "comment is too long"}
	}
	return nil
}
