package models

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// Template is a reusable form definition
type Template struct {
	gorm.Model
	PublicID    string `gorm:"size:21;uniqueIndex"`
	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"` // markdown
	ImageURL    string `gorm:"size:500"`
	IsPublic    bool   `gorm:"not null"`

	UserID  uint   `gorm:"not null;index"`
	User    Author `gorm:"foreignKey:UserID"`
	TopicID uint   `gorm:"not null;index"`
	Topic   Topic  `gorm:"foreignKey:TopicID"`

	Tags         []Tag      `gorm:"many2many:template_tags;"`
	Questions    []Question `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE;"`
	AllowedUsers []User     `gorm:"many2many:template_access;" json:",omitempty"`
}

const MaxTitleLength = 200

// ValidateHeader checks the fields a template cannot be saved without.
func (t *Template) ValidateHeader() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return &ValidationError{Field: "Title", Message: "title is required"}
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return &ValidationError{Field: "Title", Message: "title is too long"}
	}
	if t.TopicID == 0 {
		return &ValidationError{Field: "TopicID", Message: "please select a topic"}
	}
	return nil
}

// IsOwnedBy reports whether u created the template.
func (t *Template) IsOwnedBy(u *User) bool {
	return u != nil && t.UserID == u.ID
}

// CanManage reports whether u may edit or delete the template.
func (t *Template) CanManage(u *User) bool {
	return u != nil && (u.IsAdmin || t.UserID == u.ID)
}

// CanView reports whether u may read the template. Private templates are
// visible to the owner, admins and users on the access list, which must be
// preloaded.
func (t *Template) CanView(u *User) bool {
	if t.IsPublic {
		return true
	}
	if u == nil {
		return false
	}
	if t.CanManage(u) {
		return true
	}
	for _, allowed := range t.AllowedUsers {
		if allowed.ID == u.ID {
			return true
		}
	}
	return false
}

// CanFill reports whether u may submit a form for the template.
func (t *Template) CanFill(u *User) bool {
	return u != nil && !u.IsBlocked && t.CanView(u)
}
