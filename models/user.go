package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	gorm.Model
	PublicID     string     `gorm:"size:36;uniqueIndex;not null"` // token subject
	Email        string     `gorm:"uniqueIndex;not null;size:255"`
	Name         string     `gorm:"size:100"`
	PasswordHash []byte     `gorm:"not null" json:"-"`
	IsAdmin      bool       `gorm:"default:false"`
	IsBlocked    bool       `gorm:"default:false"`
	LastSignInAt *time.Time `gorm:"default:null"`

	Templates []Template `gorm:"foreignKey:UserID" json:"-"`
}

// Author is the public view of a user, shown next to templates, comments
// and forms. It reads the users table directly, so authors of comments stay
// visible after their account is deleted.
type Author struct {
	ID       uint `json:"-"`
	PublicID string
	Email    string
	Name     string
}

func (Author) TableName() string { return "users" }

func (u *User) Author() Author {
	return Author{ID: u.ID, PublicID: u.PublicID, Email: u.Email, Name: u.Name}
}
