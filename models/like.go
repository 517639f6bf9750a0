package models

import "time"

type Like struct {
	ID         uint      `gorm:"primaryKey"`
	TemplateID uint      `gorm:"not null;uniqueIndex:idx_like_template_user"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_like_template_user"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
