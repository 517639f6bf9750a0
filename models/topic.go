package models

// Topic is the single-select category of a template.
type Topic struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null;size:100"`
}
