package models

import (
	"strings"
	"unicode/utf8"
)

// Tag is a free-text label shared between templates.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null;size:50"`
}

const (
	MaxTagsPerTemplate = 5
	MaxTagLength       = 50
)

// NormalizeTags trims names and drops blanks and duplicates, keeping the
// first occurrence order.
func NormalizeTags(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if utf8.RuneCountInString(n) > MaxTagLength {
			return nil, &ValidationError{Field: "Tags", Message: "tag \"" + n + "\" is too long"}
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) > MaxTagsPerTemplate {
		return nil, ErrTooManyTags
	}
	return out, nil
}
