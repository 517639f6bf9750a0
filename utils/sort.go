package utils

import (
	"net/http"
	"strings"

	"gorm.io/gorm/clause"
)

// SortSpec is a whitelisted ORDER BY column plus direction, as toggled by
// a table header.
type SortSpec struct {
	Column string
	Desc   bool
}

// ParseSort reads ?sort=&order= and maps sort through allowed (request
// name → column). Unknown names fall back to def.
func ParseSort(r *http.Request, allowed map[string]string, def SortSpec) SortSpec {
	q := r.URL.Query()
	spec := def
	if col, ok := allowed[q.Get("sort")]; ok {
		spec = SortSpec{Column: col}
	}
	switch strings.ToLower(q.Get("order")) {
	case "asc":
		spec.Desc = false
	case "desc":
		spec.Desc = true
	}
	return spec
}

func (s SortSpec) OrderBy() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc}
}
