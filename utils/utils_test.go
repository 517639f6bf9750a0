package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	allowed := map[string]string{"email": "email", "created_at": "created_at"}
	def := SortSpec{Column: "created_at", Desc: true}

	r := httptest.NewRequest("GET", "/x", nil)
	assert.Equal(t, def, ParseSort(r, allowed, def))

	r = httptest.NewRequest("GET", "/x?sort=email", nil)
	assert.Equal(t, SortSpec{Column: "email"}, ParseSort(r, allowed, def))

	r = httptest.NewRequest("GET", "/x?sort=email&order=DESC", nil)
	assert.Equal(t, SortSpec{Column: "email", Desc: true}, ParseSort(r, allowed, def))

	r = httptest.NewRequest("GET", "/x?sort=password_hash;drop&order=asc", nil)
	assert.Equal(t, SortSpec{Column: "created_at"}, ParseSort(r, allowed, def))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "hello world", PlainText(" <b>hello</b> <script>alert(1)</script>world "))
	assert.Equal(t, "Tom & Jerry's", PlainText("Tom & Jerry's"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a,, b ,"))
	assert.Nil(t, SplitList(""))
}
