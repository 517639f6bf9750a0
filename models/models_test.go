package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tags, err := NormalizeTags([]string{" job ", "", "application", "job", "Job"})
	require.NoError(t, err)
	assert.Equal(t, []string{"job", "application", "Job"}, tags)

	_, err = NormalizeTags([]string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, ErrTooManyTags)

	_, err = NormalizeTags([]string{strings.Repeat("x", MaxTagLength+1)})
	assert.True(t, IsValidation(err))
}

func TestTemplateValidateHeader(t *testing.T) {
	tpl := Template{Title: "   ", TopicID: 1}
	assert.True(t, IsValidation(tpl.ValidateHeader()))

	tpl = Template{Title: "Survey"}
	err := tpl.ValidateHeader()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic")

	tpl = Template{Title: "  Survey ", TopicID: 2}
	require.NoError(t, tpl.ValidateHeader())
	assert.Equal(t, "Survey", tpl.Title)
}

func TestTemplateAccess(t *testing.T) {
	owner := &User{}
	owner.ID = 1
	admin := &User{IsAdmin: true}
	admin.ID = 2
	friend := &User{}
	friend.ID = 3
	stranger := &User{}
	stranger.ID = 4

	tpl := Template{UserID: owner.ID, IsPublic: false, AllowedUsers: []User{*friend}}

	assert.True(t, tpl.CanView(owner))
	assert.True(t, tpl.CanView(admin))
	assert.True(t, tpl.CanView(friend))
	assert.False(t, tpl.CanView(stranger))
	assert.False(t, tpl.CanView(nil))

	assert.True(t, tpl.CanManage(admin))
	assert.False(t, tpl.CanManage(friend))

	tpl.IsPublic = true
	assert.True(t, tpl.CanView(nil))
	assert.False(t, tpl.CanFill(nil))
	assert.True(t, tpl.CanFill(stranger))

	stranger.IsBlocked = true
	assert.False(t, tpl.CanFill(stranger))
}

func TestBuildAnswers(t *testing.T) {
	qs := []Question{
		{Title: "Name", QuestionType: SingleLine},
		{Title: "Bio", QuestionType: MultiLine},
		{Title: "Age", QuestionType: Integer},
		{Title: "Agree", QuestionType: Checkbox},
	}
	for i := range qs {
		qs[i].ID = uint(10 + i)
	}

	answers, err := BuildAnswers(qs, map[uint]string{
		10: "  Ada ",
		11: "line one\nline two",
		12: "36",
		13: "TRUE",
	})
	require.NoError(t, err)
	require.Len(t, answers, 4)
	assert.Equal(t, "Ada", answers[0].Value)
	assert.Equal(t, "line one\nline two", answers[1].Value)
	assert.Equal(t, "36", answers[2].Value)
	assert.Equal(t, "true", answers[3].Value)

	answers, err = BuildAnswers(qs, map[uint]string{})
	require.NoError(t, err)
	assert.Equal(t, "", answers[2].Value)
	assert.Equal(t, "false", answers[3].Value)
}

func TestBuildAnswersRejects(t *testing.T) {
	qs := []Question{
		{Title: "Age", QuestionType: Integer},
		{Title: "Name", QuestionType: SingleLine},
		{Title: "Agree", QuestionType: Checkbox},
	}
	for i := range qs {
		qs[i].ID = uint(i + 1)
	}

	cases := map[string]map[uint]string{
		"integer":     {1: "twelve"},
		"single line": {2: "a\nb"},
		"checkbox":    {3: "maybe"},
		"unknown":     {99: "x"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildAnswers(qs, values)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestCommentValidate(t *testing.T) {
	c := Comment{Content: "  "}
	assert.True(t, IsValidation(c.Validate()))

	c = Comment{Content: strings.Repeat("a", MaxCommentLength+1)}
	assert.True(t, IsValidation(c.Validate()))

	c = Comment{Content: " nice "}
	require.NoError(t, c.Validate())
	assert.Equal(t, "nice", c.Content)
}

func TestUserAuthorProjection(t *testing.T) {
	u := &User{PublicID: "p-1", Email: "ann@example.com", Name: "Ann", IsAdmin: true}
	u.ID = 7
	a := u.Author()
	assert.Equal(t, Author{ID: 7, PublicID: "p-1", Email: "ann@example.com", Name: "Ann"}, a)
	assert.Equal(t, "users", a.TableName())
}
