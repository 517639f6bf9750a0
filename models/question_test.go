package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Title
	}
	return out
}

func questionList(names ...string) []Question {
	qs := make([]Question, len(names))
	for i, n := range names {
		qs[i] = Question{Title: n, QuestionType: SingleLine, OrderIndex: i}
		qs[i].ID = uint(i + 1)
	}
	return qs
}

func TestMoveQuestionReindexes(t *testing.T) {
	qs := questionList("a", "b", "c", "d")

	moved, err := MoveQuestion(qs, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, titles(moved))
	for i, q := range moved {
		assert.Equal(t, i, q.OrderIndex)
	}

	moved, err = MoveQuestion(qs, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, titles(moved))

	// input untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, titles(qs))
}

func TestMoveQuestionSameIndex(t *testing.T) {
	moved, err := MoveQuestion(questionList("a", "b"), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles(moved))
}

func TestMoveQuestionOutOfRange(t *testing.T) {
	_, err := MoveQuestion(questionList("a", "b"), 0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = MoveQuestion(nil, 0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestApplyOrder(t *testing.T) {
	qs := questionList("a", "b", "c")

	ordered, err := ApplyOrder(qs, []uint{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, titles(ordered))
	assert.Equal(t, 0, ordered[0].OrderIndex)
	assert.Equal(t, 2, ordered[2].OrderIndex)

	_, err = ApplyOrder(qs, []uint{1, 2})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
	_, err = ApplyOrder(qs, []uint{1, 1, 2})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
	_, err = ApplyOrder(qs, []uint{1, 2, 9})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
}

func TestValidateQuestionsPerTypeLimit(t *testing.T) {
	qs := make([]Question, 0, 5)
	for i := 0; i < 4; i++ {
		qs = append(qs, Question{Title: "q", QuestionType: Integer})
	}
	require.NoError(t, ValidateQuestions(qs))

	qs = append(qs, Question{Title: "one too many", QuestionType: Integer})
	err := ValidateQuestions(qs)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "maximum 4 integer")
}

func TestValidateQuestionsMixedTypesAndOrder(t *testing.T) {
	qs := []Question{
		{Title: " first ", QuestionType: Checkbox, OrderIndex: 7},
		{Title: "second", QuestionType: MultiLine, OrderIndex: 3},
	}
	require.NoError(t, ValidateQuestions(qs))
	assert.Equal(t, "first", qs[0].Title)
	assert.Equal(t, 0, qs[0].OrderIndex)
	assert.Equal(t, 1, qs[1].OrderIndex)
}

func TestValidateQuestionsRejectsBadInput(t *testing.T) {
	err := ValidateQuestions([]Question{{Title: "", QuestionType: SingleLine}})
	assert.True(t, IsValidation(err))

	err = ValidateQuestions([]Question{{Title: "x", QuestionType: "dropdown"}})
	assert.True(t, IsValidation(err))
}

func TestSortByOrder(t *testing.T) {
	qs := questionList("a", "b", "c")
	qs[0].OrderIndex, qs[1].OrderIndex, qs[2].OrderIndex = 2, 0, 1
	SortByOrder(qs)
	assert.Equal(t, []string{"b", "c", "a"}, titles(qs))
}
