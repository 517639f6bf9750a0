package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	qs := []Question{
		{Title: "Age", QuestionType: Integer},
		{Title: "Agree", QuestionType: Checkbox},
		{Title: "Role", QuestionType: SingleLine},
	}
	for i := range qs {
		qs[i].ID = uint(i + 1)
	}
	answers := []Answer{
		{QuestionID: 1, Value: "30"}, {QuestionID: 1, Value: "20"}, {QuestionID: 1, Value: ""}, {QuestionID: 1, Value: "40"},
		{QuestionID: 2, Value: "true"}, {QuestionID: 2, Value: "false"}, {QuestionID: 2, Value: "true"},
		{QuestionID: 3, Value: "dev"}, {QuestionID: 3, Value: "ops"}, {QuestionID: 3, Value: "dev"},
		{QuestionID: 3, Value: "qa"}, {QuestionID: 3, Value: "pm"}, {QuestionID: 3, Value: ""},
		{QuestionID: 99, Value: "ignored"},
	}

	got := Summarize(qs, answers)
	require.Len(t, got, 3)

	age := got[0]
	assert.Equal(t, 3, age.Answered)
	require.NotNil(t, age.Min)
	assert.Equal(t, int64(20), *age.Min)
	assert.Equal(t, int64(40), *age.Max)
	assert.InDelta(t, 30.0, *age.Average, 0.0001)

	agree := got[1]
	assert.Equal(t, 2, agree.TrueCount)
	assert.Equal(t, 1, agree.FalseCount)
	assert.Equal(t, 3, agree.Answered)

	role := got[2]
	assert.Equal(t, 5, role.Answered)
	require.Len(t, role.TopValues, 3)
	assert.Equal(t, ValueCount{Value: "dev", Count: 2}, role.TopValues[0])
	assert.Equal(t, "ops", role.TopValues[1].Value)
	assert.Equal(t, "pm", role.TopValues[2].Value)
}

func TestSummarizeNoAnswers(t *testing.T) {
	qs := []Question{{Title: "Age", QuestionType: Integer}}
	qs[0].ID = 1
	got := Summarize(qs, nil)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Average)
	assert.Zero(t, got[0].Answered)
}
