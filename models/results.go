package models

import (
	"sort"
	"strconv"
)

const topValuesLimit = 3

type ValueCount struct {
	Value string
	Count int
}

// QuestionSummary aggregates every answer given to one question.
type QuestionSummary struct {
	QuestionID   uint
	Title        string
	QuestionType QuestionType
	Answered     int

	Min     *int64   `json:",omitempty"`
	Max     *int64   `json:",omitempty"`
	Average *float64 `json:",omitempty"`

	TrueCount  int `json:",omitempty"`
	FalseCount int `json:",omitempty"`

	TopValues []ValueCount `json:",omitempty"`
}

// Summarize builds one summary per question, in question order. Answers
// to questions not in the list are ignored.
func Summarize(questions []Question, answers []Answer) []QuestionSummary {
	byQuestion := make(map[uint][]string, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a.Value)
	}

	out := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		s := QuestionSummary{QuestionID: q.ID, Title: q.Title, QuestionType: q.QuestionType}
		values := byQuestion[q.ID]
		switch q.QuestionType {
		case Integer:
			summarizeIntegers(&s, values)
		case Checkbox:
			for _, v := range values {
				if v == "true" {
					s.TrueCount++
				} else {
					s.FalseCount++
				}
			}
			s.Answered = len(values)
		default:
			summarizeText(&s, values)
		}
		out = append(out, s)
	}
	return out
}

func summarizeIntegers(s *QuestionSummary, values []string) {
	var sum int64
	for _, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		if s.Answered == 0 || n < *s.Min {
			min := n
			s.Min = &min
		}
		if s.Answered == 0 || n > *s.Max {
			max := n
			s.Max = &max
		}
		sum += n
		s.Answered++
	}
	if s.Answered > 0 {
		avg := float64(sum) / float64(s.Answered)
		s.Average = &avg
	}
}

func summarizeText(s *QuestionSummary, values []string) {
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
		s.Answered++
	}
	for v, c := range counts {
		s.TopValues = append(s.TopValues, ValueCount{Value: v, Count: c})
	}
	sort.Slice(s.TopValues, func(i, j int) bool {
		if s.TopValues[i].Count != s.TopValues[j].Count {
			return s.TopValues[i].Count > s.TopValues[j].Count
		}
		return s.TopValues[i].Value < s.TopValues[j].Value
	})
	if len(s.TopValues) > topValuesLimit {
		s.TopValues = s.TopValues[:topValuesLimit]
	}
}
