package model

import "strings"

// RoundType identifies the interview round a question belongs to
type RoundType string

const (
	RoundHR        RoundType = "HR"
	RoundTechnical RoundType = "TECHNICAL"
	RoundProject   RoundType = "PROJECT"
)

// Question is the single current question of a live session
type Question struct {
	QuestionID   int64     `json:"questionId"`
	QuestionText string    `json:"questionText"`
	RoundType    RoundType `json:"roundType,omitempty"`
	Context      string    `json:"context,omitempty"`
}

// Valid reports whether the question carries text to show
func (q *Question) Valid() bool {
	return q != nil && strings.TrimSpace(q.QuestionText) != ""
}
