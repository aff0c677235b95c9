package model

// AnswerRequest is the body of POST /api/interviews/{sessionId}/answer
type AnswerRequest struct {
	QuestionID int64  `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

// AnswerResult is the evaluation returned for a submitted answer
type AnswerResult struct {
	Score        *int      `json:"score,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	NextQuestion *Question `json:"nextQuestion,omitempty"`
	Complete     bool      `json:"complete,omitempty"`
}

// Ends reports whether the result signals that the question sequence is
// exhausted. The backend has no dedicated flag in every version, so a
// missing next question or a repeat of the current question id also ends it.
func (r *AnswerResult) Ends(current *Question) bool {
	if r == nil || r.Complete || r.NextQuestion == nil {
		return true
	}
	return current != nil && r.NextQuestion.QuestionID == current.QuestionID
}
