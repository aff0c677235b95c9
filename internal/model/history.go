package model

import "time"

// InterviewHistoryItem is one row of GET /api/history/interviews
type InterviewHistoryItem struct {
	ID              int64     `json:"id"`
	Role            string    `json:"role"`
	Date            time.Time `json:"date"`
	AverageScore    float64   `json:"averageScore"`
	RoundsCompleted int       `json:"roundsCompleted"`
	FeedbackStatus  string    `json:"feedbackStatus"`
}

// ResumeSummary is one uploaded resume as listed by GET /api/resumes
type ResumeSummary struct {
	ResumeID   int64     `json:"resumeId"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}
