package model

import "time"

// QuestionFeedback is one scored round inside a report
type QuestionFeedback struct {
	ID           int64     `json:"id,omitempty" bson:"id,omitempty"`
	QuestionText string    `json:"questionText" bson:"questionText"`
	UserAnswer   string    `json:"userAnswer" bson:"userAnswer"`
	AIFeedback   string    `json:"aiFeedback" bson:"aiFeedback"`
	Score        int       `json:"score" bson:"score"`
	RoundType    RoundType `json:"roundType" bson:"roundType"`
}

// Report is the terminal artifact of a completed session
type Report struct {
	ReportID       int64              `json:"reportId,omitempty" bson:"reportId,omitempty"`
	SessionID      int64              `json:"sessionId" bson:"sessionId"`
	OverallScore   float64            `json:"overallScore" bson:"overallScore"`
	TechnicalScore float64            `json:"technicalScore" bson:"technicalScore"`
	HRScore        float64            `json:"hrScore" bson:"hrScore"`
	ProjectScore   float64            `json:"projectScore" bson:"projectScore"`
	Summary        string             `json:"summary" bson:"summary"`
	ResumeFeedback string             `json:"resumeFeedback" bson:"resumeFeedback"`
	FinalVerdict   string             `json:"finalVerdict" bson:"finalVerdict"`
	Questions      []QuestionFeedback `json:"questions" bson:"questions"`
}

// ReportRecord is a report archived locally after completion
type ReportRecord struct {
	Owner      string            `json:"owner" bson:"owner"`
	SessionID  int64             `json:"sessionId" bson:"sessionId"`
	Profile    *InterviewProfile `json:"profile,omitempty" bson:"profile,omitempty"`
	Report     Report            `json:"report" bson:"report"`
	ArchivedAt time.Time         `json:"archivedAt" bson:"archivedAt"`
}
