package model

import "time"

// SessionStatus mirrors the backend's session lifecycle
type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
	SessionAbandoned  SessionStatus = "ABANDONED"
)

// InterviewSession is returned by POST /api/interviews/start.
// SessionID correlates every later question, answer and report call.
type InterviewSession struct {
	SessionID    int64         `json:"sessionId" bson:"sessionId"`
	ProfileID    int64         `json:"profileId,omitempty" bson:"profileId"`
	Status       SessionStatus `json:"status,omitempty" bson:"status,omitempty"`
	StartedAt    *time.Time    `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CurrentRound string        `json:"currentRound,omitempty" bson:"currentRound,omitempty"`
}
