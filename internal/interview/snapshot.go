package interview

import (
	"aiinterviewer/internal/model"
	"time"
)

// Snapshot is an immutable copy of the machine's observable state
type Snapshot struct {
	Version        uint64                  `json:"version"`
	State          State                   `json:"state"`
	Busy           bool                    `json:"busy"`
	Profile        *model.InterviewProfile `json:"profile,omitempty"`
	Session        *model.InterviewSession `json:"session,omitempty"`
	Question       *model.Question         `json:"question,omitempty"`
	LastEvaluation *Evaluation             `json:"lastEvaluation,omitempty"`
	Report         *model.Report           `json:"report,omitempty"`
	Error          string                  `json:"error,omitempty"`
	ErrorExpiresAt *time.Time              `json:"errorExpiresAt,omitempty"`
}

// Evaluation is the score and feedback of the last accepted answer
type Evaluation struct {
	QuestionID int64  `json:"questionId"`
	Score      *int   `json:"score,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
}

// notice is the single current error message
type notice struct {
	id        uint64
	message   string
	expiresAt time.Time
	timer     *time.Timer
}
