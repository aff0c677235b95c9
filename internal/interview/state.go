package interview

import (
	"aiinterviewer/internal/model"
	"errors"
)

// State is a named state of the interview lifecycle
type State string

const (
	StateSetup        State = "SETUP"
	StateSessionStart State = "SESSION_START"
	StateLive         State = "LIVE"
	StateCompleted    State = "COMPLETED"
	StateAbandoned    State = "ABANDONED"
)

// Terminal reports whether no further events are accepted
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAbandoned
}

var (
	ErrQuestionTimeout     = errors.New("question loading timeout")
	ErrInvalidQuestion     = errors.New("invalid question data received")
	ErrInsufficientCredits = errors.New("insufficient credits to start an interview")
	ErrCreditsUnavailable  = errors.New("credit balance unavailable")
	ErrEmptyAnswer         = errors.New("answer cannot be empty")
	ErrNotLive             = errors.New("interview is not live")
	ErrWrongState          = errors.New("operation not allowed in current state")
	ErrBusy                = errors.New("another operation is in progress")
	ErrSuperseded          = errors.New("operation superseded")
	ErrUnknownEvent        = errors.New("unknown event")
)

// Fallback notices shown when the failure carries no usable message
const (
	msgSetupFailed    = "Failed to initialize session. Please try again."
	msgSubmitFailed   = "Failed to submit answer. Please check your connection."
	msgCompleteFailed = "Failed to generate report. Please try again."
)

// Event is a user intent fed into Machine.Dispatch
type Event interface {
	eventName() string
}

// BeginSetup creates a profile, starts a session and loads the first question
type BeginSetup struct {
	Profile model.ProfileRequest
}

// SubmitAnswer answers the current question
type SubmitAnswer struct {
	Answer string
}

// Abandon leaves a live session
type Abandon struct{}

// DismissError clears the current notice
type DismissError struct{}

func (BeginSetup) eventName() string   { return "begin_setup" }
func (SubmitAnswer) eventName() string { return "submit_answer" }
func (Abandon) eventName() string      { return "abandon" }
func (DismissError) eventName() string { return "dismiss_error" }
