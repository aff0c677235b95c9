package interview

import (
	"aiinterviewer/internal/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Backend is the subset of the session API the machine drives
type Backend interface {
	CreateProfile(ctx context.Context, req *model.ProfileRequest) (*model.ProfileResponse, error)
	StartSession(ctx context.Context, profileID int64) (*model.InterviewSession, error)
	GetQuestion(ctx context.Context, sessionID int64) (*model.Question, error)
	SubmitAnswer(ctx context.Context, sessionID int64, req *model.AnswerRequest) (*model.AnswerResult, error)
	CompleteSession(ctx context.Context, sessionID int64) error
	AbandonSession(ctx context.Context, sessionID int64) error
	GetReport(ctx context.Context, sessionID int64) (*model.Report, error)
}

// CreditStore gates setup and is refreshed once a session completes
type CreditStore interface {
	Refresh(ctx context.Context) error
	Balance() (model.CreditBalance, bool)
}

// Navigator moves the user away from the interview
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Options tunes a Machine
type Options struct {
	QuestionTimeout time.Duration
	ErrorDismiss    time.Duration
	InterviewCost   int
	DashboardPath   string
	Metrics         *Metrics
	Logger          *slog.Logger
}

// DefaultOptions returns the production timings
func DefaultOptions() Options {
	return Options{
		QuestionTimeout: 10 * time.Second,
		ErrorDismiss:    5 * time.Second,
		InterviewCost:   model.DefaultInterviewCost,
		DashboardPath:   "/dashboard",
	}
}

// Machine sequences one interview attempt:
//
//	SETUP -> SESSION_START -> LIVE -> COMPLETED
//	                          LIVE -> ABANDONED
//
// Errors never change the state on their own; they set a single notice that
// expires after Options.ErrorDismiss. Only one backend operation runs at a
// time. Abandon cancels the running one and bumps the generation so its
// result is discarded when it eventually returns.
type Machine struct {
	backend Backend
	credits CreditStore
	nav     Navigator
	opts    Options
	logger  *slog.Logger

	mu         sync.Mutex
	state      State
	busy       bool
	completing bool
	gen        uint64
	cancel     context.CancelFunc
	version    uint64
	profile    *model.InterviewProfile
	session    *model.InterviewSession
	question   *model.Question
	lastEval   *Evaluation
	report     *model.Report
	notice     *notice
	noticeSeq  uint64
	observers  map[int]func(Snapshot)
	observerID int

	background sync.WaitGroup
}

// New creates a machine in SETUP. credits and nav may be nil.
func New(backend Backend, credits CreditStore, nav Navigator, opts Options) *Machine {
	defaults := DefaultOptions()
	if opts.QuestionTimeout <= 0 {
		opts.QuestionTimeout = defaults.QuestionTimeout
	}
	if opts.ErrorDismiss <= 0 {
		opts.ErrorDismiss = defaults.ErrorDismiss
	}
	if opts.DashboardPath == "" {
		opts.DashboardPath = defaults.DashboardPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		backend:   backend,
		credits:   credits,
		nav:       nav,
		opts:      opts,
		logger:    logger.With("component", "interview"),
		state:     StateSetup,
		observers: make(map[int]func(Snapshot)),
	}
}

// Dispatch is the single entry point for user intents
func (m *Machine) Dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case BeginSetup:
		return m.BeginSetup(ctx, e.Profile)
	case SubmitAnswer:
		return m.SubmitAnswer(ctx, e.Answer)
	case Abandon:
		return m.Abandon(ctx)
	case DismissError:
		m.DismissError()
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

// BeginSetup creates the profile, starts a session and fetches the first
// question within Options.QuestionTimeout. On any failure the machine is
// back in SETUP with a notice; ids already created server side are kept
// for reference and never rolled back.
func (m *Machine) BeginSetup(ctx context.Context, req model.ProfileRequest) error {
	m.mu.Lock()
	if m.state != StateSetup {
		m.mu.Unlock()
		return ErrWrongState
	}
	if err := req.Normalize(); err != nil {
		publish := m.failLocked(err, msgSetupFailed)
		m.mu.Unlock()
		publish()
		return err
	}
	m.mu.Unlock()

	if err := m.checkCredits(ctx); err != nil {
		m.mu.Lock()
		if m.state != StateSetup {
			m.mu.Unlock()
			return ErrWrongState
		}
		publish := m.failLocked(err, msgSetupFailed)
		m.mu.Unlock()
		publish()
		return err
	}

	m.mu.Lock()
	if m.state != StateSetup || m.busy {
		m.mu.Unlock()
		return ErrWrongState
	}

	m.gen++
	gen := m.gen
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancel = cancel
	m.busy = true
	m.state = StateSessionStart
	m.profile, m.session, m.question, m.report, m.lastEval = nil, nil, nil, nil, nil
	m.clearNoticeLocked()
	publish := m.emitLocked()
	m.mu.Unlock()
	publish()

	profile, session, question, err := m.startSession(opCtx, &req)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return ErrSuperseded
	}
	m.busy = false
	m.cancel = nil
	m.profile = profile
	m.session = session
	if err != nil {
		m.state = StateSetup
		publish := m.failLocked(err, msgSetupFailed)
		m.mu.Unlock()
		publish()
		return err
	}
	m.question = question
	m.state = StateLive
	m.opts.Metrics.sessionStarted()
	m.logger.Info("interview live", "profileId", profile.ID, "sessionId", session.SessionID, "questionId", question.QuestionID)
	publish = m.emitLocked()
	m.mu.Unlock()
	publish()
	return nil
}

// checkCredits loads the balance when it was never fetched and requires
// it to cover Options.InterviewCost. An unknown balance never passes.
func (m *Machine) checkCredits(ctx context.Context) error {
	if m.credits == nil {
		return nil
	}
	if _, ok := m.credits.Balance(); !ok {
		if err := m.credits.Refresh(ctx); err != nil {
			m.logger.Warn("credit refresh before setup failed", "error", err)
			return fmt.Errorf("%w: %w", ErrCreditsUnavailable, err)
		}
	}
	balance, ok := m.credits.Balance()
	if !ok {
		return ErrCreditsUnavailable
	}
	if balance.Credits < m.opts.InterviewCost {
		return ErrInsufficientCredits
	}
	return nil
}

func (m *Machine) startSession(ctx context.Context, req *model.ProfileRequest) (*model.InterviewProfile, *model.InterviewSession, *model.Question, error) {
	created, err := m.backend.CreateProfile(ctx, req)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create profile: %w", err)
	}
	profile := model.NewInterviewProfile(created.ID, req)

	session, err := m.backend.StartSession(ctx, created.ID)
	if err != nil {
		return profile, nil, nil, fmt.Errorf("start session: %w", err)
	}
	session.ProfileID = created.ID

	question, err := m.fetchFirstQuestion(ctx, session.SessionID)
	if err != nil {
		return profile, session, nil, err
	}
	return profile, session, question, nil
}

// fetchFirstQuestion races the question request against a timer. The
// request context is cancelled when the timer wins, and a response that
// still arrives afterwards is dropped with the buffered channel.
func (m *Machine) fetchFirstQuestion(ctx context.Context, sessionID int64) (*model.Question, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		question *model.Question
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		q, err := m.backend.GetQuestion(ctx, sessionID)
		ch <- result{q, err}
	}()

	timer := time.NewTimer(m.opts.QuestionTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("fetch question: %w", r.err)
		}
		if !r.question.Valid() {
			return nil, ErrInvalidQuestion
		}
		return r.question, nil
	case <-timer.C:
		m.opts.Metrics.questionTimeout()
		m.logger.Warn("question fetch timed out", "sessionId", sessionID, "timeout", m.opts.QuestionTimeout)
		return nil, ErrQuestionTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SubmitAnswer sends answer for the current question. A new question id
// replaces the current question; an end signal completes the session;
// a failure leaves the same question in place for a manual resubmit.
func (m *Machine) SubmitAnswer(ctx context.Context, answer string) error {
	m.mu.Lock()
	if m.state != StateLive || m.session == nil || m.question == nil {
		m.mu.Unlock()
		return ErrNotLive
	}
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		publish := m.failLocked(ErrEmptyAnswer, msgSubmitFailed)
		m.mu.Unlock()
		publish()
		return ErrEmptyAnswer
	}

	m.gen++
	gen := m.gen
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancel = cancel
	m.busy = true
	sessionID := m.session.SessionID
	current := *m.question
	publish := m.emitLocked()
	m.mu.Unlock()
	publish()

	result, err := m.backend.SubmitAnswer(opCtx, sessionID, &model.AnswerRequest{
		QuestionID: current.QuestionID,
		UserAnswer: answer,
	})

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		m.busy = false
		m.cancel = nil
		publish := m.failLocked(fmt.Errorf("submit answer: %w", err), msgSubmitFailed)
		m.mu.Unlock()
		publish()
		return err
	}

	m.opts.Metrics.answerSubmitted()
	m.lastEval = &Evaluation{QuestionID: current.QuestionID, Score: result.Score, Feedback: result.Feedback}
	m.clearNoticeLocked()

	if !result.Ends(&current) {
		m.busy = false
		m.cancel = nil
		next := *result.NextQuestion
		m.question = &next
		publish := m.emitLocked()
		m.mu.Unlock()
		publish()
		return nil
	}

	if m.completing || m.report != nil {
		m.busy = false
		m.cancel = nil
		m.mu.Unlock()
		return nil
	}
	m.completing = true
	publish = m.emitLocked()
	m.mu.Unlock()
	publish()

	return m.completeSession(opCtx, gen, sessionID)
}

// completeSession finalizes the session and loads its report. On failure the
// machine stays LIVE on the last question without a report.
func (m *Machine) completeSession(ctx context.Context, gen uint64, sessionID int64) error {
	err := m.backend.CompleteSession(ctx, sessionID)
	var report *model.Report
	if err == nil {
		report, err = m.backend.GetReport(ctx, sessionID)
	}
	if err == nil && report == nil {
		err = errors.New("empty report")
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return ErrSuperseded
	}
	m.busy = false
	m.cancel = nil
	m.completing = false
	if err != nil {
		publish := m.failLocked(fmt.Errorf("complete session: %w", err), msgCompleteFailed)
		m.mu.Unlock()
		publish()
		return err
	}

	m.report = report
	m.question = nil
	m.state = StateCompleted
	m.clearNoticeLocked()
	m.opts.Metrics.sessionCompleted()
	m.logger.Info("interview completed", "sessionId", sessionID, "overallScore", report.OverallScore)
	publish := m.emitLocked()
	m.mu.Unlock()
	publish()

	m.refreshCredits()
	return nil
}

func (m *Machine) refreshCredits() {
	if m.credits == nil {
		return
	}
	m.background.Add(1)
	go func() {
		defer m.background.Done()
		if err := m.credits.Refresh(context.Background()); err != nil {
			m.logger.Warn("credit refresh after completion failed", "error", err)
		}
	}()
}

// abandonTimeout bounds the abandon call, which outlives the caller's context
const abandonTimeout = 10 * time.Second

// Abandon leaves a live session. Any in-flight operation is cancelled and
// its result discarded. The abandon call runs detached from ctx
// cancellation and its outcome is only logged; the user is navigated away
// in every case.
func (m *Machine) Abandon(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateLive || m.session == nil {
		m.mu.Unlock()
		return ErrNotLive
	}
	sessionID := m.session.SessionID
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false
	m.completing = false
	m.question = nil
	m.state = StateAbandoned
	m.clearNoticeLocked()
	m.opts.Metrics.sessionAbandoned()
	publish := m.emitLocked()
	m.mu.Unlock()
	publish()

	abandonCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abandonTimeout)
	defer cancel()
	if err := m.backend.AbandonSession(abandonCtx, sessionID); err != nil {
		m.logger.Error("abandon failed", "sessionId", sessionID, "error", err)
	}
	if m.nav != nil {
		m.nav.Navigate(m.opts.DashboardPath)
	}
	return nil
}

// DismissError clears the current notice
func (m *Machine) DismissError() {
	m.mu.Lock()
	if m.notice == nil {
		m.mu.Unlock()
		return
	}
	m.clearNoticeLocked()
	publish := m.emitLocked()
	m.mu.Unlock()
	publish()
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs outside the machine lock. The returned func unsubscribes.
func (m *Machine) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observerID++
	id := m.observerID
	m.observers[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Snapshot returns the current observable state
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Wait blocks until background credit refreshes have finished
func (m *Machine) Wait() {
	m.background.Wait()
}

// Close cancels any in-flight operation and stops the notice timer
func (m *Machine) Close() {
	m.mu.Lock()
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.clearNoticeLocked()
	m.mu.Unlock()
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:        m.version,
		State:          m.state,
		Busy:           m.busy,
		Profile:        m.profile,
		Report:         m.report,
		LastEvaluation: m.lastEval,
	}
	if m.session != nil {
		s := *m.session
		snap.Session = &s
	}
	if m.question != nil {
		q := *m.question
		snap.Question = &q
	}
	if m.notice != nil {
		snap.Error = m.notice.message
		expires := m.notice.expiresAt
		snap.ErrorExpiresAt = &expires
	}
	return snap
}

// emitLocked bumps the version and returns a func delivering the new
// snapshot to observers. Call it after releasing mu.
func (m *Machine) emitLocked() func() {
	m.version++
	snap := m.snapshotLocked()
	observers := make([]func(Snapshot), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	return func() {
		for _, fn := range observers {
			fn(snap)
		}
	}
}

func (m *Machine) failLocked(err error, fallback string) func() {
	m.logger.Warn("interview operation failed", "state", m.state, "error", err)
	m.setNoticeLocked(userMessage(err, fallback))
	return m.emitLocked()
}

func (m *Machine) setNoticeLocked(message string) {
	m.clearNoticeLocked()
	m.noticeSeq++
	id := m.noticeSeq
	m.notice = &notice{
		id:        id,
		message:   message,
		expiresAt: time.Now().Add(m.opts.ErrorDismiss),
		timer:     time.AfterFunc(m.opts.ErrorDismiss, func() { m.expireNotice(id) }),
	}
}

func (m *Machine) clearNoticeLocked() {
	if m.notice == nil {
		return
	}
	m.notice.timer.Stop()
	m.notice = nil
}

func (m *Machine) expireNotice(id uint64) {
	m.mu.Lock()
	if m.notice == nil || m.notice.id != id {
		m.mu.Unlock()
		return
	}
	m.notice = nil
	publish := m.emitLocked()
	m.mu.Unlock()
	publish()
}

// serverMessenger is implemented by backend errors carrying a message
// meant for the user
type serverMessenger interface {
	ServerMessage() string
}

var userMessages = []struct {
	err     error
	message string
}{
	{ErrQuestionTimeout, "Question loading timeout. Please try again."},
	{ErrInvalidQuestion, "Invalid question data received. Please try again."},
	{ErrInsufficientCredits, "Insufficient credits to start an interview."},
	{ErrCreditsUnavailable, "Could not load your credit balance. Please try again."},
	{ErrEmptyAnswer, "Please enter an answer before submitting."},
	{model.ErrRoleRequired, "Current role is required."},
	{model.ErrInvalidExperience, "Experience years cannot be negative."},
	{model.ErrInvalidDifficulty, "Difficulty level must be EASY, MODERATE or HARD."},
	{model.ErrTechStackRequired, "Tech stack is required."},
}

// userMessage turns err into the single human-readable notice
func userMessage(err error, fallback string) string {
	for _, um := range userMessages {
		if errors.Is(err, um.err) {
			return um.message
		}
	}
	var sm serverMessenger
	if errors.As(err, &sm) {
		if msg := sm.ServerMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
