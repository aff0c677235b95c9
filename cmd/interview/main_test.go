package main

import (
	"aiinterviewer/internal/credits"
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/repository"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedBackend asks two questions, then repeats the last one
type scriptedBackend struct {
	mu        sync.Mutex
	answers   []string
	abandoned bool
}

var script = []model.Question{
	{QuestionID: 1, QuestionText: "Tell me about yourself", RoundType: model.RoundHR},
	{QuestionID: 2, QuestionText: "Explain ACID properties", RoundType: model.RoundTechnical},
}

func (b *scriptedBackend) CreateProfile(ctx context.Context, req *model.ProfileRequest) (*model.ProfileResponse, error) {
	return &model.ProfileResponse{ID: 7}, nil
}

func (b *scriptedBackend) StartSession(ctx context.Context, profileID int64) (*model.InterviewSession, error) {
	return &model.InterviewSession{SessionID: 42}, nil
}

func (b *scriptedBackend) GetQuestion(ctx context.Context, sessionID int64) (*model.Question, error) {
	q := script[0]
	return &q, nil
}

func (b *scriptedBackend) SubmitAnswer(ctx context.Context, sessionID int64, req *model.AnswerRequest) (*model.AnswerResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answers = append(b.answers, req.UserAnswer)
	next := script[len(script)-1]
	return &model.AnswerResult{Feedback: "ok", NextQuestion: &next}, nil
}

func (b *scriptedBackend) CompleteSession(ctx context.Context, sessionID int64) error { return nil }

func (b *scriptedBackend) AbandonSession(ctx context.Context, sessionID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.abandoned = true
	return nil
}

func (b *scriptedBackend) GetReport(ctx context.Context, sessionID int64) (*model.Report, error) {
	return &model.Report{SessionID: sessionID, OverallScore: 6.5, FinalVerdict: "Lean hire"}, nil
}

func (b *scriptedBackend) GetCreditBalance(ctx context.Context) (*model.CreditBalance, error) {
	return &model.CreditBalance{Credits: 75}, nil
}

func startMachine(t *testing.T, backend *scriptedBackend) (*interview.Machine, *credits.Store, *repository.SQLiteReportRepo) {
	t.Helper()
	archive, err := repository.NewSQLiteReportRepo(filepath.Join(t.TempDir(), "interviews.db"))
	if err != nil {
		t.Fatalf("NewSQLiteReportRepo: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	store := credits.NewStore(backend)
	m := interview.New(backend, store, nil, interview.Options{QuestionTimeout: time.Second, ErrorDismiss: time.Minute})
	t.Cleanup(m.Close)

	err = m.BeginSetup(context.Background(), model.ProfileRequest{
		CurrentRole:     "Backend Engineer",
		DifficultyLevel: model.DifficultyEasy,
		TechStack:       []string{"Go"},
	})
	if err != nil {
		t.Fatalf("BeginSetup: %v", err)
	}
	return m, store, archive
}

func TestInterviewLoopCompletesAndArchives(t *testing.T) {
	backend := &scriptedBackend{}
	m, store, archive := startMachine(t, backend)
	in := newLineReader(strings.NewReader("I build APIs\nAtomicity and friends\n"))

	if err := interviewLoop(context.Background(), m, in, archive, store); err != nil {
		t.Fatalf("interviewLoop: %v", err)
	}
	if got := m.State(); got != interview.StateCompleted {
		t.Fatalf("state = %s, want COMPLETED", got)
	}
	if len(backend.answers) != 2 || backend.answers[0] != "I build APIs" {
		t.Fatalf("answers = %q", backend.answers)
	}
	record, err := archive.GetBySession(context.Background(), archiveOwner, 42)
	if err != nil || record == nil {
		t.Fatalf("archived record = %v, %v", record, err)
	}
	if record.Report.FinalVerdict != "Lean hire" {
		t.Fatalf("verdict = %q", record.Report.FinalVerdict)
	}
	if store.Get().Credits != 75 {
		t.Fatalf("credits = %d, want refreshed 75", store.Get().Credits)
	}
}

func TestInterviewLoopQuitAbandons(t *testing.T) {
	backend := &scriptedBackend{}
	m, store, archive := startMachine(t, backend)
	in := newLineReader(strings.NewReader(":quit\n"))

	if err := interviewLoop(context.Background(), m, in, archive, store); err != nil {
		t.Fatalf("interviewLoop: %v", err)
	}
	if got := m.State(); got != interview.StateAbandoned {
		t.Fatalf("state = %s, want ABANDONED", got)
	}
	if !backend.abandoned {
		t.Fatal("backend abandon not called")
	}
}

func TestInterviewLoopEOFAbandons(t *testing.T) {
	backend := &scriptedBackend{}
	m, store, archive := startMachine(t, backend)
	in := newLineReader(strings.NewReader(""))

	if err := interviewLoop(context.Background(), m, in, archive, store); err != nil {
		t.Fatalf("interviewLoop: %v", err)
	}
	if got := m.State(); got != interview.StateAbandoned {
		t.Fatalf("state = %s, want ABANDONED", got)
	}
}
