package service

import (
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// fakeAPI is an in-process interview backend
type fakeAPI struct {
	mu        sync.Mutex
	token     string
	balance   model.CreditBalance
	questions []model.Question
	answered  int
	calls     map[string]int
	// failures forces a status (and message) for "METHOD /path"
	failures map[string][]failure
	profiles []model.ProfileRequest
}

type failure struct {
	status  int
	message string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		token:   "backend-token",
		balance: model.CreditBalance{Credits: 100, FreeInterviewsUsed: 1, FreeInterviewsRemaining: 3},
		questions: []model.Question{
			{QuestionID: 1, QuestionText: "Explain ACID properties", RoundType: model.RoundTechnical},
		},
		calls:    make(map[string]int),
		failures: make(map[string][]failure),
	}

	r := mux.NewRouter()
	r.Use(f.middleware)
	r.HandleFunc("/api/interviews/profile", f.createProfile).Methods("POST")
	r.HandleFunc("/api/interviews/start", f.startSession).Methods("POST")
	r.HandleFunc("/api/interviews/{id}/question", f.question).Methods("GET")
	r.HandleFunc("/api/interviews/{id}/answer", f.answer).Methods("POST")
	r.HandleFunc("/api/interviews/{id}/complete", f.ok).Methods("POST")
	r.HandleFunc("/api/interviews/{id}/abandon", f.ok).Methods("POST")
	r.HandleFunc("/api/interviews/{id}/report", f.report).Methods("GET")
	r.HandleFunc("/api/credits/balance", f.creditBalance).Methods("GET")
	r.HandleFunc("/api/credits/history", f.creditHistory).Methods("GET")
	r.HandleFunc("/api/resumes", f.resumes).Methods("GET")
	r.HandleFunc("/api/history/interviews", f.history).Methods("GET")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) fail(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], failure{status, message})
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeAPI) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls[key]++
		token := f.token
		var forced *failure
		if queue := f.failures[key]; len(queue) > 0 {
			forced = &queue[0]
			f.failures[key] = queue[1:]
		}
		f.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+token {
			writeTestJSON(w, http.StatusUnauthorized, model.ErrorResponse{Status: 401, Message: "Unauthorized"})
			return
		}
		if forced != nil {
			writeTestJSON(w, forced.status, model.ErrorResponse{Status: forced.status, Message: forced.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) createProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTestJSON(w, http.StatusBadRequest, model.ErrorResponse{Message: "bad body"})
		return
	}
	f.mu.Lock()
	f.profiles = append(f.profiles, req)
	f.mu.Unlock()
	writeTestJSON(w, http.StatusOK, model.ProfileResponse{ID: 7})
}

func (f *fakeAPI) startSession(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("profileId") != "7" {
		writeTestJSON(w, http.StatusBadRequest, model.ErrorResponse{Message: "unknown profile"})
		return
	}
	writeTestJSON(w, http.StatusOK, model.InterviewSession{SessionID: 42, Status: model.SessionInProgress})
}

func (f *fakeAPI) question(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	q := f.questions[0]
	f.answered = 0
	f.mu.Unlock()
	writeTestJSON(w, http.StatusOK, q)
}

func (f *fakeAPI) answer(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.answered++
	next := f.questions[len(f.questions)-1]
	if f.answered < len(f.questions) {
		next = f.questions[f.answered]
	}
	f.mu.Unlock()
	score := 7
	writeTestJSON(w, http.StatusOK, model.AnswerResult{Score: &score, Feedback: "Solid", NextQuestion: &next})
}

func (f *fakeAPI) ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) report(w http.ResponseWriter, r *http.Request) {
	writeTestJSON(w, http.StatusOK, model.Report{
		ReportID:     3,
		OverallScore: 7.5,
		FinalVerdict: "Hire",
		Questions: []model.QuestionFeedback{
			{QuestionText: "Explain ACID properties", UserAnswer: "Atomicity...", Score: 7, RoundType: model.RoundTechnical},
		},
	})
}

func (f *fakeAPI) creditBalance(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	balance := f.balance
	f.mu.Unlock()
	writeTestJSON(w, http.StatusOK, balance)
}

func (f *fakeAPI) creditHistory(w http.ResponseWriter, r *http.Request) {
	writeTestJSON(w, http.StatusOK, []model.CreditTransaction{
		{ID: 1, CreditChange: -25, BalanceAfter: 75, Type: model.TransactionInterviewDeduction, Description: "Interview session"},
	})
}

func (f *fakeAPI) resumes(w http.ResponseWriter, r *http.Request) {
	writeTestJSON(w, http.StatusOK, []model.ResumeSummary{{ResumeID: 5, FileName: "cv.pdf"}})
}

func (f *fakeAPI) history(w http.ResponseWriter, r *http.Request) {
	writeTestJSON(w, http.StatusOK, []model.InterviewHistoryItem{{ID: 42, Role: "Backend Engineer", AverageScore: 7.5}})
}

func writeTestJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func testAPIConfig(baseURL string) *config.APIConfig {
	return &config.APIConfig{BaseURL: baseURL, TimeoutMS: 2000, MaxRetries: 2}
}

func newTestClient(baseURL, token string) *APIClient {
	c := NewAPIClient(testAPIConfig(baseURL), StaticCredentials(token))
	c.retryBackoff = time.Millisecond
	return c
}

// memTokenStore is an in-memory cache.TokenStore
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]string)}
}

func (s *memTokenStore) Save(ctx context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
	return nil
}

func (s *memTokenStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[key], nil
}

func (s *memTokenStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}

// memReportRepo is an in-memory repository.ReportRepo
type memReportRepo struct {
	mu      sync.Mutex
	records []*model.ReportRecord
	saves   int
}

func (r *memReportRepo) Save(ctx context.Context, record *model.ReportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.records = append(r.records, record)
	return nil
}

func (r *memReportRepo) GetBySession(ctx context.Context, owner string, sessionID int64) (*model.ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Owner == owner && rec.SessionID == sessionID {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memReportRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]*model.ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ReportRecord
	for _, rec := range r.records {
		if rec.Owner == owner {
			out = append(out, rec)
		}
	}
	return out, nil
}

// memSnapshotCache is an in-memory cache.SnapshotCache
type memSnapshotCache struct {
	mu    sync.Mutex
	snaps map[string]interview.Snapshot
}

func newMemSnapshotCache() *memSnapshotCache {
	return &memSnapshotCache{snaps: make(map[string]interview.Snapshot)}
}

func (c *memSnapshotCache) Set(ctx context.Context, owner string, snap *interview.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[owner] = *snap
	return nil
}

func (c *memSnapshotCache) Get(ctx context.Context, owner string) (*interview.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snaps[owner]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (c *memSnapshotCache) Delete(ctx context.Context, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snaps, owner)
	return nil
}

// recorder is a Broadcaster that remembers every message
type recorder struct {
	mu       sync.Mutex
	messages []string
	notify   chan string
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan string, 64)}
}

func (r *recorder) BroadcastToOwner(owner, msgType string, payload interface{}) {
	r.mu.Lock()
	r.messages = append(r.messages, msgType)
	r.mu.Unlock()
	select {
	case r.notify <- msgType:
	default:
	}
}

func (r *recorder) DisconnectOwner(owner string) {}

func (r *recorder) has(msgType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m == msgType {
			return true
		}
	}
	return false
}

func (r *recorder) count(msgType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m == msgType {
			n++
		}
	}
	return n
}

func (r *recorder) waitFor(t *testing.T, msgType string) {
	t.Helper()
	if r.has(msgType) {
		return
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-r.notify:
			if m == msgType {
				return
			}
		case <-deadline:
			t.Fatalf("no %q message broadcast", msgType)
		}
	}
}
