package rest

import (
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/ws"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const backendToken = "backend-token"

// newBackend serves a one-question interview
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	question := model.Question{QuestionID: 1, QuestionText: "Explain ACID properties", RoundType: model.RoundTechnical}
	reply := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+backendToken {
				w.WriteHeader(http.StatusUnauthorized)
				reply(w, model.ErrorResponse{Status: 401, Message: "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.HandleFunc("/api/credits/balance", func(w http.ResponseWriter, r *http.Request) {
		reply(w, model.CreditBalance{Credits: 100, FreeInterviewsRemaining: 3})
	})
	r.HandleFunc("/api/interviews/profile", func(w http.ResponseWriter, r *http.Request) {
		reply(w, model.ProfileResponse{ID: 7})
	})
	r.HandleFunc("/api/interviews/start", func(w http.ResponseWriter, r *http.Request) {
		reply(w, model.InterviewSession{SessionID: 42, Status: model.SessionInProgress})
	})
	r.HandleFunc("/api/interviews/42/question", func(w http.ResponseWriter, r *http.Request) {
		reply(w, question)
	})
	r.HandleFunc("/api/interviews/42/answer", func(w http.ResponseWriter, r *http.Request) {
		score := 9
		reply(w, model.AnswerResult{Score: &score, Feedback: "Great", NextQuestion: &question})
	})
	r.HandleFunc("/api/interviews/42/complete", func(w http.ResponseWriter, r *http.Request) {})
	r.HandleFunc("/api/interviews/42/report", func(w http.ResponseWriter, r *http.Request) {
		reply(w, model.Report{OverallScore: 9, FinalVerdict: "Strong hire"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (s *memTokens) Save(ctx context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
	return nil
}

func (s *memTokens) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[key], nil
}

func (s *memTokens) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}

type memReports struct {
	mu      sync.Mutex
	records []*model.ReportRecord
}

func (r *memReports) Save(ctx context.Context, record *model.ReportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memReports) GetBySession(ctx context.Context, owner string, sessionID int64) (*model.ReportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Owner == owner && rec.SessionID == sessionID {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *memReports) ListByOwner(ctx context.Context, owner string, limit int) ([]*model.ReportRecord, error) {
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

type gateway struct {
	srv   *httptest.Server
	token string
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	backend := newBackend(t)
	api := service.NewAPIClient(&config.APIConfig{BaseURL: backend.URL, TimeoutMS: 2000}, service.StaticCredentials(""))
	tokens := &memTokens{tokens: make(map[string]string)}

	authSvc := service.NewAuthService(api, tokens, nil, "test-secret")
	interviewSvc := service.NewInterviewService(api, tokens, nil, nil, &memReports{}, interview.Options{
		QuestionTimeout: time.Second,
		ErrorDismiss:    time.Minute,
		InterviewCost:   model.DefaultInterviewCost,
		DashboardPath:   "/dashboard",
	})
	hub := ws.NewHub()
	interviewSvc.SetBroadcaster(hub)

	srv := httptest.NewServer(NewRouter(&Container{
		AuthService:      authSvc,
		InterviewService: interviewSvc,
		WSHub:            hub,
	}))
	t.Cleanup(func() {
		srv.Close()
		interviewSvc.Shutdown()
		hub.Close()
	})
	return &gateway{srv: srv}
}

func (g *gateway) do(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, g.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func (g *gateway) login(t *testing.T) {
	t.Helper()
	resp, body := g.do(t, "POST", "/v1/auth/session", model.LoginRequest{Token: backendToken})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d: %s", resp.StatusCode, body)
	}
	var login model.LoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	g.token = login.Token
}

func decodeSnapshot(t *testing.T, body []byte) interview.Snapshot {
	t.Helper()
	var snap interview.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func validSetup() model.ProfileRequest {
	return model.ProfileRequest{
		CurrentRole:     "Backend Engineer",
		ExperienceYears: 2,
		DifficultyLevel: model.DifficultyEasy,
		TechStack:       []string{"Go"},
	}
}

func TestInterviewOverHTTP(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	resp, body := g.do(t, "GET", "/v1/interview", nil)
	if resp.StatusCode != http.StatusOK || decodeSnapshot(t, body).State != interview.StateSetup {
		t.Fatalf("initial interview = %d %s", resp.StatusCode, body)
	}

	resp, body = g.do(t, "POST", "/v1/interview/setup", validSetup())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("setup status = %d: %s", resp.StatusCode, body)
	}
	snap := decodeSnapshot(t, body)
	if snap.State != interview.StateLive || snap.Question == nil || snap.Question.QuestionText != "Explain ACID properties" {
		t.Fatalf("setup snapshot = %+v", snap)
	}

	resp, body = g.do(t, "POST", "/v1/interview/answer", map[string]string{"answer": "Atomicity..."})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer status = %d: %s", resp.StatusCode, body)
	}
	if snap := decodeSnapshot(t, body); snap.State != interview.StateCompleted {
		t.Fatalf("state = %s, want COMPLETED", snap.State)
	}

	resp, body = g.do(t, "GET", "/v1/interview/report", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Strong hire") {
		t.Fatalf("report = %d %s", resp.StatusCode, body)
	}

	resp, body = g.do(t, "GET", "/v1/reports/42", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archived report = %d %s", resp.StatusCode, body)
	}
	resp, _ = g.do(t, "GET", "/v1/reports/9", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing report status = %d, want 404", resp.StatusCode)
	}

	resp, body = g.do(t, "POST", "/v1/interview/answer", map[string]string{"answer": "again"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("answer after completion = %d %s, want 409", resp.StatusCode, body)
	}
}

func TestSetupValidationError(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	req := validSetup()
	req.TechStack = []string{" "}
	resp, body := g.do(t, "POST", "/v1/interview/setup", req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", resp.StatusCode, body)
	}
	var out struct {
		Error    string             `json:"error"`
		Snapshot interview.Snapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error != "Tech stack is required." || out.Snapshot.State != interview.StateSetup {
		t.Fatalf("body = %+v", out)
	}
}

func TestRoutesRequireSession(t *testing.T) {
	g := newGateway(t)

	resp, _ := g.do(t, "GET", "/v1/interview", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	g.token = "not-a-jwt"
	resp, _ = g.do(t, "GET", "/v1/credits", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	g.token = ""
	resp, _ = g.do(t, "POST", "/v1/auth/session", model.LoginRequest{Token: "guess"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", resp.StatusCode)
	}
}

func TestCreditsEndpoint(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	resp, body := g.do(t, "GET", "/v1/credits", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var balance model.CreditBalance
	json.Unmarshal(body, &balance)
	if balance.Credits != 100 {
		t.Fatalf("credits = %d, want 100", balance.Credits)
	}
}

func TestHealthAndDocs(t *testing.T) {
	g := newGateway(t)

	resp, body := g.do(t, "GET", "/health", nil)
	if resp.StatusCode != http.StatusOK || string(body) != `{"status":"ok"}` {
		t.Fatalf("health = %d %s", resp.StatusCode, body)
	}
	resp, body = g.do(t, "GET", "/swagger/doc.json", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/v1/interview/setup") {
		t.Fatalf("docs = %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	g := newGateway(t)

	resp, _ := g.do(t, "OPTIONS", "/v1/interview/setup", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preflight status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestWebSocketPushesSnapshots(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	url := "ws" + strings.TrimPrefix(g.srv.URL, "http") + "/v1/ws/interview?token=" + g.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	next := func() ws.Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	first := next()
	if first.Type != service.MsgSnapshot || decodeSnapshot(t, first.Payload).State != interview.StateSetup {
		t.Fatalf("first message = %s %s", first.Type, first.Payload)
	}

	if resp, body := g.do(t, "POST", "/v1/interview/setup", validSetup()); resp.StatusCode != http.StatusOK {
		t.Fatalf("setup status = %d: %s", resp.StatusCode, body)
	}

	for {
		msg := next()
		if msg.Type != service.MsgSnapshot {
			continue
		}
		if decodeSnapshot(t, msg.Payload).State == interview.StateLive {
			return
		}
	}
}
