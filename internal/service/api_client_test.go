package service

import (
	"aiinterviewer/internal/model"
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestCreateProfileAndStartSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newTestClient(srv.URL, "backend-token")
	ctx := context.Background()

	profile, err := c.CreateProfile(ctx, &model.ProfileRequest{
		CurrentRole:     "Backend Engineer",
		ExperienceYears: 3,
		DifficultyLevel: model.DifficultyModerate,
		TechStack:       []string{"Go"},
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if profile.ID != 7 {
		t.Fatalf("profile id = %d, want 7", profile.ID)
	}
	if len(api.profiles) != 1 || api.profiles[0].DifficultyLevel != model.DifficultyModerate {
		t.Fatalf("backend received %+v", api.profiles)
	}

	session, err := c.StartSession(ctx, profile.ID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.SessionID != 42 || session.ProfileID != 7 {
		t.Fatalf("session = %+v", session)
	}
}

func TestGetReportFillsSessionID(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := newTestClient(srv.URL, "backend-token")

	report, err := c.GetReport(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if report.SessionID != 42 || report.FinalVerdict != "Hire" || len(report.Questions) != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("POST", "/api/interviews/start", http.StatusBadRequest, "Resume not found")
	c := newTestClient(srv.URL, "backend-token")

	_, err := c.StartSession(context.Background(), 7)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.ServerMessage() != "Resume not found" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("400 must not match ErrUnauthorized")
	}
}

func TestUnauthorizedFiresHook(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := newTestClient(srv.URL, "wrong-token")
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	_, err := c.GetCreditBalance(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times, want 1", fired)
	}
}

func TestMissingTokenSkipsRequest(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newTestClient(srv.URL, "")

	_, err := c.GetCreditBalance(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if n := api.count("GET", "/api/credits/balance"); n != 0 {
		t.Fatalf("backend called %d times, want 0", n)
	}
}

func TestGetRetriesOnRateLimit(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("GET", "/api/credits/balance", http.StatusTooManyRequests, "slow down")
	api.fail("GET", "/api/credits/balance", http.StatusTooManyRequests, "slow down")
	c := newTestClient(srv.URL, "backend-token")

	balance, err := c.GetCreditBalance(context.Background())
	if err != nil {
		t.Fatalf("GetCreditBalance: %v", err)
	}
	if balance.Credits != 100 {
		t.Fatalf("credits = %d, want 100", balance.Credits)
	}
	if n := api.count("GET", "/api/credits/balance"); n != 3 {
		t.Fatalf("backend called %d times, want 3", n)
	}
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	api, srv := newFakeAPI(t)
	for i := 0; i < 5; i++ {
		api.fail("GET", "/api/resumes", http.StatusTooManyRequests, "slow down")
	}
	c := newTestClient(srv.URL, "backend-token")

	_, err := c.ListResumes(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want wrapped 429", err)
	}
	if n := api.count("GET", "/api/resumes"); n != 3 {
		t.Fatalf("backend called %d times, want 3", n)
	}
}

func TestPostIsNeverRetried(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.fail("POST", "/api/interviews/42/answer", http.StatusTooManyRequests, "slow down")
	c := newTestClient(srv.URL, "backend-token")

	_, err := c.SubmitAnswer(context.Background(), 42, &model.AnswerRequest{QuestionID: 1, UserAnswer: "a"})
	if err == nil {
		t.Fatal("SubmitAnswer should fail")
	}
	if n := api.count("POST", "/api/interviews/42/answer"); n != 1 {
		t.Fatalf("backend called %d times, want 1", n)
	}
}

func TestListEndpoints(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := newTestClient(srv.URL, "backend-token")
	ctx := context.Background()

	txs, err := c.CreditHistory(ctx)
	if err != nil || len(txs) != 1 || txs[0].Type != model.TransactionInterviewDeduction {
		t.Fatalf("CreditHistory = %+v, %v", txs, err)
	}
	resumes, err := c.ListResumes(ctx)
	if err != nil || len(resumes) != 1 || resumes[0].FileName != "cv.pdf" {
		t.Fatalf("ListResumes = %+v, %v", resumes, err)
	}
	items, err := c.InterviewHistory(ctx)
	if err != nil || len(items) != 1 || items[0].ID != 42 {
		t.Fatalf("InterviewHistory = %+v, %v", items, err)
	}
}
