package service

import (
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnauthorized is matched by any 401 response or a missing token
var ErrUnauthorized = errors.New("session expired, please log in again")

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// ServerMessage is the message the backend meant for the user
func (e *APIError) ServerMessage() string {
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// APIClient wraps the interview backend REST API. It holds no session
// state; every method maps 1:1 onto an endpoint.
type APIClient struct {
	cfg            *config.APIConfig
	creds          CredentialProvider
	httpClient     *http.Client
	tracer         trace.Tracer
	logger         *slog.Logger
	retryBackoff   time.Duration
	onUnauthorized func()
}

// NewAPIClient creates a backend client authenticating with creds
func NewAPIClient(cfg *config.APIConfig, creds CredentialProvider) *APIClient {
	return &APIClient{
		cfg:   cfg,
		creds: creds,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		tracer:       otel.Tracer("aiinterviewer/apiclient"),
		logger:       slog.Default().With("component", "api_client"),
		retryBackoff: time.Second,
	}
}

// WithCredentials returns a client sharing the transport but using creds
func (c *APIClient) WithCredentials(creds CredentialProvider) *APIClient {
	clone := *c
	clone.creds = creds
	clone.onUnauthorized = nil
	return &clone
}

// OnUnauthorized registers a hook fired on every 401 response
func (c *APIClient) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// doRequest performs an HTTP request and decodes the JSON response into out.
// Only GET requests are retried; a POST is sent exactly once.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.path", path))

	err := c.send(ctx, method, path, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *APIClient) send(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return ErrUnauthorized
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	url := c.cfg.Endpoint(path)
	c.logger.Debug("api request", "method", method, "path", path)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryBackoff
			c.logger.Info("retrying api request", "method", method, "path", path, "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("api request failed", "method", method, "path", path, "attempt", attempt+1, "error", err)
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		c.logger.Debug("api response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody))

		// Handle rate limiting (429)
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
			if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			c.logger.Warn("api error", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
			return apiErr
		}

		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
		return nil
	}

	c.logger.Error("api request gave up", "method", method, "path", path, "attempts", attempts, "error", lastErr)
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// errorMessage extracts the server-provided message from an error body
func errorMessage(body []byte) string {
	var payload model.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// CreateProfile handles POST /api/interviews/profile
func (c *APIClient) CreateProfile(ctx context.Context, req *model.ProfileRequest) (*model.ProfileResponse, error) {
	var resp model.ProfileResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/interviews/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartSession handles POST /api/interviews/start?profileId=
func (c *APIClient) StartSession(ctx context.Context, profileID int64) (*model.InterviewSession, error) {
	var resp model.InterviewSession
	path := fmt.Sprintf("/api/interviews/start?profileId=%d", profileID)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	resp.ProfileID = profileID
	return &resp, nil
}

// GetQuestion handles GET /api/interviews/{sessionId}/question
func (c *APIClient) GetQuestion(ctx context.Context, sessionID int64) (*model.Question, error) {
	var q model.Question
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/interviews/%d/question", sessionID), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// SubmitAnswer handles POST /api/interviews/{sessionId}/answer
func (c *APIClient) SubmitAnswer(ctx context.Context, sessionID int64, req *model.AnswerRequest) (*model.AnswerResult, error) {
	var result model.AnswerResult
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/interviews/%d/answer", sessionID), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompleteSession handles POST /api/interviews/{sessionId}/complete
func (c *APIClient) CompleteSession(ctx context.Context, sessionID int64) error {
	return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/interviews/%d/complete", sessionID), nil, nil)
}

// AbandonSession handles POST /api/interviews/{sessionId}/abandon
func (c *APIClient) AbandonSession(ctx context.Context, sessionID int64) error {
	return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/interviews/%d/abandon", sessionID), nil, nil)
}

// GetReport handles GET /api/interviews/{sessionId}/report
func (c *APIClient) GetReport(ctx context.Context, sessionID int64) (*model.Report, error) {
	var report model.Report
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/interviews/%d/report", sessionID), nil, &report); err != nil {
		return nil, err
	}
	if report.SessionID == 0 {
		report.SessionID = sessionID
	}
	return &report, nil
}

// GetCreditBalance handles GET /api/credits/balance
func (c *APIClient) GetCreditBalance(ctx context.Context) (*model.CreditBalance, error) {
	var balance model.CreditBalance
	if err := c.doRequest(ctx, http.MethodGet, "/api/credits/balance", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// CreditHistory handles GET /api/credits/history
func (c *APIClient) CreditHistory(ctx context.Context) ([]model.CreditTransaction, error) {
	var txs []model.CreditTransaction
	if err := c.doRequest(ctx, http.MethodGet, "/api/credits/history", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ListResumes handles GET /api/resumes
func (c *APIClient) ListResumes(ctx context.Context) ([]model.ResumeSummary, error) {
	var resumes []model.ResumeSummary
	if err := c.doRequest(ctx, http.MethodGet, "/api/resumes", nil, &resumes); err != nil {
		return nil, err
	}
	return resumes, nil
}

// InterviewHistory handles GET /api/history/interviews
func (c *APIClient) InterviewHistory(ctx context.Context) ([]model.InterviewHistoryItem, error) {
	var items []model.InterviewHistoryItem
	if err := c.doRequest(ctx, http.MethodGet, "/api/history/interviews", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
