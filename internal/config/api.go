package config

import (
	"strings"
	"time"
)

// APIConfig holds the backend REST API settings
type APIConfig struct {
	BaseURL    string `yaml:"base_url" json:"baseUrl"`
	Token      string `yaml:"-" json:"-"` // Never serialize
	TimeoutMS  int    `yaml:"timeout_ms" json:"timeoutMs"`
	MaxRetries int    `yaml:"max_retries" json:"maxRetries"`
}

// DefaultAPIConfig returns the backend settings from the environment
func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		BaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		Token:      getEnv("API_TOKEN", ""),
		TimeoutMS:  getEnvInt("HTTP_TIMEOUT_MS", 30000),
		MaxRetries: getEnvInt("API_MAX_RETRIES", 3),
	}
}

// HasToken returns true if a static bearer token is configured
func (c *APIConfig) HasToken() bool {
	return c.Token != ""
}

// Timeout is the per-request transport timeout
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Endpoint joins the base URL with an API path
func (c *APIConfig) Endpoint(path string) string {
	return c.BaseURL + path
}

// InterviewConfig tunes the interview state machine
type InterviewConfig struct {
	QuestionTimeoutMS int    `yaml:"question_timeout_ms" json:"questionTimeoutMs"`
	ErrorDismissMS    int    `yaml:"error_dismiss_ms" json:"errorDismissMs"`
	Cost              int    `yaml:"cost" json:"cost"`
	DashboardPath     string `yaml:"dashboard_path" json:"dashboardPath"`
}

// DefaultInterviewConfig returns the state machine settings from the environment
func DefaultInterviewConfig() *InterviewConfig {
	return &InterviewConfig{
		QuestionTimeoutMS: getEnvInt("QUESTION_TIMEOUT_MS", 10000), // 10 second default timeout
		ErrorDismissMS:    getEnvInt("ERROR_DISMISS_MS", 5000),
		Cost:              getEnvInt("INTERVIEW_COST", 25),
		DashboardPath:     getEnv("DASHBOARD_PATH", "/dashboard"),
	}
}

// QuestionTimeout bounds the first question fetch
func (c *InterviewConfig) QuestionTimeout() time.Duration {
	return time.Duration(c.QuestionTimeoutMS) * time.Millisecond
}

// ErrorDismiss is how long an error notice stays visible
func (c *InterviewConfig) ErrorDismiss() time.Duration {
	return time.Duration(c.ErrorDismissMS) * time.Millisecond
}
