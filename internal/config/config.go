package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full process configuration
type Config struct {
	API       *APIConfig       `yaml:"api"`
	Interview *InterviewConfig `yaml:"interview"`
	Server    *ServerConfig    `yaml:"server"`
	Log       *LogConfig       `yaml:"log"`
	HistoryDB string           `yaml:"history_db"`
}

// ServerConfig is used by the gateway only
type ServerConfig struct {
	Port               string `yaml:"port"`
	MongoURI           string `yaml:"mongo_uri"`
	MongoDB            string `yaml:"mongo_db"`
	RedisAddr          string `yaml:"redis_addr"`
	JWTSecret          string `yaml:"-"`
	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`
}

// LogConfig controls log and telemetry output files
type LogConfig struct {
	File        string `yaml:"file"`
	Level       string `yaml:"level"`
	MetricsFile string `yaml:"metrics_file"`
	TracesFile  string `yaml:"traces_file"`
}

// Load reads .env (if present), the environment and an optional YAML
// overlay named by CONFIG_FILE.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		API:       DefaultAPIConfig(),
		Interview: DefaultInterviewConfig(),
		Server: &ServerConfig{
			Port:               getEnv("PORT", "8081"),
			MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:            getEnv("MONGO_DB", "aiinterviewer"),
			RedisAddr:          redisAddr(getEnv("REDIS_URI", "localhost:6379")),
			JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Log: &LogConfig{
			File:        getEnv("LOG_FILE", "logs/aiinterviewer.log"),
			Level:       getEnv("LOG_LEVEL", "info"),
			MetricsFile: getEnv("METRICS_FILE", "logs/aiinterviewer_metrics.log"),
			TracesFile:  getEnv("TRACES_FILE", "logs/aiinterviewer_traces.log"),
		},
		HistoryDB: getEnv("HISTORY_DB", "./interviews.db"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	c.Server.RedisAddr = redisAddr(c.Server.RedisAddr)
	return nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}
	if c.API.TimeoutMS <= 0 {
		return errors.New("http timeout must be positive")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.Interview.QuestionTimeoutMS <= 0 {
		return errors.New("question timeout must be positive")
	}
	if c.Interview.ErrorDismissMS <= 0 {
		return errors.New("error dismiss delay must be positive")
	}
	if c.Interview.Cost < 0 {
		return errors.New("interview cost cannot be negative")
	}
	return nil
}

// Remove redis:// prefix if present
func redisAddr(addr string) string {
	return strings.TrimPrefix(addr, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
