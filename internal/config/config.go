package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"timed-quiz/internal/opentdb"
	"timed-quiz/internal/quiz"
)

const (
	SourceOpenTDB = "opentdb"
	SourceSQLite  = "sqlite"
)

// Config holds all configuration for the quiz service and CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Provider ProviderConfig `yaml:"provider"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type QuizConfig struct {
	QuestionCount int           `yaml:"question_count"`
	Duration      time.Duration `yaml:"duration"`
	TickInterval  time.Duration `yaml:"tick_interval"`
}

type ProviderConfig struct {
	Source         string        `yaml:"source"`
	OpenTDBURL     string        `yaml:"opentdb_url"`
	OpenTDBTimeout time.Duration `yaml:"opentdb_timeout"`
	SQLitePath     string        `yaml:"sqlite_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Quiz: QuizConfig{
			QuestionCount: quiz.DefaultBatchSize,
			Duration:      30 * time.Minute,
			TickInterval:  time.Second,
		},
		Provider: ProviderConfig{
			Source:         SourceOpenTDB,
			OpenTDBURL:     opentdb.DefaultURL,
			OpenTDBTimeout: 10 * time.Second,
			SQLitePath:     "quiz.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads an optional .env, then the YAML file named by QUIZ_CONFIG, then
// environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("QUIZ_CONFIG")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port)
	c.Server.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Quiz.QuestionCount = getEnvAsInt("QUIZ_QUESTION_COUNT", c.Quiz.QuestionCount)
	c.Quiz.Duration = getEnvAsDuration("QUIZ_DURATION", c.Quiz.Duration)
	c.Quiz.TickInterval = getEnvAsDuration("QUIZ_TICK_INTERVAL", c.Quiz.TickInterval)

	c.Provider.Source = strings.ToLower(getEnv("QUESTION_SOURCE", c.Provider.Source))
	c.Provider.OpenTDBURL = getEnv("OPENTDB_URL", c.Provider.OpenTDBURL)
	c.Provider.OpenTDBTimeout = getEnvAsDuration("OPENTDB_TIMEOUT", c.Provider.OpenTDBTimeout)
	c.Provider.SQLitePath = getEnv("SQLITE_PATH", c.Provider.SQLitePath)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Quiz.QuestionCount < 1 || c.Quiz.QuestionCount > 50 {
		return fmt.Errorf("question count must be between 1 and 50, got %d", c.Quiz.QuestionCount)
	}
	if c.Quiz.Duration < time.Second {
		return fmt.Errorf("quiz duration must be at least 1s, got %s", c.Quiz.Duration)
	}
	if c.Quiz.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.Quiz.TickInterval)
	}

	switch c.Provider.Source {
	case SourceOpenTDB:
		if c.Provider.OpenTDBURL == "" {
			return fmt.Errorf("opentdb url is required")
		}
	case SourceSQLite:
		if c.Provider.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unknown question source: %q", c.Provider.Source)
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
