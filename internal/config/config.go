// Package config loads casedesk settings from the environment.
// Command-line flags override these values in internal/cli.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type Config struct {
	// BaseURL is the backend origin, e.g. http://localhost:8088.
	BaseURL string
	// Timeout bounds each backend call.
	Timeout time.Duration

	// SessionCookie is the backend's session cookie value. The backend keys the active case by session.
	SessionCookie string
	CookieName    string

	// Dir overrides the per-origin state directory.
	Dir string

	LogLevel  slog.Level
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.BaseURL = strings.TrimRight(getEnvDefault("CASEDESK_BASE_URL", "http://localhost:8088"), "/")

	cfg.Timeout, err = getEnvDuration("CASEDESK_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CASEDESK_TIMEOUT: %w", err)
	}

	cfg.SessionCookie = os.Getenv("CASEDESK_SESSION_COOKIE")
	cfg.CookieName = getEnvDefault("CASEDESK_COOKIE_NAME", "session")
	cfg.Dir = os.Getenv("CASEDESK_DIR")

	cfg.LogLevel, err = ParseLogLevel(getEnvDefault("CASEDESK_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("CASEDESK_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("CASEDESK_LOG_FORMAT", "text")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CASEDESK_LOG_FORMAT: invalid format %q (want json or text)", cfg.LogFormat)
	}

	return cfg, nil
}

// SetupLogger builds the process logger. Logs go to w (stderr in the CLI) so stdout stays parseable.
func SetupLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn, error)", s)
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	// Bare integers are seconds.
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return time.Duration(n) * time.Second, nil
}
