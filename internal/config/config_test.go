package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"CASEDESK_BASE_URL", "CASEDESK_TIMEOUT", "CASEDESK_SESSION_COOKIE", "CASEDESK_COOKIE_NAME", "CASEDESK_DIR", "CASEDESK_LOG_LEVEL", "CASEDESK_LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8088" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 20*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.CookieName != "session" {
		t.Errorf("CookieName = %q", cfg.CookieName)
	}
	if cfg.LogLevel != slog.LevelWarn || cfg.LogFormat != "text" {
		t.Errorf("log = %v/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CASEDESK_BASE_URL", "https://cases.example.com/")
	t.Setenv("CASEDESK_TIMEOUT", "5")
	t.Setenv("CASEDESK_SESSION_COOKIE", "abc")
	t.Setenv("CASEDESK_LOG_LEVEL", "debug")
	t.Setenv("CASEDESK_LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://cases.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.SessionCookie != "abc" || cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CASEDESK_TIMEOUT", "soon"},
		{"CASEDESK_LOG_LEVEL", "loud"},
		{"CASEDESK_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("expected %s error; got %v", tt.key, err)
			}
		})
	}
}

func TestSetupLogger_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&Config{LogLevel: slog.LevelInfo, LogFormat: "json"}, &buf)
	logger.Debug("hidden")
	logger.Info("shown", slog.String("component", "test"))
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"component":"test"`) {
		t.Fatalf("log output = %q", out)
	}
}
