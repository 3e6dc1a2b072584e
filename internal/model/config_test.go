package model

import (
	"testing"
	"time"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GracePeriod != time.Second {
		t.Errorf("expected default grace period of 1s, got %v", cfg.GracePeriod)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("WEFT_QUIET", "true")
	t.Setenv("WEFT_CONTINUE_ON_ERROR", "1")
	t.Setenv("WEFT_GRACE_MS", "2500")
	t.Setenv("WEFT_LOG_LEVEL", "debug")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.Quiet || !cfg.ContinueOnError {
		t.Errorf("bool overrides not applied: %+v", cfg)
	}
	if cfg.GracePeriod != 2500*time.Millisecond {
		t.Errorf("expected 2.5s grace period, got %v", cfg.GracePeriod)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.LogLevel)
	}
}
