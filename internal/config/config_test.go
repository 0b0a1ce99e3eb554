package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kiliankoe/ringdrop/internal/game"
)

func TestFromEnvDefaults(t *testing.T) {
	c := FromEnv()
	if c.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", c.Port)
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "*" {
		t.Fatalf("expected CORS origins [*], got %v", c.CORSOrigins)
	}
	if !c.AudioEnabled {
		t.Fatal("audio should be enabled by default")
	}
	if c.Timing() != game.DefaultTiming() {
		t.Fatalf("expected default timing, got %+v", c.Timing())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("AUDIO_ENABLED", "false")
	t.Setenv("FALL_MS", "2000")
	t.Setenv("WINDOW_START_MS", "1800")
	t.Setenv("WINDOW_END_MS", "2000")
	t.Setenv("MIN_DELAY_MS", "not-a-number")

	c := FromEnv()
	if c.Port != "3000" {
		t.Fatalf("expected port 3000, got %s", c.Port)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("expected two trimmed origins, got %v", c.CORSOrigins)
	}
	if c.AudioEnabled {
		t.Fatal("audio should be disabled")
	}
	tc := c.Timing()
	if tc.Fall != 2*time.Second || tc.WindowStart != 1800*time.Millisecond {
		t.Fatalf("unexpected timing %+v", tc)
	}
	if tc.MinDelay != time.Second {
		t.Fatalf("invalid number should keep the default, got %s", tc.MinDelay)
	}
}

func TestLoadTimingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timing.yaml")
	data := "fall_ms: 5000\nwindow_start_ms: 4500\nwindow_end_ms: 5000\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write timing file: %v", err)
	}
	t.Setenv("TIMING_FILE", path)
	t.Setenv("WINDOW_START_MS", "4000")

	c, err := Load()
	if err != nil {
		t.Fatalf("should load timing file: %v", err)
	}
	tc := c.Timing()
	if tc.Fall != 5*time.Second {
		t.Fatalf("expected fall from file, got %s", tc.Fall)
	}
	if tc.WindowStart != 4*time.Second {
		t.Fatalf("env should override the file, got %s", tc.WindowStart)
	}
	if tc.MaxDelay != 4*time.Second {
		t.Fatalf("absent keys should keep defaults, got %s", tc.MaxDelay)
	}
}

func TestLoadMissingTimingFile(t *testing.T) {
	t.Setenv("TIMING_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing timing file")
	}
}

func TestLoadRejectsInvalidTiming(t *testing.T) {
	t.Setenv("WINDOW_END_MS", "9000")
	_, err := Load()
	if !errors.Is(err, game.ErrInvalidTiming) {
		t.Fatalf("expected ErrInvalidTiming, got %v", err)
	}
}
