package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiliankoe/ringdrop/internal/game"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         string
	CORSOrigins  []string
	LogLevel     string
	LogFormat    string
	AudioEnabled bool
	TimingFile   string

	FallMs        int
	WindowStartMs int
	WindowEndMs   int
	MinDelayMs    int
	MaxDelayMs    int
}

// timingFile mirrors the optional YAML timing profile. Absent keys keep
// their current value.
type timingFile struct {
	FallMs        *int `yaml:"fall_ms"`
	WindowStartMs *int `yaml:"window_start_ms"`
	WindowEndMs   *int `yaml:"window_end_ms"`
	MinDelayMs    *int `yaml:"min_delay_ms"`
	MaxDelayMs    *int `yaml:"max_delay_ms"`
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.CORSOrigins = splitList(getenv("CORS_ORIGINS", "*"))
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.LogFormat = getenv("LOG_FORMAT", "console")
	c.AudioEnabled = getenv("AUDIO_ENABLED", "true") == "true"
	c.TimingFile = os.Getenv("TIMING_FILE")

	d := game.DefaultTiming()
	c.FallMs = int(d.Fall.Milliseconds())
	c.WindowStartMs = int(d.WindowStart.Milliseconds())
	c.WindowEndMs = int(d.WindowEnd.Milliseconds())
	c.MinDelayMs = int(d.MinDelay.Milliseconds())
	c.MaxDelayMs = int(d.MaxDelay.Milliseconds())
	c.applyTimingEnv()
	return c
}

// Load reads .env (if present), the environment and the optional timing
// file, in that order of increasing precedence for env over file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	c := FromEnv()
	if c.TimingFile != "" {
		if err := c.applyTimingFile(c.TimingFile); err != nil {
			return c, err
		}
		c.applyTimingEnv()
	}
	if err := c.Timing().Validate(); err != nil {
		return c, fmt.Errorf("timing config: %w", err)
	}
	return c, nil
}

func (c Config) Timing() game.TimingConfig {
	return game.TimingConfig{
		Fall:        ms(c.FallMs),
		WindowStart: ms(c.WindowStartMs),
		WindowEnd:   ms(c.WindowEndMs),
		MinDelay:    ms(c.MinDelayMs),
		MaxDelay:    ms(c.MaxDelayMs),
	}
}

func (c *Config) applyTimingEnv() {
	c.FallMs = getenvInt("FALL_MS", c.FallMs)
	c.WindowStartMs = getenvInt("WINDOW_START_MS", c.WindowStartMs)
	c.WindowEndMs = getenvInt("WINDOW_END_MS", c.WindowEndMs)
	c.MinDelayMs = getenvInt("MIN_DELAY_MS", c.MinDelayMs)
	c.MaxDelayMs = getenvInt("MAX_DELAY_MS", c.MaxDelayMs)
}

func (c *Config) applyTimingFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read timing file: %w", err)
	}
	var f timingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse timing file: %w", err)
	}
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.FallMs, f.FallMs)
	set(&c.WindowStartMs, f.WindowStartMs)
	set(&c.WindowEndMs, f.WindowEndMs)
	set(&c.MinDelayMs, f.MinDelayMs)
	set(&c.MaxDelayMs, f.MaxDelayMs)
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
