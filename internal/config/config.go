package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the tunables for polling, tailing and diagnostics.
type Config struct {
	PollInterval       time.Duration
	TailPollInterval   time.Duration
	AutoScrollThrottle time.Duration
	MaxContextLines    int
	InitialLines       int
	StallThreshold     int
	Watch              bool
	LogFile            string
	LogLevel           string
	PresetsPath        string
}

const (
	defaultConfigPath         = "~/.config/logtrail/config.toml"
	defaultPresetsPath        = "~/.config/logtrail/presets.toml"
	defaultLogFile            = "~/.local/state/logtrail/logtrail.log"
	defaultLogLevel           = "info"
	defaultPollInterval       = 100 * time.Millisecond
	defaultTailPollInterval   = 50 * time.Millisecond
	defaultAutoScrollThrottle = 50 * time.Millisecond
	defaultMaxContextLines    = 10
	defaultInitialLines       = 0
	defaultStallThreshold     = 20
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PollInterval:       defaultPollInterval,
		TailPollInterval:   defaultTailPollInterval,
		AutoScrollThrottle: defaultAutoScrollThrottle,
		MaxContextLines:    defaultMaxContextLines,
		InitialLines:       defaultInitialLines,
		StallThreshold:     defaultStallThreshold,
		Watch:              true,
		LogFile:            mustExpand(defaultLogFile),
		LogLevel:           defaultLogLevel,
		PresetsPath:        mustExpand(defaultPresetsPath),
	}
}

// Load reads the config file at path, falling back to defaults when it is
// missing. Blank values keep their defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		PollInterval       string `toml:"poll_interval"`
		TailPollInterval   string `toml:"tail_poll_interval"`
		AutoScrollThrottle string `toml:"auto_scroll_throttle"`
		MaxContextLines    *int   `toml:"max_context_lines"`
		InitialLines       *int   `toml:"initial_lines"`
		StallThreshold     *int   `toml:"stall_threshold"`
		Watch              *bool  `toml:"watch"`
		LogFile            string `toml:"log_file"`
		LogLevel           string `toml:"log_level"`
		PresetsPath        string `toml:"presets_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, cfg.PollInterval); err != nil {
		return Config{}, err
	}
	if cfg.TailPollInterval, err = parseDuration("tail_poll_interval", raw.TailPollInterval, cfg.TailPollInterval); err != nil {
		return Config{}, err
	}
	if cfg.AutoScrollThrottle, err = parseDuration("auto_scroll_throttle", raw.AutoScrollThrottle, cfg.AutoScrollThrottle); err != nil {
		return Config{}, err
	}

	if raw.MaxContextLines != nil {
		if *raw.MaxContextLines < 0 {
			return Config{}, fmt.Errorf("max_context_lines must not be negative, got %d", *raw.MaxContextLines)
		}
		cfg.MaxContextLines = *raw.MaxContextLines
	}
	if raw.InitialLines != nil {
		cfg.InitialLines = max(0, *raw.InitialLines)
	}
	if raw.StallThreshold != nil && *raw.StallThreshold > 0 {
		cfg.StallThreshold = *raw.StallThreshold
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if presets := strings.TrimSpace(raw.PresetsPath); presets != "" {
		cfg.PresetsPath = mustExpand(presets)
	}

	return cfg, nil
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, trimmed)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
