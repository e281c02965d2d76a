// Package config loads runtime settings for punchmoji. Game rules are fixed
// and not configurable.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Renderer names.
const (
	RendererWindow   = "window"
	RendererTerminal = "terminal"
)

// Environment variable names.
const (
	EnvCameraID        = "PUNCH_CAMERA_ID"
	EnvAddr            = "PUNCH_ADDR"
	EnvHistoryDB       = "PUNCH_HISTORY_DB"
	EnvRenderer        = "PUNCH_RENDERER"
	EnvSound           = "PUNCH_SOUND"
	EnvMotionThreshold = "PUNCH_MOTION_THRESHOLD"
)

// Config holds the runtime settings.
type Config struct {
	CameraID int
	// Addr is the spectator API listen address. Empty disables the server.
	Addr string
	// HistoryPath is the SQLite file for round history. Empty disables history.
	HistoryPath string
	Renderer    string
	Sound       bool
	// MotionThreshold is the percentage of changed pixels that counts as motion.
	MotionThreshold float64
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	cfg := Config{
		CameraID:        0,
		Addr:            ":8080",
		Renderer:        RendererWindow,
		Sound:           true,
		MotionThreshold: 1.0,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryPath = filepath.Join(home, ".punchmoji", "punchmoji.db")
	}
	return cfg
}

// Load reads an optional .env file from the working directory, then applies
// PUNCH_* environment variables over the defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv applies environment lookups over the defaults.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvCameraID); ok {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvCameraID, err)
		}
		cfg.CameraID = id
	}

	if v, ok := lookup(EnvAddr); ok {
		cfg.Addr = strings.TrimSpace(v)
	}

	if v, ok := lookup(EnvHistoryDB); ok {
		cfg.HistoryPath = strings.TrimSpace(v)
	}

	if v, ok := lookup(EnvRenderer); ok {
		r := strings.ToLower(strings.TrimSpace(v))
		if r != RendererWindow && r != RendererTerminal {
			return Config{}, fmt.Errorf("%s: unknown renderer %q", EnvRenderer, v)
		}
		cfg.Renderer = r
	}

	if v, ok := lookup(EnvSound); ok {
		sound, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSound, err)
		}
		cfg.Sound = sound
	}

	if v, ok := lookup(EnvMotionThreshold); ok {
		th, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvMotionThreshold, err)
		}
		if th <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %v", EnvMotionThreshold, th)
		}
		cfg.MotionThreshold = th
	}

	return cfg, nil
}
