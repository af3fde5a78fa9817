// Package config loads captains-log settings.
//
// Values are resolved from, lowest to highest priority: built-in defaults,
// the YAML file (~/.config/captains-log/config.yaml), then environment
// variables. Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/speech"
)

// Environment variables.
const (
	EnvDB       = "CAPTAINS_LOG_DB"
	EnvLanguage = "CAPTAINS_LOG_LANGUAGE"
	EnvSocket   = "CAPTAINS_LOG_SOCKET"
	EnvConfig   = "CAPTAINS_LOG_CONFIG"
)

// Recognizer sources.
const (
	SourceDaemon = "daemon"
	SourceStdin  = "stdin"
)

// Config holds resolved settings.
type Config struct {
	// DB is the SQLite file backing local storage.
	DB string `yaml:"db"`

	// Language is the BCP 47 recognition language.
	Language string `yaml:"language"`

	// RecordingLimit bounds one listening session.
	RecordingLimit time.Duration `yaml:"recording_limit"`

	// Socket is the speech daemon socket.
	Socket string `yaml:"socket"`

	// Recognizer selects the speech source: daemon or stdin.
	Recognizer string `yaml:"recognizer"`

	// Sound enables beeps and desktop notifications.
	Sound bool `yaml:"sound"`

	// Folder is the default folder for saved transcripts.
	Folder string `yaml:"folder"`
}

// DefaultPath returns ~/.config/captains-log/config.yaml, or the value of
// CAPTAINS_LOG_CONFIG when set.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "captains-log", "config.yaml")
}

// Default returns the built-in settings.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DB:             filepath.Join(home, ".captains-log", "log.db"),
		Language:       speech.DefaultLanguage,
		RecordingLimit: 20 * time.Second,
		Socket:         "",
		Recognizer:     SourceDaemon,
		Sound:          true,
		Folder:         model.DefaultFolder,
	}
}

// Load resolves settings from defaults, the file at path (missing is fine)
// and the environment. An empty path means DefaultPath().
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v, ok := lookup(EnvDB); ok && v != "" {
		cfg.DB = v
	}
	if v, ok := lookup(EnvLanguage); ok && v != "" {
		cfg.Language = v
	}
	if v, ok := lookup(EnvSocket); ok && v != "" {
		cfg.Socket = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks and canonicalises the settings.
func (c *Config) Validate() error {
	lang, err := speech.ParseLanguage(c.Language)
	if err != nil {
		return err
	}
	c.Language = lang

	if c.RecordingLimit < time.Second {
		return fmt.Errorf("recording_limit must be at least 1s, got %s", c.RecordingLimit)
	}
	switch c.Recognizer {
	case SourceDaemon, SourceStdin:
	default:
		return fmt.Errorf("unknown recognizer %q (want %s or %s)", c.Recognizer, SourceDaemon, SourceStdin)
	}
	return nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
