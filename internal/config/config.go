// Package config loads client settings from TOML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultBaseURL   = "https://mate.academy/students-api"
	DefaultTimeout   = 10 * time.Second
	DefaultNotifyTTL = 3 * time.Second
	DefaultLogLevel  = "info"
	DefaultTheme     = "classic"
	DefaultDir       = "~/.tada"
	FileName         = "config.toml"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds everything the client needs to reach the service.
type Config struct {
	BaseURL   string        `toml:"base_url"`
	UserID    int           `toml:"user_id"`
	Timeout   time.Duration `toml:"timeout"`
	NotifyTTL time.Duration `toml:"notify_ttl"`
	LogFile   string        `toml:"log_file"`
	LogLevel  string        `toml:"log_level"`
	Theme     string        `toml:"theme"`

	// Path the config was read from, empty when none was found.
	Source string `toml:"-"`
}

// Load builds a Config: defaults, then the file at path (or the default
// location when path is empty), then TADA_* environment overrides.
// A missing default file is fine; a missing explicit one is not.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(expandPath(DefaultDir), FileName)
	}
	path = expandPath(path)
	if err := loadConfigFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else {
		cfg.Source = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.Timeout = DefaultTimeout
	cfg.NotifyTTL = DefaultNotifyTTL
	cfg.LogFile = filepath.Join(DefaultDir, "tada.log")
	cfg.LogLevel = DefaultLogLevel
	cfg.Theme = DefaultTheme
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fmt.Errorf("%w: unknown key %q", ErrInvalid, keys[0].String())
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TADA_USER_ID"); v != "" {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: TADA_USER_ID: %v", ErrInvalid, err)
		}
		cfg.UserID = id
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks the settings a session cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.UserID <= 0:
		return fmt.Errorf("%w: user_id must be set to a positive id (config or TADA_USER_ID)", ErrInvalid)
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base_url is empty", ErrInvalid)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalid)
	case c.NotifyTTL <= 0:
		return fmt.Errorf("%w: notify_ttl must be positive", ErrInvalid)
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
