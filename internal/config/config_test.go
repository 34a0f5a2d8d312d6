package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultNotifyTTL, cfg.NotifyTTL)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, 0, cfg.UserID)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("TADA_API_URL", "")
	t.Setenv("TADA_USER_ID", "")
	path := writeConfig(t, `
base_url = "http://localhost:8080"
user_id = 42
timeout = "2s"
notify_ttl = "1500ms"
theme = "neon"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 42, cfg.UserID)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.NotifyTTL)
	assert.Equal(t, "neon", cfg.Theme)
	assert.Equal(t, path, cfg.Source)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "user_id = 1\n")
	t.Setenv("TADA_USER_ID", "99")
	t.Setenv("TADA_API_URL", "http://example.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.UserID)
	assert.Equal(t, "http://example.test", cfg.BaseURL)
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Setenv("TADA_USER_ID", "")

	_, err := Load(writeConfig(t, "colour = \"red\"\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "user_id = \n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	t.Setenv("TADA_USER_ID", "seven")
	_, err = Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadWithoutDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TADA_USER_ID", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Source)
	assert.Equal(t, 3, cfg.UserID)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{}
		setDefaults(&c)
		c.UserID = 1
		return c
	}
	tests := []struct {
		name  string
		tweak func(*Config)
	}{
		{"no user", func(c *Config) { c.UserID = 0 }},
		{"negative user", func(c *Config) { c.UserID = -4 }},
		{"empty url", func(c *Config) { c.BaseURL = " " }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero ttl", func(c *Config) { c.NotifyTTL = 0 }},
	}
	ok := base()
	assert.NoError(t, ok.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.tweak(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, filepath.Join(home, "a", "b"), expandPath("~/a/b"))
	assert.Equal(t, "/abs", expandPath("/abs"))
}
