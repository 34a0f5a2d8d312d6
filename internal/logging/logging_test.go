package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("remote call failed", "method", "List")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "remote call failed")
	assert.Contains(t, out, "method=List")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tada.log")
	l, c, err := OpenFile(path, "debug")
	require.NoError(t, err)

	l.Debug("loaded todos", "count", 3)
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "count=3")
}

func TestConsoleQuietBelowErrors(t *testing.T) {
	tests := []struct {
		level string
		warn  bool
		debug bool
	}{
		{level: "info"},
		{level: "warn"},
		{level: "bogus"},
		{level: "debug", warn: true, debug: true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := Console(&buf, tt.level)
			l.Debug("dbg line")
			l.Warn("warn line")
			l.Error("error line")

			out := buf.String()
			assert.Contains(t, out, "error line")
			assert.Equal(t, tt.warn, strings.Contains(out, "warn line"))
			assert.Equal(t, tt.debug, strings.Contains(out, "dbg line"))
		})
	}
}
