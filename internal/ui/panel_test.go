package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/tada/internal/model"
)

func plain(t *testing.T) {
	t.Helper()
	SetColorForcing(false, true)
	SetTheme("classic")
	t.Cleanup(func() { SetColorForcing(false, false) })
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "██░░░  40%", ProgressBar(2, 5, 5))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 2))
}

func TestPanelFramesLines(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "☑ wide"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"┌────────┐",
		"│ ab     │",
		"│ ☑ wide │",
		"└────────┘",
	}, lines)
}

func TestTodoLine(t *testing.T) {
	plain(t)
	td := model.Todo{ID: 12, Title: "Buy milk and bread"}
	assert.Equal(t, "#12   ☐ Buy milk and bread", TodoLine(td, false, 80))
	assert.Equal(t, "#12   ☐ Buy mil... …", TodoLine(td, true, 10))

	td.Completed = true
	assert.Equal(t, "#12   ☑ Buy milk and bread", TodoLine(td, false, 80))
}

func TestFooterLine(t *testing.T) {
	plain(t)
	todos := []model.Todo{{ID: 1}, {ID: 2, Completed: true}}
	assert.Equal(t, "1 item left   All [Active] Completed", FooterLine(todos, model.Active))
	assert.Equal(t, "0 items left   [All] Active Completed", FooterLine(nil, model.All))
}

func TestMonoTheme(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() {
		SetTheme("classic")
		SetColorForcing(false, false)
	})
	td := model.Todo{ID: 1, Title: "x", Completed: true}
	assert.Equal(t, "#1    [x] x", TodoLine(td, false, 80))
}
