package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
)

// Lines taken by everything but the list: title, header input box,
// banner, footer, help and the frame.
const chromeHeight = 12

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todos"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  user %d", m.store.UserID())))
	b.WriteString("\n")
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if !m.snap.Loaded && len(m.snap.Todos) == 0 && m.snap.Error == "" {
		b.WriteString(mutedStyle.Render(m.spinner.View() + " loading..."))
	} else {
		b.WriteString(m.list.View())
	}
	if banner := m.bannerView(); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
	}
	if footer := m.footerView(); footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}
	b.WriteString("\n")
	if m.help.ShowAll {
		b.WriteString(m.help.FullHelpView(m.keys.full()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.short()))
	}
	return frameStyle.Width(m.width - 2).Render(b.String())
}

// headerView renders the toggle-all marker and the new-todo field.
func (m Model) headerView() string {
	marker := " "
	if len(m.snap.Todos) > 0 {
		marker = mutedStyle.Render(toggleAllOn)
		if model.AllCompleted(m.snap.Todos) {
			marker = accentStyle.Render(toggleAllOn)
		}
	}
	field := m.input.View()
	switch {
	case m.snap.Submitting:
		field = mutedStyle.Render("> "+m.input.Value()) + " " + pendingStyle.Render(m.spinner.View())
	case m.mode != modeAdd:
		field = mutedStyle.Render("What needs to be done? (a)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, marker+" ", inputStyle.Render(field))
}

func (m Model) bannerView() string {
	if m.snap.Error == "" {
		return ""
	}
	return bannerStyle.Render(errorStyle.Render("✖ "+m.snap.Error) + mutedStyle.Render("  (x to dismiss)"))
}

// footerView renders the counter, filter links and clear-completed; it
// is hidden for an empty list.
func (m Model) footerView() string {
	todos := m.snap.Todos
	if len(todos) == 0 {
		return ""
	}
	left := model.Remaining(todos)
	noun := "items"
	if left == 1 {
		noun = "item"
	}
	counter := fmt.Sprintf("%d %s left", left, noun)

	links := make([]string, 0, 3)
	for _, s := range model.Statuses() {
		if s == m.status {
			links = append(links, selectedStyle.Render(" "+s.String()+" "))
			continue
		}
		links = append(links, mutedStyle.Render(" "+s.String()+" "))
	}

	clearCtl := mutedStyle.Render("Clear completed")
	if model.AnyCompleted(todos) {
		clearCtl = accentStyle.Render("Clear completed (c)")
	}
	return strings.Join([]string{counter, strings.Join(links, ""), clearCtl}, "   ")
}
