package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Makepad-fr/tada/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visibleWidth(s string) int { return runewidth.StringWidth(stripANSI(s)) }

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws lines inside a frame using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := visibleWidth(ln); vw > maxw {
			maxw = vw
		}
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		pad := strings.Repeat(" ", maxw-visibleWidth(ln))
		fmt.Fprintln(w, t.V+" "+ln+pad+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// TodoLine renders one item as "#id ☐ title", truncated to maxTitle cells.
func TodoLine(td model.Todo, busy bool, maxTitle int) string {
	t := Current()
	box, color := t.BoxUnchecked, t.Muted
	title := runewidth.Truncate(td.Title, maxTitle, "...")
	if td.Completed {
		box, color = t.BoxChecked, t.Success
		title = C(strike, title)
	}
	line := fmt.Sprintf("%s %s %s", C(dim, fmt.Sprintf("#%-4d", td.ID)), C(color, box), title)
	if busy {
		line += " " + C(t.Pending, t.Busy)
	}
	return line
}

// FooterLine renders the items-left counter and the filter links, the
// active one highlighted.
func FooterLine(todos []model.Todo, active model.Status) string {
	t := Current()
	parts := make([]string, 0, len(model.Statuses()))
	for _, s := range model.Statuses() {
		if s == active {
			parts = append(parts, C(t.Accent, "["+s.String()+"]"))
			continue
		}
		parts = append(parts, C(t.Muted, s.String()))
	}
	left := model.Remaining(todos)
	noun := "items"
	if left == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%d %s left   %s", left, noun, strings.Join(parts, " "))
}
