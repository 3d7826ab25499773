package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// frame describes one composited screen.
type frame struct {
	width, height int
	// top is the row where the sheet's first line lands.
	top int
	// under is the screen behind the sheet, shown above it while dragged.
	under string
	sheet string
	// gutter is the background column painted on each side of the sheet.
	gutter string
	dim    bool
}

// compose lays the sheet over the screen behind it. The background gutters
// use the same top row as the sheet so both move together.
func compose(f frame) string {
	if f.width <= 0 || f.height <= 0 {
		return ""
	}
	under := fitLines(f.under, f.width, f.height)
	sheet := strings.Split(f.sheet, "\n")
	inner := f.width - 2*ansi.StringWidth(f.gutter)
	if inner < 0 {
		inner = 0
	}

	out := make([]string, f.height)
	for r := 0; r < f.height; r++ {
		if r < f.top {
			line := under[r]
			if f.dim {
				line = dimStyle.Render(ansi.Strip(line))
			}
			out[r] = line
			continue
		}
		i := r - f.top
		body := ""
		if i < len(sheet) {
			body = sheet[i]
		}
		out[r] = f.gutter + fit(body, inner) + f.gutter
	}
	return strings.Join(out, "\n")
}

var dimStyle = lipgloss.NewStyle().Faint(true)

// fitLines returns exactly n lines of exactly width cells.
func fitLines(s string, width, n int) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, n)
	for i := range out {
		if i < len(lines) {
			out[i] = fit(lines[i], width)
		} else {
			out[i] = strings.Repeat(" ", width)
		}
	}
	return out
}

// fit truncates or pads s to width cells, ANSI-aware.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}
