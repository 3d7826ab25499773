package diff

import (
    "strings"

    "github.com/charmbracelet/lipgloss"
    dmp "github.com/sergi/go-diff/diffmatchpatch"
)

var (
    delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
    addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
)

// Line is one changed line of a line-mode diff.
type Line struct {
    Added bool
    Text  string
}

func (l Line) String() string {
    if l.Added {
        return "+ " + l.Text
    }
    return "- " + l.Text
}

// Lines returns the lines removed from before and added in after, in order.
// Each distinct line is encoded as one rune so the diff runs line by line.
func Lines(before, after string) []Line {
    if before == after {
        return nil
    }
    var t lineTable
    a, b := t.encode(before), t.encode(after)
    var out []Line
    for _, df := range dmp.New().DiffMainRunes(a, b, false) {
        if df.Type == dmp.DiffEqual {
            continue
        }
        for _, r := range df.Text {
            out = append(out, Line{Added: df.Type == dmp.DiffInsert, Text: t.line(r)})
        }
    }
    return out
}

// lineBase keeps encoded lines clear of the surrogate range.
const lineBase = 0xE000

type lineTable struct {
    index map[string]rune
    lines []string
}

func (t *lineTable) encode(s string) []rune {
    if t.index == nil {
        t.index = map[string]rune{}
    }
    lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
    out := make([]rune, len(lines))
    for i, l := range lines {
        r, ok := t.index[l]
        if !ok {
            r = rune(lineBase + len(t.lines))
            t.index[l] = r
            t.lines = append(t.lines, l)
        }
        out[i] = r
    }
    return out
}

func (t *lineTable) line(r rune) string {
    i := int(r - lineBase)
    if i < 0 || i >= len(t.lines) {
        return ""
    }
    return t.lines[i]
}

// View renders changed lines with +/- markers; plain drops the colors.
func View(changed []Line, plain bool) string {
    if len(changed) == 0 {
        return "No changes\n"
    }
    var b strings.Builder
    for _, l := range changed {
        s := l.String()
        if !plain {
            if l.Added {
                s = addLine.Render(s)
            } else {
                s = delLine.Render(s)
            }
        }
        b.WriteString(s)
        b.WriteString("\n")
    }
    return b.String()
}
