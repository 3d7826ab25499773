package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Article is one entry of the demo list.
type Article struct {
	Title string
	Body  string
}

// Markdown is the article as a markdown document.
func (a Article) Markdown() string {
	return "# " + a.Title + "\n\n" + a.Body
}

// DemoArticles returns the built-in demo content.
func DemoArticles() []Article {
	return []Article{
		{
			Title: "Pull to dismiss",
			Body: strings.Join([]string{
				"Press anywhere on the sheet and drag **down** to move it.",
				"Let go past the middle of the screen, or flick it, and the sheet slides away.",
				"Let go early and it springs back into place.",
				"",
				"> The sheet only follows your drag while its content is scrolled to the top.",
			}, "\n"),
		},
		{
			Title: "Scrolling first",
			Body:  longBody(),
		},
		{
			Title: "Backgrounds",
			Body: strings.Join([]string{
				"Press `b` while a sheet is open to swap the background painted",
				"beside it. The choice lasts until the sheet goes away; the next",
				"sheet starts with the default again.",
			}, "\n"),
		},
	}
}

func longBody() string {
	var b strings.Builder
	b.WriteString("Drag down on this one and the content scrolls back toward the top first.\n")
	b.WriteString("Once it is at the top the same drag starts moving the sheet.\n\n")
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&b, "%d. Line %d of a long list.\n", i, i)
	}
	return b.String()
}

// markdown renders articles with glamour, caching one renderer per width.
type markdown struct {
	style string
	width int
	r     *glamour.TermRenderer
}

func newMarkdown(noColor bool) *markdown {
	style := "dark"
	if noColor {
		style = "notty"
	}
	return &markdown{style: style}
}

func (m *markdown) Render(src string, width int) string {
	if width < 10 {
		width = 10
	}
	if m.r == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return src
		}
		m.r, m.width = r, width
	}
	out, err := m.r.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}
