package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pullsheet/internal/backdrop"
	"pullsheet/internal/tui/util"
)

type styles struct {
	frame    lipgloss.Style
	title    lipgloss.Style
	close    lipgloss.Style
	grabber  lipgloss.Style
	backdrop backdrop.Descriptor
	custom   backdrop.Descriptor
	cursor   lipgloss.Style
	help     lipgloss.Style
	appTitle lipgloss.Style
	appText  lipgloss.Style
	status   lipgloss.Style
}

func newStyles(p util.Palette, noColor bool) styles {
	if noColor {
		return styles{
			frame:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
			title:    lipgloss.NewStyle().Bold(true),
			close:    lipgloss.NewStyle(),
			grabber:  lipgloss.NewStyle(),
			backdrop: backdrop.Descriptor{Style: lipgloss.NewStyle(), Fill: " "},
			custom:   backdrop.Descriptor{Style: lipgloss.NewStyle(), Fill: "░"},
			cursor:   lipgloss.NewStyle().Reverse(true),
			help:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
			appTitle: lipgloss.NewStyle().Bold(true),
			appText:  lipgloss.NewStyle(),
			status:   lipgloss.NewStyle(),
		}
	}
	return styles{
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary),
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		close:    lipgloss.NewStyle().Foreground(p.Danger).Bold(true),
		grabber:  lipgloss.NewStyle().Foreground(p.Muted),
		backdrop: backdrop.Descriptor{Style: lipgloss.NewStyle().Background(p.Backdrop), Fill: " "},
		custom:   backdrop.Descriptor{Style: lipgloss.NewStyle().Foreground(p.Warning), Fill: "░"},
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		help:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Muted).Padding(0, 1),
		appTitle: lipgloss.NewStyle().Bold(true).Foreground(p.Success),
		appText:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "236", Dark: "252"}),
		status:   lipgloss.NewStyle().Foreground(p.MutedDark),
	}
}

// gutterFor renders one background cell from d, falling back to def.
func gutterFor(d *backdrop.Descriptor, def backdrop.Descriptor) string {
	if d == nil {
		d = &def
	}
	fill := d.Fill
	if fill == "" {
		fill = " "
	}
	return d.Style.Render(fill)
}
