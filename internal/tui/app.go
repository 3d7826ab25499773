package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"pullsheet/internal/config"
	"pullsheet/internal/logging"
	"pullsheet/internal/tui/util"
	"pullsheet/internal/tui/widgets/diff"
	"pullsheet/internal/tui/widgets/helpoverlay"
	"pullsheet/internal/tui/widgets/statusbar"
)

// Options configures the demo app.
type Options struct {
	Config config.Config
	Logger *slog.Logger
	// Changes delivers config reloads; nil disables live reload.
	Changes <-chan config.Change
	// Copy writes text to the clipboard. Defaults to the system clipboard.
	Copy     func(string) error
	Articles []Article
}

// Run starts the demo on the alternate screen and blocks until it exits.
func Run(o Options) error {
	app := NewApp(o)
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run demo: %w", err)
	}
	return nil
}

type configMsg config.Change

func waitConfig(ch <-chan config.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg(c)
	}
}

// App is the demo screen: a list of articles, each opened in a sheet.
type App struct {
	cfg      config.Config
	log      *slog.Logger
	zone     *zone.Manager
	st       styles
	md       *markdown
	sheet    *ItemSheet[Article]
	status   statusbar.StatusBar
	help     helpoverlay.HelpOverlay
	showHelp bool
	noColor  bool

	articles []Article
	cursor   int
	notice   string
	reload   []diff.Line
	changes  <-chan config.Change
	copy     func(string) error

	width, height int
}

func NewApp(o Options) *App {
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Copy == nil {
		o.Copy = clipboard.WriteAll
	}
	if len(o.Articles) == 0 {
		o.Articles = DemoArticles()
	}
	noColor := util.NoColor(o.Config.Appearance.NoColor)
	a := &App{
		cfg:      o.Config,
		log:      o.Logger,
		zone:     zone.New(),
		st:       newStyles(util.DefaultPalette(), noColor),
		md:       newMarkdown(noColor),
		status:   statusbar.NewStatusBar(),
		help:     helpoverlay.NewHelpOverlay(),
		articles: o.Articles,
		changes:  o.Changes,
		copy:     o.Copy,
		noColor:  noColor,
	}
	a.sheet = NewItemSheet(sheetConfig(o.Config, o.Logger, a.zone), a.renderArticle).
		WithTitle(func(art Article) string { return art.Title })
	return a
}

func sheetConfig(c config.Config, log *slog.Logger, z *zone.Manager) SheetConfig {
	return SheetConfig{
		Tunables:          c.Tunables(),
		VelocityWindow:    c.Gesture.VelocityWindow,
		EntranceDuration:  c.Timing.EntranceDuration,
		MatchedTransition: c.Appearance.MatchedTransition,
		DimBackdrop:       c.Appearance.DimBackdrop,
		NoColor:           util.NoColor(c.Appearance.NoColor),
		Logger:            log,
		Zone:              z,
	}
}

// Close releases the hit-testing zones.
func (a *App) Close() { a.zone.Close() }

// Sheet exposes the article sheet.
func (a *App) Sheet() *ItemSheet[Article] { return a.sheet }

func (a *App) renderArticle(art Article) string {
	return a.md.Render(art.Markdown(), max(a.sheet.vp.Width-4, 10))
}

func (a *App) Init() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	return waitConfig(a.changes)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.sheet.SetSize(msg.Width, max(msg.Height-1, 0))
		a.sheet.Refresh()
		return a, nil

	case configMsg:
		a.applyConfig(config.Change(msg))
		return a, waitConfig(a.changes)

	case DismissedMsg:
		if msg.ID == a.sheet.ID() {
			a.sheet.Update(msg)
			if msg.Forced {
				a.notice = "closed"
			} else {
				a.notice = "dismissed"
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		if a.showHelp {
			return a, nil
		}
		if a.sheet.Visible() {
			return a, a.sheet.Update(msg)
		}
		return a, a.handleListMouse(msg)
	}
	return a, a.sheet.Update(msg)
}

func (a *App) applyConfig(c config.Change) {
	if c.Err != nil {
		a.log.Warn("config reload failed", "err", c.Err)
		a.notice = "config error: " + c.Err.Error()
		return
	}
	if err := c.Config.Validate(); err != nil {
		a.log.Warn("config reload rejected", "err", err)
		a.notice = err.Error()
		return
	}
	changed := configDiff(a.cfg, c.Config)
	for _, l := range changed {
		a.log.Debug("config changed", "line", l.String())
	}
	a.cfg = c.Config
	a.reload = changed
	a.sheet.Reconfigure(sheetConfig(c.Config, a.log, a.zone))
	a.log.Info("config reloaded", "op", c.Op.String(), "changes", len(changed))
	a.notice = fmt.Sprintf("config reloaded (%d lines changed)", len(changed))
}

func configDiff(before, after config.Config) []diff.Line {
	b, err := config.Dump(before)
	if err != nil {
		return nil
	}
	a, err := config.Dump(after)
	if err != nil {
		return nil
	}
	return diff.Lines(string(b), string(a))
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	switch k {
	case "ctrl+c":
		return tea.Quit
	case "?":
		a.showHelp = !a.showHelp
		return nil
	}
	if a.showHelp {
		if k == "esc" || k == "q" {
			a.showHelp = false
		}
		return nil
	}

	if a.sheet.Visible() {
		switch k {
		case "q":
			return tea.Quit
		case "b":
			a.toggleBackground()
			return nil
		case "y":
			a.copyArticle()
			return nil
		}
		return a.sheet.Update(msg)
	}

	switch k {
	case "q":
		return tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.articles)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.open(a.cursor)
	}
	return nil
}

func (a *App) handleListMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	for i := range a.articles {
		if zi := a.zone.Get(articleZoneID(i)); zi != nil && zi.InBounds(msg) {
			a.cursor = i
			return a.open(i)
		}
	}
	return nil
}

func (a *App) open(i int) tea.Cmd {
	if i < 0 || i >= len(a.articles) {
		return nil
	}
	a.notice = ""
	cmd := a.sheet.Present(a.articles[i])
	if a.cfg.Appearance.CustomBackground {
		a.sheet.Backdrop().Set(&a.st.custom)
	}
	return cmd
}

func (a *App) toggleBackground() {
	if a.sheet.HasCustomBackground() {
		a.sheet.Backdrop().Clear()
		a.notice = "default background"
		return
	}
	a.sheet.Backdrop().Set(&a.st.custom)
	a.notice = "custom background"
}

func (a *App) copyArticle() {
	art, ok := a.sheet.Item()
	if !ok {
		return
	}
	if err := a.copy(art.Markdown()); err != nil {
		a.log.Warn("clipboard write failed", "err", err)
		a.notice = "copy failed"
		return
	}
	a.notice = "copied " + art.Title
}

func articleZoneID(i int) string { return fmt.Sprintf("article-%d", i) }

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	body := a.sheet.View(a.viewList())
	if a.showHelp {
		help := a.help.View(a.sheet.Visible())
		if len(a.reload) > 0 {
			help += "\nLast config reload (next sheet):\n" + diff.View(a.reload, a.noColor)
		}
		body = lipgloss.Place(a.width, max(a.height-1, 0), lipgloss.Center, lipgloss.Center,
			a.st.help.Render(strings.TrimRight(help, "\n")))
	}
	line := a.status.View(statusbar.Info{
		Open:             a.sheet.Visible(),
		State:            a.sheet.State(),
		ScrollOffset:     a.sheet.ScrollOffset(),
		CustomBackground: a.sheet.HasCustomBackground(),
		Notice:           a.notice,
	})
	return a.zone.Scan(body + "\n" + a.st.status.Render(fit(line, a.width)))
}

func (a *App) viewList() string {
	var b strings.Builder
	b.WriteString(a.st.appTitle.Render("pullsheet"))
	b.WriteString("\n")
	b.WriteString(a.st.appText.Render("Pick an article. Drag its sheet down to dismiss it."))
	b.WriteString("\n\n")
	for i, art := range a.articles {
		line := "  " + art.Title
		if i == a.cursor {
			line = a.st.cursor.Render("> " + art.Title)
		}
		b.WriteString(a.zone.Mark(articleZoneID(i), line))
		b.WriteString("\n")
	}
	return fitBlock(b.String(), a.width, max(a.height-1, 0))
}

// fitBlock pads s to exactly height lines of width cells.
func fitBlock(s string, width, height int) string {
	return strings.Join(fitLines(strings.TrimRight(s, "\n"), width, height), "\n")
}
