package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"pullsheet/internal/backdrop"
	"pullsheet/internal/dismiss"
	"pullsheet/internal/gesture"
	"pullsheet/internal/logging"
	"pullsheet/internal/tui/util"
)

var lastID int64

func nextID() int { return int(atomic.AddInt64(&lastID, 1)) }

// SheetConfig configures a sheet.
type SheetConfig struct {
	Title            string
	Tunables         dismiss.Tunables
	VelocityWindow   time.Duration
	EntranceDuration time.Duration
	// MatchedTransition tags the entrance as a zoom transition; drags cannot
	// begin until it has finished.
	MatchedTransition bool
	DimBackdrop       bool
	NoColor           bool
	Logger            *slog.Logger
	// Zone enables the clickable close control. The program's View must
	// pass its output through Zone.Scan.
	Zone *zone.Manager
	Now  func() time.Time
}

type continuationMsg struct {
	sheet int
	c     dismiss.Continuation
}

type frameMsg struct {
	sheet int
	token dismiss.Token
}

// DismissedMsg is sent once a sheet has left the screen. Forced is set when
// it was closed from outside the drag (Esc, close control, Hide).
type DismissedMsg struct {
	ID     int
	Forced bool
}

type transition struct {
	active   bool
	elapsed  time.Duration
	duration time.Duration
}

func (t transition) progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return math.Min(float64(t.elapsed)/float64(t.duration), 1)
}

// easeOut is a cubic ease-out.
func easeOut(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// Sheet is a full-screen overlay with pull-to-dismiss. Mouse drags are fed
// through the gesture arbiter: downward drags with the content at its top
// move the sheet, everything else scrolls the content.
type Sheet struct {
	id      int
	cfg     SheetConfig
	st      styles
	log     *slog.Logger
	machine *dismiss.Machine
	tracker *gesture.Tracker
	vp      viewport.Model

	bg       *backdrop.Channel
	unsub    func()
	customBG bool

	width, height int
	visible       bool
	offset        float64
	entrance      transition
	exit          transition
	exitFrom      float64
	ticking       bool

	pending *SheetConfig
}

func NewSheet(cfg SheetConfig) *Sheet {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Sheet{
		id:      nextID(),
		cfg:     cfg,
		st:      newStyles(util.DefaultPalette(), util.NoColor(cfg.NoColor)),
		log:     cfg.Logger,
		tracker: gesture.NewTracker(cfg.VelocityWindow),
		vp:      viewport.New(0, 0),
		bg:      backdrop.New(),
	}
	s.machine = dismiss.NewMachine(cfg.Tunables, 0,
		dismiss.WithTransitionTags(s.activeTransitions),
		dismiss.WithLogger(cfg.Logger),
	)
	return s
}

func (s *Sheet) ID() int { return s.id }

func (s *Sheet) Visible() bool { return s.visible }

// State is the interaction state of the current presentation.
func (s *Sheet) State() dismiss.State { return s.machine.State() }

// Backdrop is the background channel of the current presentation. Setting
// a descriptor replaces the default backdrop until the sheet is dismissed.
func (s *Sheet) Backdrop() *backdrop.Channel { return s.bg }

func (s *Sheet) HasCustomBackground() bool { return s.customBG }

// ScrollOffset is the content's distance from its top, in rows.
func (s *Sheet) ScrollOffset() int { return s.vp.YOffset }

// SetTunables takes effect at the next presentation.
func (s *Sheet) SetTunables(t dismiss.Tunables) {
	s.cfg.Tunables = t
	if s.pending != nil {
		s.pending.Tunables = t
	}
}

// Reconfigure replaces the gesture, timing and appearance settings from the
// next presentation on. Title, logger, zone manager and clock are kept.
func (s *Sheet) Reconfigure(cfg SheetConfig) {
	s.pending = &cfg
}

func (s *Sheet) applyPending() {
	p := s.pending
	if p == nil {
		return
	}
	s.pending = nil
	p.Title, p.Logger, p.Zone, p.Now = s.cfg.Title, s.cfg.Logger, s.cfg.Zone, s.cfg.Now
	s.cfg = *p
	s.st = newStyles(util.DefaultPalette(), util.NoColor(s.cfg.NoColor))
}

func (s *Sheet) SetTitle(title string) { s.cfg.Title = title }

func (s *Sheet) SetContent(content string) {
	s.vp.SetContent(content)
	s.syncScroll()
}

// SetSize sets the screen area the sheet covers.
func (s *Sheet) SetSize(width, height int) {
	s.width, s.height = width, height
	s.vp.Width = max(width-4, 0)
	s.vp.Height = max(height-3, 0)
	s.vp.SetYOffset(s.vp.YOffset)
	s.machine.SetContainerHeight(float64(height))
	s.offset = s.machine.State().VerticalOffset
	s.syncScroll()
}

// SetPresented shows or hides the sheet to match a boolean flag.
func (s *Sheet) SetPresented(on bool) tea.Cmd {
	switch {
	case on && !s.visible:
		return s.Show()
	case !on && s.visible:
		return s.Hide()
	}
	return nil
}

// Show presents the sheet. Showing an already visible sheet starts a fresh
// presentation; anything pending from the previous one is dropped.
func (s *Sheet) Show() tea.Cmd {
	s.applyPending()
	s.machine.SetTunables(s.cfg.Tunables)
	s.tracker.Window = s.cfg.VelocityWindow
	if s.tracker.Window <= 0 {
		s.tracker.Window = gesture.DefaultVelocityWindow
	}
	s.tracker.End()
	s.machine.Present()
	s.resetBackdrop()
	s.visible = true
	s.offset = 0
	s.exit = transition{}
	s.ticking = false
	s.vp.GotoTop()
	s.syncScroll()
	s.log.Info("sheet presented", "sheet", s.id, "token", s.machine.Token())

	if s.cfg.EntranceDuration <= 0 {
		s.entrance = transition{}
		return nil
	}
	s.entrance = transition{active: true, duration: s.cfg.EntranceDuration}
	return s.tick()
}

// Hide dismisses the sheet from outside the gesture.
func (s *Sheet) Hide() tea.Cmd {
	if !s.visible {
		return nil
	}
	s.log.Info("sheet closed", "sheet", s.id, "phase", s.machine.State().Phase)
	s.machine.Teardown()
	s.cleanup()
	return s.emit(DismissedMsg{ID: s.id, Forced: true})
}

func (s *Sheet) cleanup() {
	s.visible = false
	s.offset = 0
	s.entrance = transition{}
	s.exit = transition{}
	s.ticking = false
	s.tracker.End()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	s.bg.Close()
	s.customBG = false
}

func (s *Sheet) resetBackdrop() {
	if s.unsub != nil {
		s.unsub()
	}
	s.bg.Close()
	s.bg = backdrop.New()
	s.customBG = false
	s.unsub = s.bg.Subscribe(func(d *backdrop.Descriptor) {
		s.customBG = d != nil
	})
}

func (s *Sheet) activeTransitions() []gesture.TransitionTag {
	if !s.entrance.active {
		return nil
	}
	if s.cfg.MatchedTransition {
		return []gesture.TransitionTag{gesture.TagZoom}
	}
	return []gesture.TransitionTag{gesture.TagSlide}
}

// Update handles input and the sheet's own scheduled messages.
func (s *Sheet) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case continuationMsg:
		if msg.sheet != s.id {
			return nil
		}
		return s.apply(s.machine.Resume(msg.c))
	case frameMsg:
		if msg.sheet != s.id || msg.token != s.machine.Token() || !s.visible {
			return nil
		}
		return s.advance()
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return nil
	}

	if !s.visible {
		return nil
	}
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return s.handleMouse(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	case tea.BlurMsg:
		return s.cancelDrag()
	}
	return nil
}

func (s *Sheet) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return s.Hide()
	case "up", "k":
		s.scrollBy(-1)
	case "down", "j":
		s.scrollBy(1)
	case "pgup":
		s.scrollBy(-s.vp.Height)
	case "pgdown", " ":
		s.scrollBy(s.vp.Height)
	case "home", "g":
		s.scrollBy(-s.vp.YOffset)
	}
	return nil
}

func (s *Sheet) handleMouse(msg tea.MouseMsg) tea.Cmd {
	now := s.cfg.Now()
	y := float64(msg.Y)

	if tea.MouseEvent(msg).IsWheel() {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			s.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			s.scrollBy(3)
		}
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if s.cfg.Zone != nil {
			if zi := s.cfg.Zone.Get(s.closeZoneID()); zi != nil && zi.InBounds(msg) {
				return s.Hide()
			}
		}
		if msg.Y < s.RenderOffset() {
			return nil
		}
		s.tracker.Start(y, now)
		return nil

	case tea.MouseActionMotion:
		if !s.tracker.Active() {
			return nil
		}
		prev := s.tracker.Last()
		sample := s.tracker.Move(y, now)
		if s.machine.State().Phase == dismiss.Dragging {
			return s.apply(s.machine.OnGestureEvent(gesture.Changed, sample))
		}
		if s.machine.CanBegin() && s.machine.ShouldRecognizeSimultaneously(sample) {
			s.tracker.Rebase(prev)
			sample = s.tracker.Sample()
			s.log.Debug("dismiss drag began", "sheet", s.id, "velocity", sample.Velocity)
			return s.apply(s.machine.OnGestureEvent(gesture.Began, sample))
		}
		// Touch-style scrolling: dragging down reveals earlier content.
		s.scrollBy(-int(math.Round(y - prev)))
		return nil

	case tea.MouseActionRelease:
		if !s.tracker.Active() {
			return nil
		}
		sample := s.tracker.Move(y, now)
		s.tracker.End()
		if s.machine.State().Phase != dismiss.Dragging {
			return nil
		}
		return s.apply(s.machine.OnGestureEvent(gesture.Ended, sample))
	}
	return nil
}

func (s *Sheet) cancelDrag() tea.Cmd {
	if !s.tracker.Active() {
		return nil
	}
	sample := s.tracker.Sample()
	s.tracker.End()
	if s.machine.State().Phase != dismiss.Dragging {
		return nil
	}
	return s.apply(s.machine.OnGestureEvent(gesture.Cancelled, sample))
}

func (s *Sheet) scrollBy(n int) {
	if n == 0 || s.machine.State().ScrollLocked {
		return
	}
	s.vp.SetYOffset(s.vp.YOffset + n)
	s.syncScroll()
}

func (s *Sheet) syncScroll() {
	s.machine.OnScrollPositionChanged(gesture.ScrollPosition{OffsetFromTop: float64(s.vp.YOffset)})
}

// apply renders a machine result and schedules its continuations.
func (s *Sheet) apply(r dismiss.Result) tea.Cmd {
	s.offset = r.Offset
	var cmds []tea.Cmd
	for _, c := range r.Continuations {
		cmds = append(cmds, s.schedule(c))
	}
	if r.Command == dismiss.Dismiss {
		s.exit = transition{active: true, duration: s.machine.Tunables().SettleDelay}
		s.exitFrom = r.Offset
		cmds = append(cmds, s.tick())
	}
	if r.Done {
		s.log.Info("sheet dismissed", "sheet", s.id)
		s.machine.Teardown()
		s.cleanup()
		cmds = append(cmds, s.emit(DismissedMsg{ID: s.id}))
	}
	return tea.Batch(cmds...)
}

func (s *Sheet) schedule(c dismiss.Continuation) tea.Cmd {
	id := s.id
	return tea.Tick(c.Delay, func(time.Time) tea.Msg {
		return continuationMsg{sheet: id, c: c}
	})
}

func (s *Sheet) tick() tea.Cmd {
	if s.ticking {
		return nil
	}
	s.ticking = true
	id, token := s.id, s.machine.Token()
	return tea.Tick(s.machine.Tunables().FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{sheet: id, token: token}
	})
}

// advance steps the host-side entrance and exit animations by one frame.
func (s *Sheet) advance() tea.Cmd {
	s.ticking = false
	step := s.machine.Tunables().FrameInterval
	if s.entrance.active {
		s.entrance.elapsed += step
		if s.entrance.elapsed >= s.entrance.duration {
			s.entrance = transition{}
		}
	}
	if s.exit.active && s.exit.elapsed < s.exit.duration {
		s.exit.elapsed += step
	}
	if s.entrance.active || (s.exit.active && s.exit.elapsed < s.exit.duration) {
		return s.tick()
	}
	return nil
}

func (s *Sheet) emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// RenderOffset is the row where the sheet's top currently lands: the
// gesture offset, or the entrance/exit animation when it is further down.
func (s *Sheet) RenderOffset() int {
	off := s.offset
	h := float64(s.height)
	if s.entrance.active {
		off = math.Max(off, h*(1-easeOut(s.entrance.progress())))
	}
	if s.exit.active {
		off = math.Max(off, s.exitFrom+(h-s.exitFrom)*easeOut(s.exit.progress()))
	}
	return int(math.Round(dismiss.Clamp(off, 0, h)))
}

func (s *Sheet) closeZoneID() string {
	return fmt.Sprintf("sheet-%d-close", s.id)
}

// View draws the sheet over under, the screen behind it.
func (s *Sheet) View(under string) string {
	if !s.visible || s.width <= 0 || s.height <= 0 {
		return under
	}
	d, _ := s.bg.Current()
	return compose(frame{
		width:  s.width,
		height: s.height,
		top:    s.RenderOffset(),
		under:  under,
		sheet:  s.renderSheet(),
		gutter: gutterFor(d, s.st.backdrop),
		dim:    s.cfg.DimBackdrop,
	})
}

func (s *Sheet) renderSheet() string {
	inner := max(s.width-4, 0)
	return s.st.frame.Width(inner).Render(s.header(inner) + "\n" + s.vp.View())
}

func (s *Sheet) header(width int) string {
	title := s.st.title.Render(s.cfg.Title)
	grab := s.st.grabber.Render("━━━")
	closeLabel := s.st.close.Render("[x]")
	gap := width - ansi.StringWidth(title) - ansi.StringWidth(grab) - ansi.StringWidth(closeLabel)
	if gap < 2 {
		return fit(title, width)
	}
	left := gap / 2
	if s.cfg.Zone != nil {
		closeLabel = s.cfg.Zone.Mark(s.closeZoneID(), closeLabel)
	}
	return title + strings.Repeat(" ", left) + grab + strings.Repeat(" ", gap-left) + closeLabel
}
