package statusbar

import (
    "fmt"
    "strings"

    "pullsheet/internal/dismiss"
)

// Info is what the status line reports about the sheet.
type Info struct {
    Open             bool
    State            dismiss.State
    ScrollOffset     int
    CustomBackground bool
    Notice           string
}

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes a concise status line reflecting the sheet's interaction state.
func (StatusBar) View(i Info) string {
    if !i.Open {
        parts := []string{"[LIST]", "enter: open", "?: help", "q: quit"}
        if i.Notice != "" {
            parts = append(parts, i.Notice)
        }
        return strings.Join(parts, "  ")
    }
    phase := "[" + strings.ToUpper(i.State.Phase.String()) + "]"
    offset := fmt.Sprintf("Y:%.0f", i.State.VerticalOffset)
    scroll := fmt.Sprintf("S:%d", i.ScrollOffset)
    lock := "Scroll: Free"
    if i.State.ScrollLocked {
        lock = "Scroll: Locked"
    }
    gesture := "Drag: On"
    if !i.State.GestureEnabled {
        gesture = "Drag: Off"
    }
    bg := "BG: Default"
    if i.CustomBackground {
        bg = "BG: Custom"
    }

    parts := []string{phase, offset, scroll, lock, gesture, bg}
    if i.Notice != "" {
        parts = append(parts, i.Notice)
    }
    return strings.Join(parts, "  ")
}
