package helpoverlay

import (
    "fmt"
    "strings"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current screen indicated.
func (HelpOverlay) View(sheetOpen bool) string {
    screen := "LIST"
    if sheetOpen {
        screen = "SHEET"
    }
    sections := []struct{
        title string
        keys  []string
    }{
        {"List", []string{"↑/↓: move", "Enter: open sheet", "q: quit"}},
        {"Sheet", []string{"Drag down from the top: dismiss", "Wheel or ↑/↓: scroll", "PgUp/PgDn: fast", "Esc or [x]: close"}},
        {"Actions", []string{"b: toggle custom background", "y: copy article"}},
        {"Help", []string{"?: show/hide this help"}},
    }
    var b strings.Builder
    fmt.Fprintf(&b, "Help (Screen: %s)\n", screen)
    for _, sec := range sections {
        fmt.Fprintf(&b, "\n%s:\n", sec.title)
        for _, k := range sec.keys {
            fmt.Fprintf(&b, "  %s\n", k)
        }
    }
    return b.String()
}
