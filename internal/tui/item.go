package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ItemSheet presents a sheet for an optional item: it is shown while an item
// is set and the item is cleared once the sheet is dismissed.
type ItemSheet[T any] struct {
	*Sheet
	item   *T
	render func(T) string
	title  func(T) string
}

func NewItemSheet[T any](cfg SheetConfig, render func(T) string) *ItemSheet[T] {
	return &ItemSheet[T]{Sheet: NewSheet(cfg), render: render}
}

// WithTitle derives the sheet title from the presented item.
func (s *ItemSheet[T]) WithTitle(fn func(T) string) *ItemSheet[T] {
	s.title = fn
	return s
}

// Present shows the sheet for item, replacing any item already shown.
func (s *ItemSheet[T]) Present(item T) tea.Cmd {
	s.item = &item
	if s.title != nil {
		s.SetTitle(s.title(item))
	}
	s.Refresh()
	return s.Show()
}

// Item returns the presented item, if any.
func (s *ItemSheet[T]) Item() (T, bool) {
	if s.item == nil {
		var zero T
		return zero, false
	}
	return *s.item, true
}

// Refresh re-renders the presented item, e.g. after a resize.
func (s *ItemSheet[T]) Refresh() {
	if s.item == nil || s.render == nil {
		return
	}
	offset := s.ScrollOffset()
	s.SetContent(s.render(*s.item))
	s.vp.SetYOffset(offset)
	s.syncScroll()
}

// Dismiss hides the sheet and clears the item.
func (s *ItemSheet[T]) Dismiss() tea.Cmd {
	cmd := s.Hide()
	s.item = nil
	return cmd
}

func (s *ItemSheet[T]) Update(msg tea.Msg) tea.Cmd {
	if d, ok := msg.(DismissedMsg); ok && d.ID == s.ID() {
		s.item = nil
		return nil
	}
	return s.Sheet.Update(msg)
}
