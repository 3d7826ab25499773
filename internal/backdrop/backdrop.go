// Package backdrop carries the optional custom background of a sheet from
// whatever content sets it up to the host that draws it.
package backdrop

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Descriptor is an opaque background description. The host paints Fill
// with Style behind the sheet.
type Descriptor struct {
	Style lipgloss.Style
	Fill  string
}

// Channel is a single-slot, last-write-wins value scoped to one
// presentation. Two values are considered equal when both are present or
// both are absent, so subscribers only hear about presence changes.
type Channel struct {
	mu     sync.Mutex
	cur    *Descriptor
	subs   map[int]func(*Descriptor)
	nextID int
	closed bool
}

func New() *Channel {
	return &Channel{subs: map[int]func(*Descriptor){}}
}

// Set stores d. Subscribers are notified when presence flips.
func (c *Channel) Set(d *Descriptor) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	changed := (c.cur == nil) != (d == nil)
	c.cur = d
	subs := c.snapshot(changed)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(d)
	}
}

// Clear removes any custom background.
func (c *Channel) Clear() { c.Set(nil) }

// Current returns the latest descriptor and whether one is set.
func (c *Channel) Current() (*Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur, c.cur != nil
}

// Subscribe registers fn and returns a function that removes it.
func (c *Channel) Subscribe(fn func(*Descriptor)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close ends the presentation's scope: subscribers are dropped and later
// writes are ignored.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cur = nil
	c.subs = map[int]func(*Descriptor){}
}

func (c *Channel) snapshot(changed bool) []func(*Descriptor) {
	if !changed || len(c.subs) == 0 {
		return nil
	}
	out := make([]func(*Descriptor), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}
