// Package gallery implements the profile grid and the detail modal navigator.
package gallery

import (
	"sync"

	"github.com/BerylCAtieno/carolina-grind/internal/catalog"
	"github.com/BerylCAtieno/carolina-grind/internal/models"
)

// Direction of a carousel step.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Navigator is the detail modal state machine: Closed, or Open on exactly one
// profile of the catalog.
type Navigator struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	selected string
}

// NewNavigator returns a Closed navigator over c. c must be non-empty.
func NewNavigator(c *catalog.Catalog) *Navigator {
	return &Navigator{catalog: c}
}

// Open selects the profile with the given id. Unknown ids leave the state untouched.
func (n *Navigator) Open(id string) bool {
	if n.catalog.IndexOf(id) < 0 {
		return false
	}
	n.mu.Lock()
	n.selected = id
	n.mu.Unlock()
	return true
}

// Close clears the selection.
func (n *Navigator) Close() {
	n.mu.Lock()
	n.selected = ""
	n.mu.Unlock()
}

// Step moves the selection one position in catalog order, wrapping at both
// ends. It is a no-op while Closed.
func (n *Navigator) Step(dir Direction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.selected == "" {
		return
	}
	i := n.catalog.IndexOf(n.selected)
	if i < 0 {
		return
	}
	size := n.catalog.Len()
	if dir == Next {
		i = (i + 1) % size
	} else {
		i = (i - 1 + size) % size
	}
	n.selected = n.catalog.At(i).ID
}

func (n *Navigator) Next() { n.Step(Next) }

func (n *Navigator) Prev() { n.Step(Prev) }

// Current returns the selected profile, if any.
func (n *Navigator) Current() (models.Profile, bool) {
	n.mu.Lock()
	id := n.selected
	n.mu.Unlock()
	if id == "" {
		return models.Profile{}, false
	}
	return n.catalog.Lookup(id)
}

// IsOpen reports whether a profile is selected.
func (n *Navigator) IsOpen() bool {
	_, ok := n.Current()
	return ok
}

// Backdrop interactions close the modal only when they land outside the body.
type Target string

const (
	TargetBackdrop Target = "backdrop"
	TargetBody     Target = "body"
)

// PointerDown handles a pointer interaction on the modal overlay.
func (n *Navigator) PointerDown(target Target) {
	if target == TargetBackdrop {
		n.Close()
	}
}

// HandleKey applies a keyboard event. Everything is ignored while Closed.
func (n *Navigator) HandleKey(key Key) {
	if !n.IsOpen() {
		return
	}
	switch key {
	case KeyArrowLeft:
		n.Prev()
	case KeyArrowRight:
		n.Next()
	case KeyEscape:
		n.Close()
	}
}
