package client

import "sync"

// DialogGuard allows at most one confirmation dialog at a time.
type DialogGuard struct {
	mu   sync.Mutex
	open bool
}

// Open claims the dialog slot. It returns false when a dialog is already
// showing, in which case the caller does nothing.
func (g *DialogGuard) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open {
		return false
	}
	g.open = true
	return true
}

// Close releases the dialog slot.
func (g *DialogGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = false
}
