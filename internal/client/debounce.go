package client

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	searchDelay    = 300 * time.Millisecond
	minQueryLength = 2
)

// SearchDebouncer fires a search at most once per quiet period of typing.
// Queries shorter than two characters never fire and instead invoke the
// reset callback, clearing any season dropdown built for a previous query.
type SearchDebouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewSearchDebouncer uses the standard 300ms delay.
func NewSearchDebouncer() *SearchDebouncer {
	return &SearchDebouncer{delay: searchDelay}
}

// Input records a keystroke's resulting query. search runs on its own
// goroutine after the quiet period; reset runs synchronously for short
// queries.
func (d *SearchDebouncer) Input(query string, search func(string), reset func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		if reset != nil {
			reset()
		}
		return
	}

	d.mu.Lock()
	d.timer = time.AfterFunc(d.delay, func() {
		search(trimmed)
	})
	d.mu.Unlock()
}

// Stop cancels any pending search.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
