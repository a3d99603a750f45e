package service

import (
	"sync"
	"time"
)

// CallbackDedup is the processed-callback set behind at-most-once event
// handling. The transport may deliver the same interaction event twice;
// entries older than the window are evicted on insert so the set stays
// bounded over the process lifetime.
type CallbackDedup struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewCallbackDedup constructs the set with the given eviction window.
func NewCallbackDedup(window time.Duration) *CallbackDedup {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &CallbackDedup{
		window: window,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
}

// MarkProcessed records the event id and reports whether this was its first
// delivery. A false return means the event was already handled and must be
// acknowledged without side effects.
func (d *CallbackDedup) MarkProcessed(eventID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, at := range d.seen {
		if now.Sub(at) > d.window {
			delete(d.seen, id)
		}
	}

	if _, dup := d.seen[eventID]; dup {
		return false
	}
	d.seen[eventID] = now
	return true
}

// Size returns the current number of tracked event ids.
func (d *CallbackDedup) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
