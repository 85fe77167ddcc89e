// Package notify holds the transient "Added X to basket!" banners shown to
// each session.
package notify

import (
	"sync"
	"time"
)

// Phase is the lifecycle stage of a banner.
type Phase string

const (
	PhaseVisible Phase = "visible"
	PhaseFading  Phase = "fading"
)

// Default timings.
const (
	DefaultDisplay = 3000 * time.Millisecond
	DefaultFade    = 300 * time.Millisecond
)

// Banner is a snapshot of the banner a session currently has.
type Banner struct {
	ID      uint64    `json:"id"`
	Message string    `json:"message"`
	Phase   Phase     `json:"phase"`
	ShownAt time.Time `json:"shown_at"`
}

// Fading reports whether the banner is in its fade-out phase.
func (b Banner) Fading() bool {
	return b.Phase == PhaseFading
}

type entry struct {
	banner Banner
	timer  *time.Timer
}

// Board keeps at most one banner per session. Showing a new banner replaces
// the previous one. Each banner stays visible for the display duration, then
// fades for the fade duration, then disappears. The fade timer is only
// scheduled once the display timer has fired.
type Board struct {
	mu      sync.Mutex
	entries map[string]*entry
	display time.Duration
	fade    time.Duration
	seq     uint64
	now     func() time.Time
	closed  bool
}

// NewBoard creates a board. Non-positive durations fall back to the defaults.
func NewBoard(display, fade time.Duration) *Board {
	if display <= 0 {
		display = DefaultDisplay
	}
	if fade <= 0 {
		fade = DefaultFade
	}
	return &Board{
		entries: make(map[string]*entry),
		display: display,
		fade:    fade,
		now:     time.Now,
	}
}

// Show displays message for a session, replacing any banner already shown.
func (b *Board) Show(sessionID, message string) Banner {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.entries[sessionID]; ok {
		old.timer.Stop()
	}

	b.seq++
	id := b.seq
	e := &entry{banner: Banner{
		ID:      id,
		Message: message,
		Phase:   PhaseVisible,
		ShownAt: b.now().UTC(),
	}}
	if b.closed {
		return e.banner
	}
	e.timer = time.AfterFunc(b.display, func() { b.startFade(sessionID, id) })
	b.entries[sessionID] = e

	return e.banner
}

// Current returns the banner a session is showing, if any.
func (b *Board) Current(sessionID string) (Banner, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[sessionID]
	if !ok {
		return Banner{}, false
	}
	return e.banner, true
}

// Len returns the number of sessions with a banner.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Close stops every pending timer and drops all banners.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, e := range b.entries {
		e.timer.Stop()
		delete(b.entries, id)
	}
	b.closed = true
}

func (b *Board) startFade(sessionID string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[sessionID]
	if !ok || e.banner.ID != id {
		return
	}
	e.banner.Phase = PhaseFading
	e.timer = time.AfterFunc(b.fade, func() { b.remove(sessionID, id) })
}

func (b *Board) remove(sessionID string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.entries[sessionID]; ok && e.banner.ID == id {
		delete(b.entries, sessionID)
	}
}
