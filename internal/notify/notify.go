// Package notify models the dashboard toast: one message at a time that
// disappears on its own after a short delay.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 5 * time.Second

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Toast is a single user-facing notification.
type Toast struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"type"`
	ShownAt  time.Time `json:"shownAt"`
}

// ExpiresAt is when the toast stops being shown.
func (t Toast) ExpiresAt(ttl time.Duration) time.Time {
	return t.ShownAt.Add(ttl)
}

// Board holds the current toast. Posting a new one replaces the old.
type Board struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	toast *Toast
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, now: time.Now}
}

// TTL returns the display duration.
func (b *Board) TTL() time.Duration {
	return b.ttl
}

// Notify replaces the current toast.
func (b *Board) Notify(message string, severity Severity) Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := Toast{Message: message, Severity: severity, ShownAt: b.now()}
	b.toast = &t
	return t
}

// Current returns the toast if it has not expired by now.
func (b *Board) Current(now time.Time) (Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.toast == nil {
		return Toast{}, false
	}
	if !now.Before(b.toast.ExpiresAt(b.ttl)) {
		b.toast = nil
		return Toast{}, false
	}
	return *b.toast, true
}

// Dismiss clears the current toast.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toast = nil
}
