// Package notify implements the transient error-notification channel.
//
// At most one message is visible. It disappears on its own after the
// configured lifetime, or immediately when a newer message replaces it.
package notify

import (
	"sync"
	"time"
)

// DefaultDismissAfter is how long a message stays visible.
const DefaultDismissAfter = 6 * time.Second

// ChangeFunc is called whenever the visible message changes.
// visible is false when the message was dismissed.
type ChangeFunc func(message string, visible bool)

type Notifier struct {
	mu           sync.Mutex
	dismissAfter time.Duration
	message      string
	visible      bool
	generation   uint64
	timer        *time.Timer
	onChange     ChangeFunc
}

// New creates a notifier. onChange may be nil.
func New(dismissAfter time.Duration, onChange ChangeFunc) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{
		dismissAfter: dismissAfter,
		onChange:     onChange,
	}
}

// Show makes message the visible notification, replacing any previous one.
func (n *Notifier) Show(message string) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.generation++
	gen := n.generation
	n.message = message
	n.visible = true
	n.timer = time.AfterFunc(n.dismissAfter, func() { n.expire(gen) })
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(message, true)
	}
}

// Dismiss hides the visible notification, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.generation++
	wasVisible := n.visible
	message := n.message
	n.visible = false
	n.message = ""
	onChange := n.onChange
	n.mu.Unlock()

	if wasVisible && onChange != nil {
		onChange(message, false)
	}
}

// Current returns the visible message.
func (n *Notifier) Current() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.visible
}

// DismissAfter returns the lifetime of a message.
func (n *Notifier) DismissAfter() time.Duration {
	return n.dismissAfter
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || !n.visible {
		n.mu.Unlock()
		return
	}
	message := n.message
	n.visible = false
	n.message = ""
	n.timer = nil
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(message, false)
	}
}
