package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(message string, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if visible {
		r.events = append(r.events, "show:"+message)
	} else {
		r.events = append(r.events, "hide:"+message)
	}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestNotifier_AutoDismiss(t *testing.T) {
	rec := &recorder{}
	n := New(30*time.Millisecond, rec.record)

	n.Show("boom")

	msg, visible := n.Current()
	assert.True(t, visible)
	assert.Equal(t, "boom", msg)

	assert.Eventually(t, func() bool {
		_, visible := n.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"show:boom", "hide:boom"}, rec.snapshot())
}

func TestNotifier_NewerMessageReplaces(t *testing.T) {
	rec := &recorder{}
	n := New(80*time.Millisecond, rec.record)

	n.Show("first")
	time.Sleep(50 * time.Millisecond)
	n.Show("second")

	// The first message's timer must not hide the second one early.
	time.Sleep(50 * time.Millisecond)
	msg, visible := n.Current()
	assert.True(t, visible)
	assert.Equal(t, "second", msg)

	assert.Eventually(t, func() bool {
		_, visible := n.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"show:first", "show:second", "hide:second"}, rec.snapshot())
}

func TestNotifier_Dismiss(t *testing.T) {
	rec := &recorder{}
	n := New(time.Hour, rec.record)

	n.Dismiss()
	assert.Empty(t, rec.snapshot(), "dismissing nothing is silent")

	n.Show("boom")
	n.Dismiss()

	_, visible := n.Current()
	assert.False(t, visible)
	assert.Equal(t, []string{"show:boom", "hide:boom"}, rec.snapshot())
}

func TestNew_DefaultLifetime(t *testing.T) {
	n := New(0, nil)

	assert.Equal(t, DefaultDismissAfter, n.DismissAfter())
	n.Show("no callback")
	n.Dismiss()
}
