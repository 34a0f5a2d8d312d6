// Package notify holds the transient error banner.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays up unless dismissed.
const DefaultTTL = 3 * time.Second

// Banner messages.
const (
	MsgLoad       = "Unable to load todos"
	MsgAdd        = "Unable to add a todo"
	MsgDelete     = "Unable to delete a todo"
	MsgUpdate     = "Unable to update a todo"
	MsgEmptyTitle = "Title should not be empty"
)

// Notifier shows one message at a time. A newer message replaces the
// current one and gets its own full TTL; timers armed for an older
// message never clear a newer one.
type Notifier struct {
	ttl time.Duration

	mu       sync.Mutex
	msg      string
	gen      uint64
	timer    *time.Timer
	onChange func(msg string)
}

// New returns a notifier whose messages expire after ttl.
// A non-positive ttl uses DefaultTTL.
func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl}
}

// OnChange registers fn to run after every change, outside the lock.
func (n *Notifier) OnChange(fn func(msg string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// Message returns the current banner text, empty when hidden.
func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}

// Show sets msg and arms the auto-dismiss timer.
func (n *Notifier) Show(msg string) {
	n.mu.Lock()
	n.msg = msg
	n.armLocked()
	fn := n.onChange
	n.mu.Unlock()
	notify(fn, msg)
}

// Rearm restarts the auto-dismiss timer for the current message.
func (n *Notifier) Rearm() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.msg == "" {
		return
	}
	n.armLocked()
}

// Dismiss hides the banner now.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.gen++
	n.stopLocked()
	changed := n.msg != ""
	n.msg = ""
	fn := n.onChange
	n.mu.Unlock()
	if changed {
		notify(fn, "")
	}
}

func (n *Notifier) armLocked() {
	n.gen++
	n.stopLocked()
	gen := n.gen
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
}

func (n *Notifier) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.msg == "" {
		n.mu.Unlock()
		return
	}
	n.msg = ""
	n.timer = nil
	fn := n.onChange
	n.mu.Unlock()
	notify(fn, "")
}

func notify(fn func(string), msg string) {
	if fn != nil {
		fn(msg)
	}
}
