package finder

import (
	"sync"
	"time"
)

// MessageTTL is how long a notification stays visible.
const MessageTTL = 3 * time.Second

// Notifier is a single-slot transient message. Showing a message replaces
// the current one and restarts the hide timer.
type Notifier struct {
	TTL time.Duration

	mu    sync.Mutex
	msg   string
	gen   uint64
	timer *time.Timer
}

// Show displays msg for TTL.
func (n *Notifier) Show(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ttl := n.TTL
	if ttl <= 0 {
		ttl = MessageTTL
	}
	n.gen++
	gen := n.gen
	n.msg = msg
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(ttl, func() {
		n.mu.Lock()
		if n.gen == gen {
			n.msg = ""
		}
		n.mu.Unlock()
	})
}

// Current returns the visible message, or "" when none is.
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}
