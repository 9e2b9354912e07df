package socklog

import (
	"slices"
	"sync"
)

// notification is one connected/disconnected event awaiting delivery.
type notification struct {
	connected bool
	config    Config
}

// notifier delivers lifecycle notifications on a dedicated goroutine so a
// listener reacting to "connected" can never be re-entered synchronously
// from inside the state transition that produced it.
type notifier struct {
	mu           sync.Mutex
	connected    []func(Config)
	disconnected []func(Config)

	ch        chan notification
	done      chan struct{}
	closeOnce sync.Once
}

func newNotifier() *notifier {
	return &notifier{
		ch:   make(chan notification, 16),
		done: make(chan struct{}),
	}
}

// run dispatches notifications until close.
func (n *notifier) run() {
	defer close(n.done)

	for note := range n.ch {
		n.mu.Lock()
		var fns []func(Config)
		if note.connected {
			fns = slices.Clone(n.connected)
		} else {
			fns = slices.Clone(n.disconnected)
		}
		n.mu.Unlock()

		for _, fn := range fns {
			fn(note.config)
		}
	}
}

// onConnected registers a connected listener.
func (n *notifier) onConnected(fn func(Config)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.connected = append(n.connected, fn)
}

// onDisconnected registers a disconnected listener.
func (n *notifier) onDisconnected(fn func(Config)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.disconnected = append(n.disconnected, fn)
}

// notifyConnected queues a connected notification. Called only from the
// run loop.
func (n *notifier) notifyConnected(cfg Config) {
	n.ch <- notification{connected: true, config: cfg}
}

// notifyDisconnected queues a disconnected notification. Called only from
// the run loop.
func (n *notifier) notifyDisconnected(cfg Config) {
	n.ch <- notification{connected: false, config: cfg}
}

// close stops dispatch after draining queued notifications and waits for
// the dispatch goroutine to exit.
func (n *notifier) close() {
	n.closeOnce.Do(func() {
		close(n.ch)
	})
	<-n.done
}
