package socklog

import (
	"time"

	"github.com/typhonjs/socklog-go/pkg/wire"
)

// eventBufferSize is the capacity of the run loop's event channel.
const eventBufferSize = 256

// event is a unit of work for the run loop.
type event interface{}

type (
	// connectEvent is an explicit Connect call or the autoConnect kickoff.
	connectEvent struct{}

	// disconnectEvent is an explicit Disconnect call.
	disconnectEvent struct{ args []any }

	// logEvent is a record from one of the logging operations.
	logEvent struct{ msg wire.Message }

	// openedEvent reports the transport link is established.
	openedEvent struct{}

	// closedEvent reports the transport link is gone.
	closedEvent struct{ err error }

	// inboundEvent carries one inbound frame payload.
	inboundEvent struct{ data []byte }

	// retryEvent reports the reconnect timer fired.
	retryEvent struct{}
)

// post delivers an event to the run loop. Events posted after Close are
// dropped.
func (l *Logger) post(ev event) {
	select {
	case l.events <- ev:
	case <-l.quit:
	}
}

// run is the single logical actor owning the connection status, the
// outgoing queue and the reconnect timer.
func (l *Logger) run() {
	defer close(l.done)

	for {
		select {
		case <-l.quit:
			l.shutdown()
			return
		case ev := <-l.events:
			l.handle(ev)
		}
	}
}

// shutdown releases run-loop resources on Close.
func (l *Logger) shutdown() {
	l.cancelRetry()
	l.transport.Disconnect()
	l.queue.Clear()
	l.setStatus(Disconnected)
	l.notifier.close()
}

func (l *Logger) handle(ev event) {
	switch ev := ev.(type) {
	case connectEvent:
		l.manual = false
		l.cancelRetry()
		l.transport.Connect()

	case disconnectEvent:
		l.manual = true
		l.cancelRetry()
		l.transport.Disconnect(ev.args...)
		l.queue.Clear()
		l.setStatus(Disconnected)
		l.notifier.notifyDisconnected(l.config)

	case logEvent:
		l.queue.Enqueue(ev.msg)
		if l.Status() == Connected {
			l.flush()
		}

	case openedEvent:
		// The handshake must be the first frame on a fresh link, ahead
		// of any buffered log traffic, so it bypasses the queue.
		l.sendDirect(wire.NewConnect())

	case closedEvent:
		l.handleClosed()

	case inboundEvent:
		l.handleInbound(ev.data)

	case retryEvent:
		l.retry = nil
		if l.Status() == Disconnected && !l.manual {
			l.transport.Connect()
		}
	}
}

// handleClosed processes a transport loss. Every loss is uniform: buffered
// records are discarded and reconnection is time-based, not per-message.
func (l *Logger) handleClosed() {
	l.setStatus(Disconnected)
	l.queue.Clear()

	if l.manual {
		// Teardown initiated by Disconnect, which already notified and
		// must not auto-retry.
		return
	}

	l.notifier.notifyDisconnected(l.config)

	if l.config.AutoReconnect && l.retry == nil {
		l.scheduleRetry()
	}
}

// handleInbound dispatches one inbound frame on its "msg" discriminator.
// Unintelligible frames and unrecognized discriminators are ignored.
func (l *Logger) handleInbound(data []byte) {
	msg, err := l.config.Serializer.Decode(data)
	if err != nil {
		return
	}

	switch msg.Msg {
	case wire.MsgConnected:
		if l.Status() == Connected {
			return
		}
		l.setStatus(Connected)
		l.flush()
		l.notifier.notifyConnected(l.config)

	case wire.MsgPing:
		// Latency sensitive; answered immediately with no queue
		// involvement so it is never blocked behind a backlog.
		l.sendDirect(wire.NewPong(msg.ID))
	}
}

// flush releases as many head-of-queue records as the link allows.
func (l *Logger) flush() {
	l.queue.Flush(l.canSend)
}

// canSend is the transmit predicate: a message leaves the queue only when
// the session is established and the transport accepts the frame.
func (l *Logger) canSend(msg wire.Message) bool {
	if l.Status() != Connected {
		return false
	}

	data, err := l.config.Serializer.Encode(msg)
	if err != nil {
		// An unencodable payload can never be sent; drop it rather than
		// wedging everything behind it.
		return true
	}

	return l.transport.Send(data) == nil
}

// sendDirect encodes and sends a control message, bypassing the queue.
// A failed send surfaces as a closed event from the transport.
func (l *Logger) sendDirect(msg wire.Message) {
	data, err := l.config.Serializer.Encode(msg)
	if err != nil {
		return
	}
	_ = l.transport.Send(data)
}

// scheduleRetry arms the one-shot reconnect timer. At most one is alive at
// a time; the fire action posts back into the run loop.
func (l *Logger) scheduleRetry() {
	l.retry = time.AfterFunc(l.config.ReconnectInterval, func() {
		l.post(retryEvent{})
	})
}

// cancelRetry stops a pending reconnect timer, if any.
func (l *Logger) cancelRetry() {
	if l.retry != nil {
		l.retry.Stop()
		l.retry = nil
	}
}

// setStatus records a status transition.
func (l *Logger) setStatus(s Status) {
	l.status.Store(uint32(s))
}
