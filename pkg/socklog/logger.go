package socklog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/typhonjs/socklog-go/pkg/queue"
	"github.com/typhonjs/socklog-go/pkg/transport"
	"github.com/typhonjs/socklog-go/pkg/wire"
)

// Logger is a resilient socket logging client.
//
// All methods are safe for concurrent use. Logging operations never fail
// and never block on the network; records that cannot be delivered are
// buffered or, across a connection loss, dropped.
type Logger struct {
	config    Config
	transport transport.Transport
	queue     *queue.Queue
	notifier  *notifier

	events chan event
	quit   chan struct{}
	done   chan struct{}

	closeOnce sync.Once

	// status is written only by the run loop; stored atomically so
	// Status() can be read from any goroutine.
	status atomic.Uint32

	// Run-loop-owned state. Never touched outside the run goroutine.
	manual bool
	retry  *time.Timer
}

// New creates a logger for the given configuration. With AutoConnect set
// (the DefaultConfig default) the transport connect is issued immediately.
func New(cfg Config) (*Logger, error) {
	if cfg.Host == "" && cfg.TransportFactory == nil {
		return nil, ErrMissingHost
	}
	cfg = cfg.withDefaults()

	l := &Logger{
		config:   cfg,
		queue:    queue.New(),
		notifier: newNotifier(),
		events:   make(chan event, eventBufferSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	handler := transportEvents{l}
	if cfg.TransportFactory != nil {
		l.transport = cfg.TransportFactory(handler)
	} else {
		l.transport = transport.NewTCP(transport.Config{
			Host:               cfg.Host,
			SSL:                cfg.SSL,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Mode:               framingModeFor(cfg.Serializer),
		}, handler)
	}

	go l.notifier.run()
	go l.run()

	if cfg.AutoConnect {
		l.post(connectEvent{})
	}

	return l, nil
}

// Config returns a copy of the active connection options.
func (l *Logger) Config() Config {
	return l.config
}

// Status returns the current connection status.
func (l *Logger) Status() Status {
	return Status(l.status.Load())
}

// QueueDepth returns the number of records buffered for transmission.
func (l *Logger) QueueDepth() int {
	return l.queue.Len()
}

// Connect initiates a connection to the collector. Redundant while already
// connecting or connected.
func (l *Logger) Connect() {
	l.post(connectEvent{})
}

// Disconnect tears the connection down and discards buffered records.
// Arbitrary arguments are forwarded to the transport's disconnect. A manual
// disconnect is never auto-retried.
func (l *Logger) Disconnect(args ...any) {
	l.post(disconnectEvent{args: args})
}

// OnConnected registers a listener for session establishment. Listeners are
// invoked from a dispatch goroutine with the active connection options.
func (l *Logger) OnConnected(fn func(Config)) {
	l.notifier.onConnected(fn)
}

// OnDisconnected registers a listener for connection loss or teardown.
func (l *Logger) OnDisconnected(fn func(Config)) {
	l.notifier.onDisconnected(fn)
}

// Close releases the logger: pending reconnects are canceled, the transport
// is torn down and the internal goroutines exit. Records still queued are
// discarded. Logging calls after Close are silently dropped.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		close(l.quit)
	})
	<-l.done
}

// Log records a message at the given level. The arguments become the log
// record's data payload, serialized by the configured serializer.
func (l *Logger) Log(level wire.Level, args ...any) {
	l.post(logEvent{msg: wire.NewLog(level, args...)})
}

// Trace records a message at trace level.
func (l *Logger) Trace(args ...any) { l.Log(wire.LevelTrace, args...) }

// Debug records a message at debug level.
func (l *Logger) Debug(args ...any) { l.Log(wire.LevelDebug, args...) }

// Info records a message at info level.
func (l *Logger) Info(args ...any) { l.Log(wire.LevelInfo, args...) }

// Warn records a message at warn level.
func (l *Logger) Warn(args ...any) { l.Log(wire.LevelWarn, args...) }

// Error records a message at error level.
func (l *Logger) Error(args ...any) { l.Log(wire.LevelError, args...) }

// Fatal records a message at fatal level. It does not terminate the host
// application; the level is a wire tag only.
func (l *Logger) Fatal(args ...any) { l.Log(wire.LevelFatal, args...) }

// transportEvents feeds transport callbacks into the logger's event channel,
// serializing them onto the single run goroutine.
type transportEvents struct {
	l *Logger
}

// HandleOpened implements transport.Handler.
func (h transportEvents) HandleOpened() {
	h.l.post(openedEvent{})
}

// HandleClosed implements transport.Handler.
func (h transportEvents) HandleClosed(err error) {
	h.l.post(closedEvent{err: err})
}

// HandleMessage implements transport.Handler.
func (h transportEvents) HandleMessage(data []byte) {
	h.l.post(inboundEvent{data: data})
}

// Compile-time interface satisfaction check.
var _ transport.Handler = transportEvents{}
