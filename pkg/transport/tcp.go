package transport

import (
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"time"
)

// Transport errors.
var (
	// ErrNotConnected indicates a send on a link that is not established.
	ErrNotConnected = errors.New("not connected")
)

// DefaultDialTimeout is the default timeout for a single connect attempt.
const DefaultDialTimeout = 10 * time.Second

// Config configures a TCPTransport.
type Config struct {
	// Host is the collector address as "domain:port".
	Host string

	// SSL wraps the connection in TLS.
	SSL bool

	// TLSConfig overrides the TLS configuration built from Host.
	// Only consulted when SSL is true.
	TLSConfig *tls.Config

	// InsecureSkipVerify disables certificate verification.
	// Only for testing - never use in production!
	InsecureSkipVerify bool

	// Mode is the framing mode (default: ModeText).
	Mode Mode

	// DialTimeout bounds a single connect attempt (default: 10s).
	DialTimeout time.Duration
}

// TCPTransport is a TCP (optionally TLS) link to a collector carrying
// newline-delimited frames. A background read loop delivers inbound frames
// and link loss to the Handler.
type TCPTransport struct {
	config  Config
	handler Handler

	mu      sync.Mutex
	conn    net.Conn
	framer  *Framer
	dialing bool

	// gen increments on every teardown so stale dial results and read
	// loops from a previous link are discarded.
	gen uint64
}

// NewTCP creates a transport for the given collector. Events are delivered
// to the handler; Connect must be called to establish the link.
func NewTCP(config Config, handler Handler) *TCPTransport {
	if config.DialTimeout == 0 {
		config.DialTimeout = DefaultDialTimeout
	}

	return &TCPTransport{
		config:  config,
		handler: handler,
	}
}

// Connect begins establishing the link. Redundant calls while connected or
// while an attempt is in flight are ignored.
func (t *TCPTransport) Connect() {
	t.mu.Lock()
	if t.dialing || t.conn != nil {
		t.mu.Unlock()
		return
	}
	t.dialing = true
	gen := t.gen
	t.mu.Unlock()

	go t.dial(gen)
}

// dial performs one connect attempt and reports the outcome.
func (t *TCPTransport) dial(gen uint64) {
	conn, err := t.dialConn()

	t.mu.Lock()
	t.dialing = false
	if t.gen != gen {
		// Torn down while dialing; discard the result silently.
		t.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		t.mu.Unlock()
		t.handler.HandleClosed(err)
		return
	}
	t.conn = conn
	t.framer = NewFramer(conn, t.config.Mode)
	framer := t.framer
	t.mu.Unlock()

	t.handler.HandleOpened()
	go t.readLoop(gen, framer)
}

// dialConn establishes the TCP connection, with TLS when configured.
func (t *TCPTransport) dialConn() (net.Conn, error) {
	dialer := &net.Dialer{Timeout: t.config.DialTimeout}

	if !t.config.SSL {
		return dialer.Dial("tcp", t.config.Host)
	}

	tlsConf := t.config.TLSConfig
	if tlsConf == nil {
		tlsConf = NewClientTLSConfig(t.config.Host, t.config.InsecureSkipVerify)
	}
	return tls.DialWithDialer(dialer, "tcp", t.config.Host, tlsConf)
}

// readLoop delivers inbound frames until the link fails.
func (t *TCPTransport) readLoop(gen uint64, framer *Framer) {
	for {
		data, err := framer.ReadFrame()
		if err != nil {
			t.teardown(gen, err)
			return
		}
		t.handler.HandleMessage(data)
	}
}

// teardown closes the link established at generation gen and reports the
// loss, unless a newer teardown already happened.
func (t *TCPTransport) teardown(gen uint64, err error) {
	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.gen++
	conn := t.conn
	t.conn = nil
	t.framer = nil
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	t.handler.HandleClosed(err)
}

// Disconnect tears the link down. Arguments are accepted for interface
// compatibility and ignored. A pending connect attempt is abandoned.
func (t *TCPTransport) Disconnect(args ...any) {
	t.mu.Lock()
	if t.conn == nil && !t.dialing {
		t.mu.Unlock()
		return
	}
	t.gen++
	conn := t.conn
	t.conn = nil
	t.framer = nil
	wasOpen := conn != nil
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if wasOpen {
		// Emitted off the caller's stack: Disconnect is typically invoked
		// from the consumer's own event loop.
		go t.handler.HandleClosed(nil)
	}
}

// Send writes one frame to the link.
func (t *TCPTransport) Send(data []byte) error {
	t.mu.Lock()
	framer := t.framer
	t.mu.Unlock()

	if framer == nil {
		return ErrNotConnected
	}
	return framer.WriteFrame(data)
}
