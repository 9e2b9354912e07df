package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ServerConfig configures a collector-side server.
type ServerConfig struct {
	// Address to listen on (e.g., ":7071" or "127.0.0.1:7071").
	Address string

	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config

	// Mode is the framing mode (default: ModeText).
	Mode Mode

	// OnConnect is called when a new connection is established.
	OnConnect func(conn *ServerConn)

	// OnDisconnect is called when a connection is closed.
	OnDisconnect func(conn *ServerConn)

	// OnMessage is called for each frame received on a connection.
	OnMessage func(conn *ServerConn, data []byte)
}

// Server accepts client connections on behalf of a collector. It is used
// by the bundled reference collector and by end-to-end tests.
type Server struct {
	config   ServerConfig
	listener net.Listener

	// Active connections
	conns   map[*ServerConn]struct{}
	connsMu sync.RWMutex

	// State
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a new collector server.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = ":0"
	}

	return &Server{
		config: config,
		conns:  make(map[*ServerConn]struct{}),
	}
}

// Start starts the server and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if s.config.TLSConfig != nil {
		listener = tls.NewListener(listener, s.config.TLSConfig)
	}
	s.listener = listener

	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop stops the server and closes all connections.
func (s *Server) Stop() error {
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()

	return nil
}

// Addr returns the server's listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

// acceptLoop accepts connections until the server stops.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			continue
		}

		sc := &ServerConn{
			id:      uuid.NewString(),
			conn:    conn,
			framer:  NewFramer(conn, s.config.Mode),
			closeCh: make(chan struct{}),
		}

		s.connsMu.Lock()
		s.conns[sc] = struct{}{}
		s.connsMu.Unlock()

		if s.config.OnConnect != nil {
			s.config.OnConnect(sc)
		}

		s.wg.Add(1)
		go s.serveConn(sc)
	}
}

// serveConn reads frames from one connection until it drops.
func (s *Server) serveConn(sc *ServerConn) {
	defer s.wg.Done()

	for {
		data, err := sc.framer.ReadFrame()
		if err != nil {
			break
		}
		if s.config.OnMessage != nil {
			s.config.OnMessage(sc, data)
		}
	}

	sc.Close()

	s.connsMu.Lock()
	delete(s.conns, sc)
	s.connsMu.Unlock()

	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(sc)
	}
}

// ServerConn is one accepted client connection.
type ServerConn struct {
	id     string
	conn   net.Conn
	framer *Framer

	closeOnce sync.Once
	closeCh   chan struct{}
}

// ID returns the connection's unique identifier.
func (c *ServerConn) ID() string {
	return c.id
}

// RemoteAddr returns the remote network address of the client.
func (c *ServerConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send writes one frame to the client.
func (c *ServerConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrNotConnected
	default:
	}
	return c.framer.WriteFrame(data)
}

// Close closes the connection.
func (c *ServerConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}
