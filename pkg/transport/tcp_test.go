package transport

import (
	"context"
	"errors"
	"testing"
	"time"
)

// captureHandler records transport events on channels for test assertions.
type captureHandler struct {
	opened chan struct{}
	closed chan error
	msgs   chan []byte
}

func newCaptureHandler() *captureHandler {
	return &captureHandler{
		opened: make(chan struct{}, 4),
		closed: make(chan error, 4),
		msgs:   make(chan []byte, 16),
	}
}

func (h *captureHandler) HandleOpened() { h.opened <- struct{}{} }

func (h *captureHandler) HandleClosed(err error) { h.closed <- err }

func (h *captureHandler) HandleMessage(data []byte) { h.msgs <- data }

func waitSignal[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestTCPTransportLoopback(t *testing.T) {
	received := make(chan []byte, 16)
	var serverSide *ServerConn
	connected := make(chan struct{}, 1)

	server := NewServer(ServerConfig{
		OnConnect: func(conn *ServerConn) {
			serverSide = conn
			connected <- struct{}{}
		},
		OnMessage: func(conn *ServerConn, data []byte) {
			received <- data
		},
	})
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("server start failed: %v", err)
	}
	defer server.Stop()

	handler := newCaptureHandler()
	tr := NewTCP(Config{Host: server.Addr().String()}, handler)

	tr.Connect()
	waitSignal(t, handler.opened, "transport open")
	waitSignal(t, connected, "server accept")

	// Client to server
	if err := tr.Send([]byte(`{"msg":"connect"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	got := waitSignal(t, received, "server frame")
	if string(got) != `{"msg":"connect"}` {
		t.Errorf("server received %q", got)
	}

	// Server to client
	if err := serverSide.Send([]byte(`{"msg":"connected"}`)); err != nil {
		t.Fatalf("server Send failed: %v", err)
	}
	got = waitSignal(t, handler.msgs, "client frame")
	if string(got) != `{"msg":"connected"}` {
		t.Errorf("client received %q", got)
	}

	tr.Disconnect()
	if err := waitSignal(t, handler.closed, "transport close"); err != nil {
		t.Errorf("close error = %v, want nil for local disconnect", err)
	}
}

func TestTCPTransportDialFailure(t *testing.T) {
	handler := newCaptureHandler()
	tr := NewTCP(Config{
		Host:        "127.0.0.1:1", // nothing listens here
		DialTimeout: time.Second,
	}, handler)

	tr.Connect()
	if err := waitSignal(t, handler.closed, "dial failure"); err == nil {
		t.Error("expected a dial error, got nil")
	}
}

func TestTCPTransportSendWhileDisconnected(t *testing.T) {
	handler := newCaptureHandler()
	tr := NewTCP(Config{Host: "127.0.0.1:1"}, handler)

	if err := tr.Send([]byte("x")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send error = %v, want ErrNotConnected", err)
	}
}

func TestTCPTransportRemoteClose(t *testing.T) {
	connected := make(chan *ServerConn, 1)
	server := NewServer(ServerConfig{
		OnConnect: func(conn *ServerConn) { connected <- conn },
	})
	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("server start failed: %v", err)
	}
	defer server.Stop()

	handler := newCaptureHandler()
	tr := NewTCP(Config{Host: server.Addr().String()}, handler)

	tr.Connect()
	waitSignal(t, handler.opened, "transport open")
	conn := waitSignal(t, connected, "server accept")

	conn.Close()
	if err := waitSignal(t, handler.closed, "remote close"); err == nil {
		t.Error("expected an error for remote close, got nil")
	}
}
