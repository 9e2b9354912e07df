// Command socklog-collector is a reference log collector.
//
// It accepts client connections, acknowledges session handshakes, probes
// idle clients with keepalive pings and prints received log records to
// stdout. Intended for development and for exercising socklog clients.
//
// Usage:
//
//	socklog-collector [flags]
//
// Flags:
//
//	-addr string         Listen address (default ":7071")
//	-serializer string   Wire serializer: json, cbor (default "json")
//	-ping duration       Keepalive probe interval, 0 disables (default 30s)
//	-advertise           Advertise this collector over mDNS
//	-instance string     mDNS instance name (default "socklog-collector")
//
// Examples:
//
//	# Start a JSON collector on the default port
//	socklog-collector
//
//	# CBOR collector, discoverable over mDNS
//	socklog-collector -serializer cbor -advertise
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/typhonjs/socklog-go/pkg/discovery"
	"github.com/typhonjs/socklog-go/pkg/socklog"
	"github.com/typhonjs/socklog-go/pkg/transport"
	"github.com/typhonjs/socklog-go/pkg/wire"
)

func main() {
	addr := flag.String("addr", ":7071", "listen address")
	serializerName := flag.String("serializer", "json", "wire serializer: json, cbor")
	pingInterval := flag.Duration("ping", 30*time.Second, "keepalive probe interval, 0 disables")
	advertise := flag.Bool("advertise", false, "advertise this collector over mDNS")
	instance := flag.String("instance", "socklog-collector", "mDNS instance name")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	serializer, err := socklog.SerializerByName(*serializerName)
	if err != nil {
		log.Fatalf("invalid -serializer: %v", err)
	}

	mode := transport.ModeText
	if *serializerName == "cbor" {
		mode = transport.ModeBase64
	}

	collector := &collector{serializer: serializer}

	server := transport.NewServer(transport.ServerConfig{
		Address:      *addr,
		Mode:         mode,
		OnConnect:    collector.onConnect,
		OnDisconnect: collector.onDisconnect,
		OnMessage:    collector.onMessage,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("failed to start collector: %v", err)
	}
	defer server.Stop()

	log.Printf("collector listening on %s (%s)", server.Addr(), *serializerName)

	if *advertise {
		advertiser := &discovery.Advertiser{}
		port := listenPort(server.Addr())
		if err := advertiser.Advertise(*instance, port, *serializerName, false); err != nil {
			log.Printf("mDNS advertise failed: %v", err)
		} else {
			defer advertiser.Stop()
			log.Printf("advertising %q as %s on port %d", *instance, discovery.ServiceType, port)
		}
	}

	if *pingInterval > 0 {
		go collector.probeLoop(ctx, *pingInterval)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutting down")
}

// collector tracks connected clients and prints their log records.
type collector struct {
	serializer wire.Serializer

	mu      sync.Mutex
	clients map[*transport.ServerConn]*clientState
}

// clientState is per-connection session state.
type clientState struct {
	handshaken bool
	pingSent   time.Time
	pingID     string
}

func (c *collector) onConnect(conn *transport.ServerConn) {
	c.mu.Lock()
	if c.clients == nil {
		c.clients = make(map[*transport.ServerConn]*clientState)
	}
	c.clients[conn] = &clientState{}
	c.mu.Unlock()

	log.Printf("[%s] connected from %s", shortID(conn), conn.RemoteAddr())
}

func (c *collector) onDisconnect(conn *transport.ServerConn) {
	c.mu.Lock()
	delete(c.clients, conn)
	c.mu.Unlock()

	log.Printf("[%s] disconnected", shortID(conn))
}

func (c *collector) onMessage(conn *transport.ServerConn, data []byte) {
	msg, err := c.serializer.Decode(data)
	if err != nil {
		log.Printf("[%s] undecodable frame: %v", shortID(conn), err)
		return
	}

	switch msg.Msg {
	case wire.MsgConnect:
		c.mu.Lock()
		if state := c.clients[conn]; state != nil {
			state.handshaken = true
		}
		c.mu.Unlock()
		c.send(conn, wire.NewConnected())
		log.Printf("[%s] session established", shortID(conn))

	case wire.MsgPong:
		c.mu.Lock()
		state := c.clients[conn]
		var latency time.Duration
		matched := false
		if state != nil && state.pingID != "" && fmt.Sprint(msg.ID) == state.pingID {
			latency = time.Since(state.pingSent)
			state.pingID = ""
			matched = true
		}
		c.mu.Unlock()
		if matched {
			log.Printf("[%s] pong (latency %v)", shortID(conn), latency)
		}

	case wire.MsgLog:
		log.Printf("[%s] %-5s %v", shortID(conn), msg.Type, msg.Data)
	}
}

// probeLoop sends keepalive pings to all handshaken clients.
func (c *collector) probeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		conns := make([]*transport.ServerConn, 0, len(c.clients))
		for conn, state := range c.clients {
			if !state.handshaken {
				continue
			}
			id := uuid.NewString()
			state.pingID = id
			state.pingSent = time.Now()
			conns = append(conns, conn)
		}
		c.mu.Unlock()

		for _, conn := range conns {
			c.mu.Lock()
			state := c.clients[conn]
			var id string
			if state != nil {
				id = state.pingID
			}
			c.mu.Unlock()
			if id != "" {
				c.send(conn, wire.NewPing(id))
			}
		}
	}
}

// send encodes and writes one message, logging failures.
func (c *collector) send(conn *transport.ServerConn, msg wire.Message) {
	data, err := c.serializer.Encode(msg)
	if err != nil {
		log.Printf("[%s] encode failed: %v", shortID(conn), err)
		return
	}
	if err := conn.Send(data); err != nil {
		log.Printf("[%s] send failed: %v", shortID(conn), err)
	}
}

// shortID abbreviates a connection uuid for log lines.
func shortID(conn *transport.ServerConn) string {
	id := conn.ID()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// listenPort extracts the port from a listen address.
func listenPort(addr net.Addr) int {
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0
	}
	port, _ := strconv.Atoi(portStr)
	return port
}
