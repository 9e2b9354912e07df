// Package transport provides the socket link to a log collector.
//
// The client core talks to the link through the Transport interface:
// Connect, Disconnect and Send, with lifecycle and inbound-message events
// delivered through a Handler. TCPTransport is the production
// implementation: a TCP (optionally TLS) connection carrying
// newline-delimited frames, with a background read loop.
//
// Handler callbacks are raw transport events. They may fire from the
// transport's internal goroutines; consumers that need a single logical
// thread of control must serialize delivery themselves (the client core
// funnels them into one event channel).
//
// The package also contains Server, the collector-side accept loop used by
// the bundled reference collector and by end-to-end tests.
package transport
