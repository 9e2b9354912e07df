package transport

// Handler receives transport events.
//
// Methods may be invoked from the transport's internal goroutines.
// Implementations must not call back into the transport synchronously from
// HandleClosed.
type Handler interface {
	// HandleOpened is called when the link is established.
	HandleOpened()

	// HandleClosed is called when the link is lost or a connect attempt
	// fails. The error is informational; every loss is uniform.
	HandleClosed(err error)

	// HandleMessage is called for each inbound frame payload.
	HandleMessage(data []byte)
}

// Transport is a persistent link to a collector.
// Implemented by TCPTransport.
type Transport interface {
	// Connect begins establishing the link. It returns immediately;
	// the outcome arrives as HandleOpened or HandleClosed. Redundant
	// calls while an attempt is in flight are ignored.
	Connect()

	// Disconnect tears the link down. Implementation-specific arguments
	// are forwarded as-is; TCPTransport ignores them.
	Disconnect(args ...any)

	// Send writes one frame to the link.
	Send(data []byte) error
}

// Compile-time interface satisfaction check.
var _ Transport = (*TCPTransport)(nil)
