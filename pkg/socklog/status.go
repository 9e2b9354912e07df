package socklog

// Status represents the connection status.
//
// The status is binary: a transport link that is dialing or awaiting the
// handshake acknowledgment still counts as Disconnected for queue-flush
// purposes.
type Status uint32

const (
	// Disconnected indicates no acknowledged session.
	Disconnected Status = iota

	// Connected indicates the collector has acknowledged the handshake.
	Connected
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}
