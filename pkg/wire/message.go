package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Message discriminators. The "msg" field is the sole dispatch key of the
// collector protocol.
const (
	// MsgConnect is the client handshake, sent once per transport open.
	MsgConnect = "connect"

	// MsgConnected is the server's handshake acknowledgment.
	MsgConnected = "connected"

	// MsgPing is the server's keepalive probe.
	MsgPing = "ping"

	// MsgPong is the client's keepalive reply, echoing the probe id.
	MsgPong = "pong"

	// MsgLog carries a level-tagged log record.
	MsgLog = "log"
)

// ErrUnknownLevel indicates a level name that is not part of the protocol.
var ErrUnknownLevel = errors.New("unknown log level")

// Message is a single frame of the collector protocol.
type Message struct {
	// Msg is the discriminator.
	Msg string `json:"msg" cbor:"msg"`

	// ID is the keepalive correlation id (ping/pong only). The value is
	// opaque to the client and echoed back exactly as received.
	ID any `json:"id,omitempty" cbor:"id,omitempty"`

	// Type is the log level name (log only).
	Type string `json:"type,omitempty" cbor:"type,omitempty"`

	// Data is the ordered sequence of caller-supplied payload values (log only).
	Data []any `json:"data,omitempty" cbor:"data,omitempty"`
}

// Kind classifies a message for queueing purposes.
type Kind uint8

const (
	// KindControl is a protocol control message (handshake, keepalive).
	KindControl Kind = iota

	// KindLog is a log record.
	KindLog
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindControl:
		return "CONTROL"
	case KindLog:
		return "LOG"
	default:
		return "UNKNOWN"
	}
}

// Kind returns the message's queueing classification.
func (m Message) Kind() Kind {
	if m.Msg == MsgLog {
		return KindLog
	}
	return KindControl
}

// NewConnect builds the client handshake message.
func NewConnect() Message {
	return Message{Msg: MsgConnect}
}

// NewConnected builds the handshake acknowledgment message.
func NewConnected() Message {
	return Message{Msg: MsgConnected}
}

// NewPing builds a keepalive probe with the given correlation id.
func NewPing(id any) Message {
	return Message{Msg: MsgPing, ID: id}
}

// NewPong builds a keepalive reply echoing the probe's correlation id.
func NewPong(id any) Message {
	return Message{Msg: MsgPong, ID: id}
}

// NewLog builds a log record for the given level and payload values.
func NewLog(level Level, data ...any) Message {
	return Message{Msg: MsgLog, Type: level.String(), Data: data}
}

// Level is a log severity level.
type Level uint8

const (
	// LevelTrace is the most verbose level.
	LevelTrace Level = iota

	// LevelDebug is for debugging output.
	LevelDebug

	// LevelInfo is for informational records.
	LevelInfo

	// LevelWarn is for warnings.
	LevelWarn

	// LevelError is for errors.
	LevelError

	// LevelFatal is for unrecoverable conditions. It is a wire tag only;
	// the client never terminates the host application.
	LevelFatal
)

// String returns the level's wire name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Levels returns all levels in ascending severity order.
func Levels() []Level {
	return []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}
}

// ParseLevel converts a wire name back to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}
