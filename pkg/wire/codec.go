package wire

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Serializer encodes and decodes collector protocol messages.
// Implementations must be safe for concurrent use.
type Serializer interface {
	// Encode serializes a message to wire bytes.
	Encode(msg Message) ([]byte, error)

	// Decode deserializes wire bytes into a message.
	Decode(data []byte) (Message, error)
}

// JSONSerializer is the default codec. Frames are plain JSON objects.
// JSONSerializer is usable as a zero value.
type JSONSerializer struct{}

// Encode serializes the message as JSON.
func (JSONSerializer) Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

// Decode deserializes a JSON frame. Unknown fields are ignored so newer
// collectors can extend the protocol without breaking older clients.
func (JSONSerializer) Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	return msg, nil
}

// encMode is the CBOR encoder mode for collector messages.
// Configured for deterministic encoding.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for collector messages.
var decMode cbor.DecMode

func init() {
	var err error

	// Configure encoder for deterministic output
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Configure decoder to be lenient for forward compatibility
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// CBORSerializer encodes messages as canonical CBOR. Frames are binary and
// must be carried by a transport framing mode that tolerates arbitrary bytes.
// CBORSerializer is usable as a zero value.
type CBORSerializer struct{}

// Encode serializes the message as CBOR.
func (CBORSerializer) Encode(msg Message) ([]byte, error) {
	data, err := encMode.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

// Decode deserializes a CBOR frame.
func (CBORSerializer) Decode(data []byte) (Message, error) {
	var msg Message
	if err := decMode.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	return msg, nil
}

// Compile-time interface satisfaction checks.
var (
	_ Serializer = JSONSerializer{}
	_ Serializer = CBORSerializer{}
)
