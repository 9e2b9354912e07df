package wire

import (
	"testing"
)

func TestJSONEncodeConnect(t *testing.T) {
	data, err := JSONSerializer{}.Encode(NewConnect())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := string(data); got != `{"msg":"connect"}` {
		t.Errorf("Encode(connect) = %s, want {\"msg\":\"connect\"}", got)
	}
}

func TestJSONEncodePong(t *testing.T) {
	data, err := JSONSerializer{}.Encode(NewPong("abc"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got := string(data); got != `{"msg":"pong","id":"abc"}` {
		t.Errorf("Encode(pong) = %s, want {\"msg\":\"pong\",\"id\":\"abc\"}", got)
	}
}

func TestJSONDecodePing(t *testing.T) {
	msg, err := JSONSerializer{}.Decode([]byte(`{"msg":"ping","id":"xyz"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.Msg != MsgPing {
		t.Errorf("Msg = %q, want %q", msg.Msg, MsgPing)
	}
	if msg.ID != "xyz" {
		t.Errorf("ID = %v, want \"xyz\"", msg.ID)
	}
}

func TestJSONDecodeUnknownFields(t *testing.T) {
	// Newer collectors may add fields; decoding must not break.
	msg, err := JSONSerializer{}.Decode([]byte(`{"msg":"connected","version":2}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.Msg != MsgConnected {
		t.Errorf("Msg = %q, want %q", msg.Msg, MsgConnected)
	}
}

func TestJSONDecodeInvalid(t *testing.T) {
	if _, err := (JSONSerializer{}).Decode([]byte(`not json`)); err == nil {
		t.Error("Decode of invalid JSON succeeded, want error")
	}
}

func TestSerializerRoundTrip(t *testing.T) {
	serializers := []struct {
		name string
		s    Serializer
	}{
		{"json", JSONSerializer{}},
		{"cbor", CBORSerializer{}},
	}

	original := NewLog(LevelWarn, "queue depth high", "component=ingest")

	for _, tt := range serializers {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.s.Encode(original)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			decoded, err := tt.s.Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if decoded.Msg != original.Msg {
				t.Errorf("Msg = %q, want %q", decoded.Msg, original.Msg)
			}
			if decoded.Type != original.Type {
				t.Errorf("Type = %q, want %q", decoded.Type, original.Type)
			}
			if len(decoded.Data) != 2 {
				t.Fatalf("Data has %d elements, want 2", len(decoded.Data))
			}
			if decoded.Data[0] != "queue depth high" || decoded.Data[1] != "component=ingest" {
				t.Errorf("Data = %v, want original payload", decoded.Data)
			}
		})
	}
}

func TestCBOREncodeDeterministic(t *testing.T) {
	msg := NewLog(LevelInfo, "stable")

	first, err := CBORSerializer{}.Encode(msg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := CBORSerializer{}.Encode(msg)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("CBOR encoding of identical messages differs")
	}
}
