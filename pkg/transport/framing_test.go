package transport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFramerRoundTripText(t *testing.T) {
	var buf bytes.Buffer
	writer := NewFrameWriter(&buf, ModeText)

	frames := []string{`{"msg":"connect"}`, `{"msg":"log","type":"info"}`}
	for _, f := range frames {
		if err := writer.WriteFrame([]byte(f)); err != nil {
			t.Fatalf("WriteFrame(%q) failed: %v", f, err)
		}
	}

	reader := NewFrameReader(&buf, ModeText)
	for _, want := range frames {
		got, err := reader.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		if string(got) != want {
			t.Errorf("ReadFrame = %q, want %q", got, want)
		}
	}
	if _, err := reader.ReadFrame(); err != io.EOF {
		t.Errorf("ReadFrame at end = %v, want io.EOF", err)
	}
}

func TestFramerRoundTripBase64(t *testing.T) {
	var buf bytes.Buffer
	writer := NewFrameWriter(&buf, ModeBase64)

	// Binary payload including the line delimiter itself.
	payload := []byte{0xa1, 0x63, 0x6d, 0x73, 0x67, 0x0a, 0x00, 0xff}
	if err := writer.WriteFrame(payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	reader := NewFrameReader(&buf, ModeBase64)
	got, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadFrame = %x, want %x", got, payload)
	}
}

func TestFrameWriterRejectsEmbeddedNewline(t *testing.T) {
	writer := NewFrameWriter(&bytes.Buffer{}, ModeText)
	err := writer.WriteFrame([]byte("line one\nline two"))
	if !errors.Is(err, ErrFrameUnframeable) {
		t.Errorf("WriteFrame error = %v, want ErrFrameUnframeable", err)
	}
}

func TestFrameWriterRejectsEmpty(t *testing.T) {
	writer := NewFrameWriter(&bytes.Buffer{}, ModeText)
	if err := writer.WriteFrame(nil); !errors.Is(err, ErrFrameEmpty) {
		t.Errorf("WriteFrame(nil) error = %v, want ErrFrameEmpty", err)
	}
}

func TestFrameWriterRejectsOversize(t *testing.T) {
	writer := NewFrameWriter(&bytes.Buffer{}, ModeText)
	err := writer.WriteFrame(bytes.Repeat([]byte("x"), DefaultMaxFrameSize+1))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("WriteFrame error = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameReaderSkipsBlankLines(t *testing.T) {
	reader := NewFrameReader(strings.NewReader("\n\r\n{\"msg\":\"ping\"}\n"), ModeText)
	got, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(got) != `{"msg":"ping"}` {
		t.Errorf("ReadFrame = %q", got)
	}
}

func TestFrameReaderFinalUnterminatedLine(t *testing.T) {
	reader := NewFrameReader(strings.NewReader(`{"msg":"pong"}`), ModeText)
	got, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(got) != `{"msg":"pong"}` {
		t.Errorf("ReadFrame = %q", got)
	}
	if _, err := reader.ReadFrame(); err != io.EOF {
		t.Errorf("ReadFrame at end = %v, want io.EOF", err)
	}
}
