package transport

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Framing constants.
const (
	// DefaultMaxFrameSize is the default maximum frame size (1 MB).
	DefaultMaxFrameSize = 1 << 20
)

// Framing errors.
var (
	// ErrFrameTooLarge indicates the frame exceeds the maximum size.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrFrameEmpty indicates an empty frame.
	ErrFrameEmpty = errors.New("frame is empty")

	// ErrFrameUnframeable indicates a payload that cannot be carried by
	// the configured framing mode.
	ErrFrameUnframeable = errors.New("payload not representable in framing mode")
)

// Mode selects how frame payloads are placed on the line-oriented stream.
type Mode uint8

const (
	// ModeText writes payloads verbatim, one per line. Suitable for text
	// serializers (JSON); payloads must not contain newlines.
	ModeText Mode = iota

	// ModeBase64 wraps payloads in standard base64, one per line.
	// Suitable for binary serializers (CBOR).
	ModeBase64
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "TEXT"
	case ModeBase64:
		return "BASE64"
	default:
		return "UNKNOWN"
	}
}

// FrameWriter writes newline-delimited frames to an underlying writer.
type FrameWriter struct {
	w            io.Writer
	mode         Mode
	maxFrameSize int
	mu           sync.Mutex
}

// NewFrameWriter creates a frame writer with the default maximum size.
func NewFrameWriter(w io.Writer, mode Mode) *FrameWriter {
	return &FrameWriter{
		w:            w,
		mode:         mode,
		maxFrameSize: DefaultMaxFrameSize,
	}
}

// WriteFrame writes one frame.
// Thread-safe: can be called from multiple goroutines.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrFrameEmpty
	}
	if len(data) > fw.maxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(data), fw.maxFrameSize)
	}

	var line []byte
	switch fw.mode {
	case ModeText:
		if bytes.IndexByte(data, '\n') >= 0 {
			return fmt.Errorf("%w: embedded newline", ErrFrameUnframeable)
		}
		line = make([]byte, 0, len(data)+1)
		line = append(line, data...)
	case ModeBase64:
		line = make([]byte, base64.StdEncoding.EncodedLen(len(data)), base64.StdEncoding.EncodedLen(len(data))+1)
		base64.StdEncoding.Encode(line, data)
	}
	line = append(line, '\n')

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(line); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// FrameReader reads newline-delimited frames from an underlying reader.
type FrameReader struct {
	br           *bufio.Reader
	mode         Mode
	maxFrameSize int
}

// NewFrameReader creates a frame reader with the default maximum size.
func NewFrameReader(r io.Reader, mode Mode) *FrameReader {
	return &FrameReader{
		br:           bufio.NewReaderSize(r, 64*1024),
		mode:         mode,
		maxFrameSize: DefaultMaxFrameSize,
	}
}

// ReadFrame reads one frame and returns its payload without the delimiter.
// Blank lines are skipped.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	for {
		line, err := fr.br.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				// Final unterminated line still counts as a frame.
				return fr.decodeLine(line)
			}
			return nil, err
		}
		if len(line) > fr.maxFrameSize+1 {
			return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(line)-1, fr.maxFrameSize)
		}

		payload, derr := fr.decodeLine(line)
		if derr != nil {
			return nil, derr
		}
		if payload == nil {
			continue
		}
		return payload, nil
	}
}

// decodeLine strips the delimiter and reverses the framing mode.
// Returns (nil, nil) for blank lines.
func (fr *FrameReader) decodeLine(line []byte) ([]byte, error) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return nil, nil
	}

	switch fr.mode {
	case ModeBase64:
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(line)))
		n, err := base64.StdEncoding.Decode(decoded, line)
		if err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}
		return decoded[:n], nil
	default:
		return line, nil
	}
}

// Framer combines frame reading and writing over one stream.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer for bidirectional communication.
func NewFramer(rw io.ReadWriter, mode Mode) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw, mode),
		FrameWriter: NewFrameWriter(rw, mode),
	}
}
