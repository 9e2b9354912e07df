package queue

import (
	"testing"

	"github.com/typhonjs/socklog-go/pkg/wire"
)

func TestQueue_FIFO(t *testing.T) {
	q := New()
	q.Enqueue(wire.NewLog(wire.LevelInfo, "first"))
	q.Enqueue(wire.NewLog(wire.LevelInfo, "second"))
	q.Enqueue(wire.NewLog(wire.LevelInfo, "third"))

	if got := q.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	var released []string
	q.Flush(func(msg wire.Message) bool {
		released = append(released, msg.Data[0].(string))
		return true
	})

	want := []string{"first", "second", "third"}
	if len(released) != len(want) {
		t.Fatalf("released %d messages, want %d", len(released), len(want))
	}
	for i := range want {
		if released[i] != want[i] {
			t.Errorf("released[%d] = %q, want %q", i, released[i], want[i])
		}
	}
	if got := q.Len(); got != 0 {
		t.Errorf("Len() after full flush = %d, want 0", got)
	}
}

func TestQueue_FlushStopsAtFirstRejection(t *testing.T) {
	q := New()
	q.Enqueue(wire.NewLog(wire.LevelInfo, "a"))
	q.Enqueue(wire.NewLog(wire.LevelInfo, "b"))
	q.Enqueue(wire.NewLog(wire.LevelInfo, "c"))

	// Accept one message, then refuse.
	accepted := 0
	q.Flush(func(msg wire.Message) bool {
		if accepted == 1 {
			return false
		}
		accepted++
		return true
	})

	if got := q.Len(); got != 2 {
		t.Fatalf("Len() after partial flush = %d, want 2", got)
	}

	// The survivors come out in original order.
	var rest []string
	q.Flush(func(msg wire.Message) bool {
		rest = append(rest, msg.Data[0].(string))
		return true
	})
	if len(rest) != 2 || rest[0] != "b" || rest[1] != "c" {
		t.Errorf("remaining messages = %v, want [b c]", rest)
	}
}

func TestQueue_FlushEmpty(t *testing.T) {
	q := New()
	calls := 0
	q.Flush(func(wire.Message) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Errorf("predicate called %d times on empty queue, want 0", calls)
	}
}

func TestQueue_Clear(t *testing.T) {
	q := New()
	q.Enqueue(wire.NewLog(wire.LevelDebug, "x"))
	q.Enqueue(wire.NewLog(wire.LevelDebug, "y"))

	q.Clear()

	if got := q.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
	q.Flush(func(wire.Message) bool {
		t.Error("predicate called after Clear")
		return true
	})
}
