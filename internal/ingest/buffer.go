package ingest

import (
	"sync"

	"github.com/ringwatch/ringwatch/internal/model"
)

// Buffer is a bounded in-memory event accumulator for streaming sources.
// When full, the oldest events are discarded.
type Buffer struct {
	mu     sync.Mutex
	events []model.Event
	max    int
}

// NewBuffer creates a buffer holding at most max events.
func NewBuffer(max int) *Buffer {
	if max < 1 {
		max = 100000
	}
	return &Buffer{max: max}
}

// Append adds an event, evicting the oldest when the buffer is full.
func (b *Buffer) Append(ev model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) >= b.max {
		copy(b.events, b.events[1:])
		b.events = b.events[:len(b.events)-1]
	}
	b.events = append(b.events, ev)
}

// Snapshot returns a copy of the buffered events.
func (b *Buffer) Snapshot() []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Event, len(b.events))
	copy(out, b.events)
	return out
}

// Len returns the buffered event count.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
