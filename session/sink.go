package session

import (
	"sync"

	"github.com/orcastack/dummy-agent/core"
)

// Sink receives the frames a session emits. Implementations decide delivery:
// buffering for synchronous callers, an SSE broker for dev-mode streaming.
type Sink interface {
	Send(frame core.Frame) error
	Close() error
}

// BufferSink collects frames in memory. It is the default sink and the one
// tests inspect. Safe for concurrent access.
type BufferSink struct {
	mu     sync.RWMutex
	frames []core.Frame
	closed bool
}

// NewBufferSink returns an empty buffer sink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

// Send appends the frame to the buffer.
func (b *BufferSink) Send(frame core.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return core.NewStreamError("SINK_CLOSED", "send on closed sink")
	}
	b.frames = append(b.frames, frame)
	return nil
}

// Close marks the sink closed. Further sends fail with a stream error.
func (b *BufferSink) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Frames returns a defensive copy of the collected frames.
func (b *BufferSink) Frames() []core.Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	frames := make([]core.Frame, len(b.frames))
	copy(frames, b.frames)
	return frames
}
