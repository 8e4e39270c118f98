package server

import (
	"encoding/json"
	"sync"

	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/session"
)

// event is the wire form of a frame on the SSE stream.
type event struct {
	Kind  string     `json:"kind"`
	Frame core.Frame `json:"frame,omitempty"`
	Done  bool       `json:"done,omitempty"`
}

// Broker fans frames out to per-channel SSE subscribers. It backs dev-mode
// streaming: each response session publishes its frames to the channel of the
// message it answers, and any number of stream consumers may subscribe.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a consumer for the channel. The returned cancel func
// must be called when the consumer disconnects.
func (b *Broker) Subscribe(channel string) (<-chan []byte, func()) {
	ch := make(chan []byte, 64)
	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[chan []byte]struct{})
	}
	b.subs[channel][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[channel]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, channel)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a payload to all subscribers of the channel. Slow
// subscribers are skipped rather than blocking delivery.
func (b *Broker) Publish(channel string, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
}

// SinkFactory returns a session sink factory publishing each frame to the
// message's channel. Used to wire dev-mode agents to the broker.
func (b *Broker) SinkFactory() func(msg core.ChatMessage) session.Sink {
	return func(msg core.ChatMessage) session.Sink {
		return &brokerSink{broker: b, channel: msg.Channel}
	}
}

// brokerSink adapts the broker to the session.Sink interface.
type brokerSink struct {
	broker  *Broker
	channel string
}

func (s *brokerSink) Send(frame core.Frame) error {
	payload, err := json.Marshal(event{Kind: core.FrameKind(frame), Frame: frame})
	if err != nil {
		return core.NewStreamError("FRAME_ENCODE", "failed to encode frame").Wrap(err)
	}
	s.broker.Publish(s.channel, payload)
	return nil
}

func (s *brokerSink) Close() error {
	payload, err := json.Marshal(event{Done: true})
	if err != nil {
		return core.NewStreamError("FRAME_ENCODE", "failed to encode close event").Wrap(err)
	}
	s.broker.Publish(s.channel, payload)
	return nil
}
