package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/session"
)

// Interface compliance (compile-time assertion)
var _ session.Sink = (*brokerSink)(nil)

func TestBroker_PublishReachesSubscribers(t *testing.T) {
	b := NewBroker()
	ch1, cancel1 := b.Subscribe("web-1")
	defer cancel1()
	ch2, cancel2 := b.Subscribe("web-1")
	defer cancel2()
	other, cancelOther := b.Subscribe("web-2")
	defer cancelOther()

	b.Publish("web-1", []byte("payload"))

	assert.Equal(t, "payload", string(<-ch1))
	assert.Equal(t, "payload", string(<-ch2))
	select {
	case <-other:
		t.Fatal("subscriber of another channel received the payload")
	default:
	}
}

func TestBroker_CancelUnsubscribes(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("web-1")
	cancel()

	b.Publish("web-1", []byte("late"))
	select {
	case <-ch:
		t.Fatal("cancelled subscriber received a payload")
	default:
	}
}

func TestBroker_SlowSubscriberSkipped(t *testing.T) {
	b := NewBroker()
	_, cancel := b.Subscribe("web-1")
	defer cancel()

	// Overflow the buffered channel; Publish must never block.
	for i := 0; i < 100; i++ {
		b.Publish("web-1", []byte("x"))
	}
}

func TestBrokerSink_PublishesFrameEvents(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("web-1")
	defer cancel()

	msg := core.ChatMessage{ResponseUUID: core.NewID(), Channel: "web-1"}
	sink := b.SinkFactory()(msg)

	require.NoError(t, sink.Send(core.TextFrame{Text: "hello"}))
	var ev struct {
		Kind  string          `json:"kind"`
		Frame json.RawMessage `json:"frame"`
		Done  bool            `json:"done"`
	}
	require.NoError(t, json.Unmarshal(<-ch, &ev))
	assert.Equal(t, "text", ev.Kind)
	assert.False(t, ev.Done)

	require.NoError(t, sink.Close())
	require.NoError(t, json.Unmarshal(<-ch, &ev))
	assert.True(t, ev.Done)
}
