package testutil

import (
	"github.com/orcastack/dummy-agent/core"
)

// MessageBuilder provides a fluent helper for constructing chat messages in
// tests. Example:
//
//	msg := NewMessageBuilder().Channel("web-1").Text("show me the buttons demo").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	responseUUID string
	threadID     string
	channel      string
	text         string
	variables    []core.Variable
	memory       map[string]any
}

// NewMessageBuilder creates a builder with a generated response UUID and the
// default channel "test-channel".
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{responseUUID: core.NewID(), channel: "test-channel"}
}

// ResponseUUID overrides the auto-generated response UUID (chainable).
func (b *MessageBuilder) ResponseUUID(id string) *MessageBuilder { b.responseUUID = id; return b }

// Thread sets the thread identifier (chainable).
func (b *MessageBuilder) Thread(id string) *MessageBuilder { b.threadID = id; return b }

// Channel sets the delivery channel (chainable).
func (b *MessageBuilder) Channel(c string) *MessageBuilder { b.channel = c; return b }

// Text sets the message body (chainable).
func (b *MessageBuilder) Text(t string) *MessageBuilder { b.text = t; return b }

// Variable appends an injected variable (chainable).
func (b *MessageBuilder) Variable(name, value string) *MessageBuilder {
	b.variables = append(b.variables, core.Variable{Name: name, Value: value})
	return b
}

// Memory sets a user memory field (chainable).
func (b *MessageBuilder) Memory(key string, value any) *MessageBuilder {
	if b.memory == nil {
		b.memory = map[string]any{}
	}
	b.memory[key] = value
	return b
}

// Build constructs the core.ChatMessage value.
func (b *MessageBuilder) Build() core.ChatMessage {
	return core.ChatMessage{
		ResponseUUID: b.responseUUID,
		ThreadID:     b.threadID,
		Channel:      b.channel,
		Message:      b.text,
		Variables:    b.variables,
		Memory:       b.memory,
	}
}
