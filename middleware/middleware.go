// Package middleware implements the request/response middleware chain the
// demo agent routes messages through. Middlewares observe or adjust the
// inbound message before the handler runs and the textual result afterwards.
package middleware

import (
	"github.com/go-playground/validator/v10"

	"github.com/orcastack/dummy-agent/core"
	"github.com/orcastack/dummy-agent/logging"
)

// Handler is the terminal function a middleware chain wraps.
type Handler func(msg core.ChatMessage) (string, error)

// Middleware observes or adjusts a message before processing and the result
// afterwards. ProcessRequest errors abort the chain.
type Middleware interface {
	ProcessRequest(msg *core.ChatMessage) error
	ProcessResponse(result string, msg core.ChatMessage) (string, error)
}

// Manager holds an ordered middleware chain. Request hooks run in
// registration order, response hooks in reverse.
type Manager struct {
	chain []Middleware
}

// NewManager returns an empty middleware manager.
func NewManager() *Manager { return &Manager{} }

// Use appends a middleware to the chain (chainable).
func (m *Manager) Use(mw Middleware) *Manager {
	m.chain = append(m.chain, mw)
	return m
}

// Execute runs the message through the chain around the handler.
func (m *Manager) Execute(msg core.ChatMessage, handler Handler) (string, error) {
	for _, mw := range m.chain {
		if err := mw.ProcessRequest(&msg); err != nil {
			return "", err
		}
	}
	result, err := handler(msg)
	if err != nil {
		return result, err
	}
	for i := len(m.chain) - 1; i >= 0; i-- {
		result, err = m.chain[i].ProcessResponse(result, msg)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// LoggingMiddleware logs each message entering and leaving the chain.
type LoggingMiddleware struct {
	Logger logging.Logger
}

// NewLoggingMiddleware creates a logging middleware over the given logger.
func NewLoggingMiddleware(logger logging.Logger) *LoggingMiddleware {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &LoggingMiddleware{Logger: logger}
}

// ProcessRequest logs the inbound message.
func (l *LoggingMiddleware) ProcessRequest(msg *core.ChatMessage) error {
	l.Logger.Info("processing request", "channel", msg.Channel, "thread_id", msg.ThreadID)
	return nil
}

// ProcessResponse logs the outbound result length.
func (l *LoggingMiddleware) ProcessResponse(result string, msg core.ChatMessage) (string, error) {
	l.Logger.Info("request processed", "channel", msg.Channel, "result_len", len(result))
	return result, nil
}

// ValidationMiddleware validates the inbound message's struct tags before the
// handler runs.
type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware creates a validation middleware.
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{validate: validator.New()}
}

// ProcessRequest rejects messages failing struct validation.
func (v *ValidationMiddleware) ProcessRequest(msg *core.ChatMessage) error {
	if err := v.validate.Struct(msg); err != nil {
		return core.NewValidationError("MESSAGE_INVALID", "inbound message failed validation").Wrap(err)
	}
	return nil
}

// ProcessResponse passes the result through unchanged.
func (v *ValidationMiddleware) ProcessResponse(result string, msg core.ChatMessage) (string, error) {
	return result, nil
}

// TransformMiddleware applies optional request/response transformation hooks.
type TransformMiddleware struct {
	// Request adjusts the message in place before processing.
	Request func(msg *core.ChatMessage)
	// Response rewrites the result after processing.
	Response func(result string) string
}

// ProcessRequest applies the request hook, if set.
func (t *TransformMiddleware) ProcessRequest(msg *core.ChatMessage) error {
	if t.Request != nil {
		t.Request(msg)
	}
	return nil
}

// ProcessResponse applies the response hook, if set.
func (t *TransformMiddleware) ProcessResponse(result string, msg core.ChatMessage) (string, error) {
	if t.Response != nil {
		result = t.Response(result)
	}
	return result, nil
}
