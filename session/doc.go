// Package session implements the response-session layer the demo agent
// exercises: a Handler opening one Session per inbound message, Session
// operations that emit typed frames (text, loading indicators, buttons,
// media, usage, traces) to a pluggable Sink, a fluent Builder batching
// session steps, and a With helper guaranteeing session closure.
//
// Sessions are safe for use from a single goroutine per request; the sinks
// they write to are safe for concurrent access.
package session
