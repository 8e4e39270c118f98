// Package logging provides a minimal logging interface and adapters for the
// demo agent.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the dispatcher, session layer and transport adapters use
// for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - AgentLogger with contextual helpers (component, channel, session)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Setup builds the process-wide logger: it tees output to a log file whose
// path depends on whether the process runs inside AWS Lambda (only /tmp is
// writable there) and selects a text handler locally versus JSON in Lambda,
// where CloudWatch does not render terminal styling.
package logging
