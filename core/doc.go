// Package core defines the shared data model of the demo agent: the inbound
// ChatMessage with its variable and memory helpers, the closed Frame interface
// describing everything a session can deliver to a streaming consumer (text,
// loading indicators, buttons, media, usage records, trace records), and the
// structured error taxonomy used across the repository.
package core
