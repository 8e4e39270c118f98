package core

import "github.com/google/uuid"

// ChatMessage is the inbound message record constructed by the platform from
// the wire request. It is read-only to this code: routines inspect the body,
// variables and memory but never mutate them.
type ChatMessage struct {
	ResponseUUID string         `json:"response_uuid" validate:"required"`
	ThreadID     string         `json:"thread_id"`
	Channel      string         `json:"channel" validate:"required"`
	Message      string         `json:"message"`
	Variables    []Variable     `json:"variables,omitempty"`
	Memory       map[string]any `json:"memory,omitempty"`
}

// Variable is a single named configuration value attached to a message.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variables wraps the variable list of a message with lookup helpers.
type Variables struct {
	vars []Variable
}

// NewVariables creates a Variables helper over the given list. A nil list is
// treated as empty.
func NewVariables(vars []Variable) *Variables {
	return &Variables{vars: vars}
}

// Has reports whether a variable with the given name exists.
func (v *Variables) Has(name string) bool {
	_, ok := v.lookup(name)
	return ok
}

// Get returns the value of the named variable and whether it exists.
func (v *Variables) Get(name string) (string, bool) {
	return v.lookup(name)
}

// Names returns the variable names in declaration order.
func (v *Variables) Names() []string {
	names := make([]string, 0, len(v.vars))
	for _, vr := range v.vars {
		names = append(names, vr.Name)
	}
	return names
}

// Len returns the number of variables.
func (v *Variables) Len() int { return len(v.vars) }

func (v *Variables) lookup(name string) (string, bool) {
	for _, vr := range v.vars {
		if vr.Name == name {
			return vr.Value, true
		}
	}
	return "", false
}

// Memory wraps the persisted user memory map of a message with typed
// accessors. All accessors tolerate missing or malformed entries and return
// zero values instead of failing.
type Memory struct {
	data map[string]any
}

// NewMemory creates a Memory helper over the given map. A nil map is treated
// as empty.
func NewMemory(data map[string]any) *Memory {
	return &Memory{data: data}
}

// IsEmpty reports whether no memory is available.
func (m *Memory) IsEmpty() bool { return len(m.data) == 0 }

// Name returns the remembered user name, if any.
func (m *Memory) Name() string { return m.str("name") }

// Location returns the remembered user location, if any.
func (m *Memory) Location() string { return m.str("location") }

// Goals returns the remembered user goals.
func (m *Memory) Goals() []string { return m.list("goals") }

// Interests returns the remembered user interests.
func (m *Memory) Interests() []string { return m.list("interests") }

// Preferences returns the remembered user preferences.
func (m *Memory) Preferences() []string { return m.list("preferences") }

// PastExperiences returns the remembered past experiences.
func (m *Memory) PastExperiences() []string { return m.list("past_experiences") }

func (m *Memory) str(key string) string {
	if s, ok := m.data[key].(string); ok {
		return s
	}
	return ""
}

func (m *Memory) list(key string) []string {
	switch v := m.data[key].(type) {
	case []string:
		return v
	case []any:
		// JSON decoding yields []any; keep only string entries.
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// NewID generates a new unique identifier for sessions and frames.
func NewID() string { return uuid.NewString() }
