package core

import "testing"

func TestVariables_LookupAndNames(t *testing.T) {
	vars := NewVariables([]Variable{
		{Name: "OPENAI_API_KEY", Value: "sk-test"},
		{Name: "REGION", Value: "eu-west-1"},
	})

	if vars.Len() != 2 {
		t.Fatalf("expected 2 variables, got %d", vars.Len())
	}
	if !vars.Has("OPENAI_API_KEY") {
		t.Error("expected OPENAI_API_KEY to exist")
	}
	if vars.Has("MISSING") {
		t.Error("did not expect MISSING to exist")
	}
	if v, ok := vars.Get("REGION"); !ok || v != "eu-west-1" {
		t.Errorf("Get(REGION) = %q, %v", v, ok)
	}

	names := vars.Names()
	if len(names) != 2 || names[0] != "OPENAI_API_KEY" || names[1] != "REGION" {
		t.Errorf("Names() returned %v, expected declaration order", names)
	}
}

func TestVariables_NilList(t *testing.T) {
	vars := NewVariables(nil)
	if vars.Len() != 0 {
		t.Errorf("expected empty variables, got %d", vars.Len())
	}
	if _, ok := vars.Get("anything"); ok {
		t.Error("lookup on empty variables should miss")
	}
}

func TestMemory_TypedAccessors(t *testing.T) {
	m := NewMemory(map[string]any{
		"name":     "Alex",
		"location": "Berlin",
		"goals":    []string{"learn go", "ship"},
	})

	if m.IsEmpty() {
		t.Fatal("memory should not be empty")
	}
	if m.Name() != "Alex" {
		t.Errorf("Name() = %q", m.Name())
	}
	if m.Location() != "Berlin" {
		t.Errorf("Location() = %q", m.Location())
	}
	if goals := m.Goals(); len(goals) != 2 || goals[0] != "learn go" {
		t.Errorf("Goals() = %v", goals)
	}
}

func TestMemory_ToleratesJSONDecodedLists(t *testing.T) {
	// JSON decoding produces []any, not []string.
	m := NewMemory(map[string]any{
		"interests": []any{"music", "golang", 42},
	})
	interests := m.Interests()
	if len(interests) != 2 || interests[0] != "music" || interests[1] != "golang" {
		t.Errorf("Interests() = %v, expected non-string entries dropped", interests)
	}
}

func TestMemory_MalformedAndMissingEntries(t *testing.T) {
	m := NewMemory(map[string]any{"name": 123, "goals": "not a list"})
	if m.Name() != "" {
		t.Errorf("malformed name should yield empty string, got %q", m.Name())
	}
	if m.Goals() != nil {
		t.Errorf("malformed goals should yield nil, got %v", m.Goals())
	}

	empty := NewMemory(nil)
	if !empty.IsEmpty() {
		t.Error("nil map should be empty")
	}
	if empty.PastExperiences() != nil {
		t.Error("missing list should yield nil")
	}
}

func TestNewID_Unique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("consecutive IDs should differ")
	}
}
