package yamldec

import (
	"encoding/json"
	"testing"
)

func TestDeserializerNormalizesMapAndNumberTypes(t *testing.T) {
	doc, err := Deserializer([]byte("type: object\nminProperties: 1\nproperties:\n  name:\n    type: string\n"))
	if err != nil {
		t.Fatalf("Deserializer: %v", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		t.Fatalf("doc type = %T, want map[string]any", doc)
	}
	if _, ok := m["minProperties"].(json.Number); !ok {
		t.Errorf("minProperties type = %T, want json.Number", m["minProperties"])
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties type = %T, want map[string]any", m["properties"])
	}
	name, ok := props["name"].(map[string]any)
	if !ok {
		t.Fatalf("properties.name type = %T, want map[string]any", props["name"])
	}
	if name["type"] != "string" {
		t.Errorf("properties.name.type = %v, want \"string\"", name["type"])
	}
}

func TestDeserializerNormalizesLists(t *testing.T) {
	doc, err := Deserializer([]byte("- 1\n- 2\n- three\n"))
	if err != nil {
		t.Fatalf("Deserializer: %v", err)
	}
	list, ok := doc.([]any)
	if !ok {
		t.Fatalf("doc type = %T, want []any", doc)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	if _, ok := list[0].(json.Number); !ok {
		t.Errorf("list[0] type = %T, want json.Number", list[0])
	}
	if list[2] != "three" {
		t.Errorf("list[2] = %v, want \"three\"", list[2])
	}
}

func TestDeserializerAcceptsPlainJSON(t *testing.T) {
	doc, err := Deserializer([]byte(`{"type": "integer"}`))
	if err != nil {
		t.Fatalf("Deserializer on JSON input: %v", err)
	}
	m := doc.(map[string]any)
	if m["type"] != "integer" {
		t.Errorf("type = %v, want \"integer\"", m["type"])
	}
}

func TestDeserializerRejectsMalformedYAML(t *testing.T) {
	if _, err := Deserializer([]byte("key: [unterminated")); err == nil {
		t.Error("Deserializer on malformed YAML = nil error, want failure")
	}
}
