package jsondec

import (
	"encoding/json"
	"testing"
)

func TestDeserializerPreservesNumbersAsJSONNumber(t *testing.T) {
	doc, err := Deserializer([]byte(`{"a": 1, "b": 2.5}`))
	if err != nil {
		t.Fatalf("Deserializer: %v", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		t.Fatalf("doc type = %T, want map[string]any", doc)
	}
	if _, ok := m["a"].(json.Number); !ok {
		t.Errorf("m[\"a\"] type = %T, want json.Number", m["a"])
	}
	if n, _ := m["b"].(json.Number).Float64(); n != 2.5 {
		t.Errorf("m[\"b\"] = %v, want 2.5", m["b"])
	}
}

func TestDeserializerRejectsTrailingGarbage(t *testing.T) {
	if _, err := Deserializer([]byte(`{"a": 1} garbage`)); err == nil {
		t.Error("Deserializer with trailing garbage = nil error, want failure")
	}
}

func TestDeserializerRejectsMalformedJSON(t *testing.T) {
	if _, err := Deserializer([]byte(`{not json`)); err == nil {
		t.Error("Deserializer on malformed input = nil error, want failure")
	}
}
