package jsonschema

import (
	"encoding/json"
	"testing"
)

// TestDynamicRefExtensiblePattern exercises the canonical 2020-12
// $dynamicRef/$dynamicAnchor "extensible list" pattern: a base schema
// references an extension point via $dynamicRef, and a derived schema
// (which $ref's the base but also redeclares the same $dynamicAnchor) wins
// the lookup because it is outermost on the dynamic scope.
func TestDynamicRefExtensiblePattern(t *testing.T) {
	c := NewCompiler()
	c.AddResource("https://example.com/base.json", map[string]any{
		"$schema": Draft2020ID,
		"$id":     "https://example.com/base.json",
		"type":    "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type":  "array",
				"items": map[string]any{"$dynamicRef": "#item"},
			},
		},
		"$defs": map[string]any{
			"item": map[string]any{"$dynamicAnchor": "item", "type": "string"},
		},
	})
	c.AddResource("https://example.com/derived.json", map[string]any{
		"$schema": Draft2020ID,
		"$id":     "https://example.com/derived.json",
		"$ref":    "https://example.com/base.json",
		"$defs": map[string]any{
			"item": map[string]any{"$dynamicAnchor": "item", "type": "integer"},
		},
	})

	base := c.MustCompile("https://example.com/base.json")
	if err := base.Validate(map[string]any{"items": []any{"a", "b"}}); err != nil {
		t.Errorf("base: Validate(strings) = %v, want nil", err)
	}
	if err := base.Validate(map[string]any{"items": []any{json.Number("1")}}); err == nil {
		t.Error("base: Validate([1]) = nil, want type violation (base's item is string)")
	}

	derived := c.MustCompile("https://example.com/derived.json")
	if err := derived.Validate(map[string]any{"items": []any{json.Number("1"), json.Number("2")}}); err != nil {
		t.Errorf("derived: Validate(numbers) = %v, want nil (dynamic scope should pick derived's item)", err)
	}
	if err := derived.Validate(map[string]any{"items": []any{"a"}}); err == nil {
		t.Error("derived: Validate([\"a\"]) = nil, want type violation (derived's item is integer)")
	}
}

// TestSelfReferentialRefTerminates exercises S4: a document whose nested
// subschema $refs the document's own root compiles successfully, and
// evaluating a recursively nested instance against it terminates instead of
// looping forever.
func TestSelfReferentialRefTerminates(t *testing.T) {
	c := NewCompiler()
	c.AddResource("https://example.com/tree.json", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"children": map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "https://example.com/tree.json"},
			},
		},
	})
	s := c.MustCompile("https://example.com/tree.json")
	instance := map[string]any{
		"children": []any{
			map[string]any{"children": []any{}},
		},
	}
	if err := s.Validate(instance); err != nil {
		t.Errorf("Validate(nested tree) = %v, want nil", err)
	}
	bad := map[string]any{
		"children": []any{json.Number("1")},
	}
	if err := s.Validate(bad); err == nil {
		t.Error("Validate(bad) = nil, want type violation at children/0")
	}
}

func TestEvaluationOrderRunsUnevaluatedPropertiesLast(t *testing.T) {
	order := evaluationOrder(map[string]Keyword{
		"unevaluatedProperties": nil,
		"properties":            nil,
		"additionalProperties":  nil,
		"type":                  nil,
	})
	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	if pos["unevaluatedProperties"] < pos["additionalProperties"] {
		t.Error("unevaluatedProperties must run after additionalProperties")
	}
	if pos["additionalProperties"] < pos["properties"] {
		t.Error("additionalProperties must run after properties")
	}
}

func TestEvaluateBooleanSchemaShortCircuitsWithoutDynamicScope(t *testing.T) {
	c := NewCompiler()
	c.AddResource("https://example.com/false.json", false)
	s := c.MustCompile("https://example.com/false.json")
	err := s.Validate("anything")
	if err == nil {
		t.Fatal("Validate against false schema = nil, want failure")
	}
	ve := err.(*ValidationError)
	if ve.InstanceLocation != "" {
		t.Errorf("InstanceLocation = %q, want root pointer", ve.InstanceLocation)
	}
}
