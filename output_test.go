package jsonschema

import "testing"

func compileUnevaluatedPropertiesSchema(t *testing.T) *Schema {
	t.Helper()
	c := NewCompiler()
	if err := c.AddResource("https://example.com/unevaluated.json", map[string]any{
		"allOf": []any{
			map[string]any{"properties": map[string]any{"foo": true}},
		},
		"unevaluatedProperties": false,
	}); err != nil {
		t.Fatalf("AddResource: %v", err)
	}
	return c.MustCompile("https://example.com/unevaluated.json")
}

func TestFlagOutputReportsValidity(t *testing.T) {
	c := NewCompiler()
	c.AddResource("https://example.com/s.json", map[string]any{"type": "string"})
	s := c.MustCompile("https://example.com/s.json")

	if got := s.Validate("hello"); got != nil {
		if fo := got.(*ValidationError).FlagOutput(); fo.Valid {
			t.Errorf("FlagOutput.Valid = true on a non-nil error")
		}
	}

	var nilErr *ValidationError
	if fo := nilErr.FlagOutput(); !fo.Valid {
		t.Error("FlagOutput on a nil *ValidationError should report Valid=true")
	}
}

func TestBasicOutputFlattensUnevaluatedPropertiesFailure(t *testing.T) {
	s := compileUnevaluatedPropertiesSchema(t)
	err := s.Validate(map[string]any{"foo": 1.0, "bar": 1.0})
	if err == nil {
		t.Fatal("Validate = nil, want failure: bar is unevaluated")
	}
	ve := err.(*ValidationError)
	basic := ve.BasicOutput()
	if basic.Valid {
		t.Error("BasicOutput.Valid = true, want false")
	}
	if len(basic.Errors) == 0 {
		t.Fatal("BasicOutput.Errors is empty, want at least the unevaluatedProperties failure")
	}
	// flatten includes the root unit itself (whose KeywordLocation and
	// InstanceLocation are both the empty root pointer), so only assert that
	// some unit names the actual failing keyword.
	foundKeyword, foundError := false, false
	for _, u := range basic.Errors {
		if u.KeywordLocation != "" {
			foundKeyword = true
		}
		if u.Error != "" {
			foundError = true
		}
	}
	if !foundKeyword {
		t.Error("no OutputUnit carried a non-root KeywordLocation")
	}
	if !foundError {
		t.Error("no OutputUnit carried a rendered Error message")
	}

	if err := s.Validate(map[string]any{"foo": 1.0}); err != nil {
		t.Errorf("Validate({foo:1}) = %v, want nil (foo is evaluated by allOf)", err)
	}
}

func TestDetailedOutputPreservesTreeShape(t *testing.T) {
	s := compileUnevaluatedPropertiesSchema(t)
	err := s.Validate(map[string]any{"foo": 1.0, "bar": 1.0})
	if err == nil {
		t.Fatal("Validate = nil, want failure")
	}
	d := err.(*ValidationError).DetailedOutput()
	if d.Valid {
		t.Error("DetailedOutput.Valid = true, want false")
	}
	// The root node wraps its failing keyword in a tree, so the
	// unevaluatedProperties keyword shows up one level down rather than on
	// the root unit itself (whose own KeywordLocation is the empty root
	// pointer).
	if len(d.Errors) == 0 {
		t.Fatal("DetailedOutput.Errors is empty, want the unevaluatedProperties branch")
	}
	if d.Errors[0].KeywordLocation == "" {
		t.Error("DetailedOutput.Errors[0].KeywordLocation is empty, want /unevaluatedProperties")
	}
}

func TestVerboseOutputCarriesErrorAtEveryNode(t *testing.T) {
	s := compileUnevaluatedPropertiesSchema(t)
	err := s.Validate(map[string]any{"foo": 1.0, "bar": 1.0})
	if err == nil {
		t.Fatal("Validate = nil, want failure")
	}
	v := err.(*ValidationError).VerboseOutput()
	if v.Error == "" {
		t.Error("VerboseOutput root has no Error message, want one on every node")
	}
	var walk func(u OutputUnit)
	walk = func(u OutputUnit) {
		if u.Error == "" {
			t.Errorf("VerboseOutput node %q has empty Error", u.KeywordLocation)
		}
		for _, c := range u.Errors {
			walk(c)
		}
	}
	walk(v)
}

func TestDetailedAndVerboseOutputOnNilError(t *testing.T) {
	var ve *ValidationError
	if d := ve.DetailedOutput(); !d.Valid {
		t.Error("DetailedOutput on nil error should report Valid=true")
	}
	if v := ve.VerboseOutput(); !v.Valid {
		t.Error("VerboseOutput on nil error should report Valid=true")
	}
}
