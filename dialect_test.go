package jsonschema

import "testing"

func TestDialectRegistryRegisterDuplicate(t *testing.T) {
	r := NewDialectRegistry()
	d := &Dialect{ID: "urn:x"}
	if err := r.Register(d); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(d); err == nil {
		t.Fatal("expected DuplicateDialectError on second register")
	}
}

func TestDialectRegistryDefaultsToFirstRegistered(t *testing.T) {
	r := NewDialectRegistry()
	first := &Dialect{ID: "urn:a"}
	second := &Dialect{ID: "urn:b"}
	r.Register(first)
	r.Register(second)
	got, err := r.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if got != first {
		t.Errorf("Default() = %v, want first-registered dialect", got.ID)
	}
}

func TestDialectRegistrySetDefaultUnknown(t *testing.T) {
	r := NewDialectRegistry()
	r.Register(&Dialect{ID: "urn:a"})
	if err := r.SetDefault("urn:missing"); err == nil {
		t.Fatal("expected DefaultDialectNotFoundError")
	}
}

func TestDialectRegistrySelectBySchemaKeyword(t *testing.T) {
	r := NewDialectRegistry()
	a := &Dialect{ID: "urn:a"}
	r.Register(a)
	got, err := r.Select("urn:a", map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got != a {
		t.Fatal("Select did not honor explicit $schema")
	}
	if _, err := r.Select("urn:unknown", map[string]any{}, nil); err == nil {
		t.Fatal("expected error for unknown $schema")
	}
}

func TestDialectRegistrySelectByProbe(t *testing.T) {
	r := NewDialectRegistry()
	modern := &Dialect{ID: "urn:modern", IsPertinentTo: hasAny("prefixItems")}
	legacy := &Dialect{ID: "urn:legacy", IsPertinentTo: hasAny("id")}
	r.Register(modern)
	r.Register(legacy)

	got, err := r.Select("", map[string]any{"prefixItems": []any{}}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got != modern {
		t.Errorf("Select() by probe = %v, want modern", got.ID)
	}

	got, err = r.Select("", map[string]any{"id": "x"}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got != legacy {
		t.Errorf("Select() by probe = %v, want legacy", got.ID)
	}
}

func TestDialectRegistrySelectFallsBackToParentThenDefault(t *testing.T) {
	r := NewDialectRegistry()
	a := &Dialect{ID: "urn:a"}
	r.Register(a)

	got, err := r.Select("", map[string]any{}, a)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got != a {
		t.Fatal("expected parent dialect when no probe matches")
	}

	got, err = r.Select("", map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got != a {
		t.Fatal("expected registry default when no probe or parent")
	}
}
