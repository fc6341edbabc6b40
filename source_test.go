package jsonschema

import "testing"

func mustAbsURI(t *testing.T, s string) AbsoluteUri {
	t.Helper()
	u, err := ParseAbsoluteUri(s)
	if err != nil {
		t.Fatalf("ParseAbsoluteUri(%q): %v", s, err)
	}
	return u
}

func TestSourceStorePutAndGet(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	doc := map[string]any{"type": "string"}
	if err := s.put(u, doc); err != nil {
		t.Fatalf("put: %v", err)
	}
	e, ok := s.get(u)
	if !ok {
		t.Fatal("get: missing entry")
	}
	if e.doc.(map[string]any)["type"] != "string" {
		t.Errorf("unexpected stored doc: %#v", e.doc)
	}
}

func TestSourceStoreGetStripsFragment(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	s.put(u, map[string]any{})
	withFrag := mustAbsURI(t, "https://example.com/schema.json#/definitions/x")
	if _, ok := s.get(withFrag); !ok {
		t.Fatal("expected get to find entry after stripping fragment")
	}
}

func TestSourceStoreGetOrErrorMiss(t *testing.T) {
	s := newSourceStore(nil)
	if _, err := s.getOrError(mustAbsURI(t, "https://example.com/missing.json")); err == nil {
		t.Fatal("expected SourceNotFoundError")
	}
}

func TestSourceStorePutConflictOnDifferentDoc(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	if err := s.put(u, map[string]any{"type": "string"}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := s.put(u, map[string]any{"type": "integer"}); err == nil {
		t.Fatal("expected SchemaConflictError on conflicting re-put")
	}
}

func TestSourceStorePutIdempotentOnIdenticalDoc(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	doc := map[string]any{"type": "string"}
	if err := s.put(u, doc); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := s.put(u, doc); err != nil {
		t.Fatalf("re-put of identical doc should be a no-op: %v", err)
	}
	// a structurally equal but distinct document must also be accepted.
	if err := s.put(u, map[string]any{"type": "string"}); err != nil {
		t.Fatalf("re-put of structurally equal doc should be a no-op: %v", err)
	}
}

func TestSourceStorePutBytesUsesDeserializer(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	if err := s.putBytes(u, []byte(`{"type": "number"}`)); err != nil {
		t.Fatalf("putBytes: %v", err)
	}
	e, _ := s.get(u)
	if e.doc.(map[string]any)["type"] != "number" {
		t.Errorf("putBytes stored %#v", e.doc)
	}
}

func TestSourceStorePutBytesRejectsTrailingGarbage(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	if err := s.putBytes(u, []byte(`{}garbage`)); err == nil {
		t.Fatal("expected DeserializeError for trailing garbage")
	}
}

func TestSourceEntryResolvePointerAndCache(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	s.put(u, map[string]any{"definitions": map[string]any{"x": map[string]any{"type": "string"}}})
	e, _ := s.get(u)
	ptr, _ := newJSONPointer("/definitions/x")
	v, err := e.resolvePointer(ptr)
	if err != nil {
		t.Fatalf("resolvePointer: %v", err)
	}
	if v.(map[string]any)["type"] != "string" {
		t.Errorf("resolvePointer result = %#v", v)
	}
	if _, ok := e.ptrAliases[ptr]; !ok {
		t.Error("expected resolvePointer to populate ptrAliases cache")
	}
}

func TestSourceEntryResolvePointerMiss(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	s.put(u, map[string]any{})
	e, _ := s.get(u)
	ptr, _ := newJSONPointer("/missing")
	if _, err := e.resolvePointer(ptr); err == nil {
		t.Fatal("expected PointerFailedToResolveError")
	}
}

func TestSourceEntryAddAnchor(t *testing.T) {
	s := newSourceStore(nil)
	u := mustAbsURI(t, "https://example.com/schema.json")
	s.put(u, map[string]any{})
	e, _ := s.get(u)
	ptr := rootPointer.append("definitions").append("x")

	if err := e.addAnchor("X", ptr); err != nil {
		t.Fatalf("addAnchor: %v", err)
	}
	// re-registering the same name at the same pointer is a no-op.
	if err := e.addAnchor("X", ptr); err != nil {
		t.Fatalf("idempotent addAnchor: %v", err)
	}
	got, ok := e.lookupAnchor("X")
	if !ok || got != ptr {
		t.Errorf("lookupAnchor(X) = (%q, %v), want (%q, true)", got, ok, ptr)
	}
	// same name at a different pointer is a conflict.
	other := rootPointer.append("definitions").append("y")
	if err := e.addAnchor("X", other); err == nil {
		t.Fatal("expected DuplicateAnchorError")
	}
}
