package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Deserializer decodes raw source bytes into the document tree the rest of
// the compiler operates on (map[string]any / []any / json.Number / string /
// bool / nil). The default implementation preserves numeric precision via
// json.Number so big.Rat keyword math never loses bits; jsondec and yamldec
// provide drop-in alternates over the same contract.
type Deserializer func(data []byte) (any, error)

// defaultDeserializer mirrors resource.go's decodeJson: UseNumber, and
// reject trailing garbage after the top-level value.
func defaultDeserializer(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid data after top-level value")
	}
	return doc, nil
}

// sourceEntry is one content-addressed document: the raw document tree
// together with the alias table mapping sub-document locators (JSON
// Pointers, anchors) to the node they address, so dialect/compiler code
// never has to re-walk the tree to resolve a fragment.
type sourceEntry struct {
	url jsonPointerlessUri
	doc any

	// ptrAliases maps a JSON Pointer (wire form) within doc to the node it
	// addresses, populated lazily as pointers are dereferenced.
	ptrAliases map[jsonPointer]any
	// anchors maps a plain $anchor/$dynamicAnchor name to the pointer of
	// the schema object that declared it, populated during the
	// compiler's identification pass.
	anchors map[string]jsonPointer
}

// jsonPointerlessUri is an AbsoluteUri known to satisfy NoFragment(); kept
// as a distinct type alias only for self-documentation at call sites.
type jsonPointerlessUri = AbsoluteUri

// sourceStore is the content-addressed cache: one entry
// per fragment-free AbsoluteUri, written at most once (SchemaConflictError
// on a second distinct write), with a Deserializer selectable per store.
type sourceStore struct {
	deserialize Deserializer
	entries     map[string]*sourceEntry // keyed by AbsoluteUri.String()
}

func newSourceStore(d Deserializer) *sourceStore {
	if d == nil {
		d = defaultDeserializer
	}
	return &sourceStore{deserialize: d, entries: map[string]*sourceEntry{}}
}

// put registers doc under u, which must have no fragment. A second put
// under the same key with a different document is a SchemaConflictError;
// re-putting an equal document (same JSON encoding) is a no-op.
func (s *sourceStore) put(u AbsoluteUri, doc any) error {
	if !u.NoFragment() {
		panic("BUG: sourceStore.put with fragment")
	}
	key := u.String()
	if e, ok := s.entries[key]; ok {
		if !sameDoc(e.doc, doc) {
			return &SchemaConflictError{URL: key}
		}
		return nil
	}
	s.entries[key] = &sourceEntry{
		url:        u,
		doc:        doc,
		ptrAliases: map[jsonPointer]any{},
		anchors:    map[string]jsonPointer{},
	}
	return nil
}

// putBytes decodes data with the store's Deserializer and puts the result.
func (s *sourceStore) putBytes(u AbsoluteUri, data []byte) error {
	doc, err := s.deserialize(data)
	if err != nil {
		return &DeserializeError{URL: u.String(), Err: err}
	}
	return s.put(u, doc)
}

// get returns the entry registered under u (fragment stripped for lookup).
func (s *sourceStore) get(u AbsoluteUri) (*sourceEntry, bool) {
	e, ok := s.entries[u.WithoutFragment().String()]
	return e, ok
}

// getOrError is get, producing SourceNotFoundError on a miss.
func (s *sourceStore) getOrError(u AbsoluteUri) (*sourceEntry, error) {
	e, ok := s.get(u)
	if !ok {
		return nil, &SourceNotFoundError{URL: u.WithoutFragment().String()}
	}
	return e, nil
}

// resolvePointer looks up ptr within e.doc, caching the result in
// ptrAliases so repeated dereferences (common for $ref chains that share a
// prefix) don't re-walk the tree.
func (e *sourceEntry) resolvePointer(ptr jsonPointer) (any, error) {
	if v, ok := e.ptrAliases[ptr]; ok {
		return v, nil
	}
	v, err := ptr.lookup(e.doc)
	if err != nil {
		return nil, &PointerFailedToResolveError{URL: e.url.String(), Pointer: ptr.String()}
	}
	e.ptrAliases[ptr] = v
	return v, nil
}

// addAnchor registers name as addressing ptr within e. A second
// registration of the same name at a different pointer is a
// DuplicateAnchorError; re-registering the same pointer is a no-op so the
// compiler's identification pass can be safely re-run.
func (e *sourceEntry) addAnchor(name string, ptr jsonPointer) error {
	if existing, ok := e.anchors[name]; ok {
		if existing != ptr {
			return &DuplicateAnchorError{Anchor: name, URL: e.url.String()}
		}
		return nil
	}
	e.anchors[name] = ptr
	return nil
}

func (e *sourceEntry) lookupAnchor(name string) (jsonPointer, bool) {
	ptr, ok := e.anchors[name]
	return ptr, ok
}

func sameDoc(a, b any) bool {
	// Two documents are the same when json.Marshal encodes them to the
	// same bytes; no pointer-identity shortcut is taken.
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		return ok && samePointerMap(av, bv)
	default:
		return jsonEqual(a, b)
	}
}

func samePointerMap(a, b map[string]any) bool {
	// compares the two objects by their JSON encoding (json.Marshal sorts
	// map keys, so member order does not matter).
	return jsonEqual(a, b)
}

func jsonEqual(a, b any) bool {
	da, err1 := json.Marshal(a)
	db, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(da, db)
}
