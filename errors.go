// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"fmt"
	"strings"

	"github.com/kortexdev/interrogator/kind"
)

// ValidationError is returned by Evaluate. KeywordLocation/InstanceLocation
// are JSON Pointers relative to the evaluating schema/instance root;
// AbsoluteKeywordLocation additionally carries the schema's source URI so a
// caller can locate the failing keyword without re-walking the graph.
type ValidationError struct {
	KeywordLocation         string
	AbsoluteKeywordLocation string
	InstanceLocation        string
	Kind                    kind.ErrorKind
	Causes                  []*ValidationError
}

func (ve *ValidationError) add(causes ...*ValidationError) {
	ve.Causes = append(ve.Causes, causes...)
}

func (ve *ValidationError) Error() string {
	loc := ve.AbsoluteKeywordLocation
	loc = loc[strings.IndexByte(loc, '#')+1:]
	if loc == "" {
		loc = "/"
	}
	msg := "validation failed"
	if ve.Kind != nil {
		msg = ve.Kind.String()
	}
	return fmt.Sprintf("I[%s] S[%s] %s", ve.InstanceLocation, loc, msg)
}

func (ve *ValidationError) GoString() string {
	msg := ve.Error()
	for _, c := range ve.Causes {
		for _, line := range strings.Split(c.GoString(), "\n") {
			msg += "\n  " + line
		}
	}
	return msg
}

// Unwrap exposes the first cause so callers can errors.As/Is into nested
// ValidationErrors without walking Causes by hand.
func (ve *ValidationError) Unwrap() error {
	if len(ve.Causes) == 0 {
		return nil
	}
	return ve.Causes[0]
}

func joinPtr(ptr1, ptr2 string) string {
	if len(ptr1) == 0 {
		return ptr2
	}
	if len(ptr2) == 0 {
		return ptr1
	}
	return ptr1 + "/" + ptr2
}

func absPtr(ptr string) string {
	if ptr == "" {
		return "#"
	}
	if ptr[0] != '#' {
		return "#/" + ptr
	}
	return ptr
}

// CompileError is the error type returned by Compiler.Compile. Err is one
// of the structural, source or URI errors below, or a *SchemaError wrapping
// a keyword's Compile failure; schema documents are not validated against
// their metaschema.
type CompileError struct {
	URL string
	Err error
}

func (ce *CompileError) Error() string {
	return fmt.Sprintf("jsonschema: %q: compilation failed: %v", ce.URL, ce.Err)
}

func (ce *CompileError) Unwrap() error { return ce.Err }

// SchemaError wraps the error a Keyword's Compile returned for the schema at
// SchemaURL during compilation.
type SchemaError struct {
	SchemaURL string
	Err       error
}

func (se *SchemaError) Error() string {
	return fmt.Sprintf("json-schema %q compilation failed", se.SchemaURL)
}

func (se *SchemaError) Unwrap() error { return se.Err }

func (se *SchemaError) GoString() string {
	if ve, ok := se.Err.(*ValidationError); ok {
		return fmt.Sprintf("json-schema %q compilation failed. Reason:\n%#v", se.SchemaURL, ve)
	}
	return fmt.Sprintf("json-schema %q compilation failed. Reason: %v", se.SchemaURL, se.Err)
}

// ResolveErrors aggregates every failure a Resolver chain collected while
// trying each entry in order: none succeeding is reported with the
// full list so a caller can see which scheme/fetcher was tried.
type ResolveErrors struct {
	URL    string
	Causes []error
}

func (re *ResolveErrors) Error() string {
	parts := make([]string, len(re.Causes))
	for i, c := range re.Causes {
		parts[i] = c.Error()
	}
	return fmt.Sprintf("jsonschema: resolving %q: %s", re.URL, strings.Join(parts, "; "))
}

// DeserializeError wraps a Deserializer failure (malformed JSON/YAML) with
// the source URL it was decoding.
type DeserializeError struct {
	URL string
	Err error
}

func (de *DeserializeError) Error() string {
	return fmt.Sprintf("jsonschema: %q: deserialize failed: %v", de.URL, de.Err)
}

func (de *DeserializeError) Unwrap() error { return de.Err }

// -- structural compile errors (C3/C5/C6/C7) --

// SchemaConflictError is returned when two distinct documents claim the
// same content-addressed source key (a key is written once).
type SchemaConflictError struct{ URL string }

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("jsonschema: %q: a different schema is already associated with this uri", e.URL)
}

// DuplicateAnchorError is returned when a dialect sees the same $anchor (or
// $dynamicAnchor) declared twice within one base schema resource.
type DuplicateAnchorError struct {
	Anchor string
	URL    string
}

func (e *DuplicateAnchorError) Error() string {
	return fmt.Sprintf("jsonschema: %q: duplicate anchor %q", e.URL, e.Anchor)
}

// CyclicDependencyError is returned when the reference graph contains an
// eager cycle: a chain of $ref edges, none of them deferred, that
// returns to a schema already on the current compile stack.
type CyclicDependencyError struct{ Path []string }

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("jsonschema: cyclic dependency: %s", strings.Join(e.Path, " -> "))
}

// UnknownAnchorError is returned when a $ref/$dynamicRef fragment names an
// anchor that was never declared in the target resource.
type UnknownAnchorError struct {
	Anchor string
	URL    string
}

func (e *UnknownAnchorError) Error() string {
	return fmt.Sprintf("jsonschema: %q: unknown anchor %q", e.URL, e.Anchor)
}

// FragmentedIdError is returned when a $id value carries a fragment, which
// every supported dialect forbids.
type FragmentedIdError struct{ ID string }

func (e *FragmentedIdError) Error() string {
	return fmt.Sprintf("jsonschema: $id %q must not contain a fragment", e.ID)
}

// PointerFailedToResolveError wraps a jsonPointer.lookup failure with the
// source document it was resolving against.
type PointerFailedToResolveError struct {
	URL     string
	Pointer string
}

func (e *PointerFailedToResolveError) Error() string {
	return fmt.Sprintf("jsonschema: %q: json pointer %q failed to resolve", e.URL, e.Pointer)
}

// DuplicateDialectError is returned when a Compiler is given two dialects
// that claim the same metaschema URI.
type DuplicateDialectError struct{ URL string }

func (e *DuplicateDialectError) Error() string {
	return fmt.Sprintf("jsonschema: duplicate dialect registered for %q", e.URL)
}

// NoDialectsError is returned when a Compiler has no dialects registered at
// all (the registry must never be empty).
type NoDialectsError struct{}

func (e *NoDialectsError) Error() string { return "jsonschema: no dialects registered" }

// DefaultDialectNotFoundError is returned when Compiler.DefaultDraft names
// a metaschema URI that no registered dialect recognizes.
type DefaultDialectNotFoundError struct{ URL string }

func (e *DefaultDialectNotFoundError) Error() string {
	return fmt.Sprintf("jsonschema: default dialect %q is not registered", e.URL)
}

// UnknownKeyError's message is the value graph lookups panic with when given
// a Key whose index lies outside the graph's arena, such as the zero Key.
type UnknownKeyError struct{}

func (e *UnknownKeyError) Error() string { return "jsonschema: unknown schema key" }

// NumberParseError is returned when a json.Number fails to parse as a
// big.Rat during numeric keyword compilation.
type NumberParseError struct{ Value string }

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("jsonschema: %q is not a valid number", e.Value)
}

// RegexCompileError wraps a RegexpEngine.Compile failure with the pattern
// text and the keyword (pattern/patternProperties) it came from.
type RegexCompileError struct {
	Keyword string
	Pattern string
	Err     error
}

func (e *RegexCompileError) Error() string {
	return fmt.Sprintf("jsonschema: %s: pattern %q: %v", e.Keyword, e.Pattern, e.Err)
}

func (e *RegexCompileError) Unwrap() error { return e.Err }

// SourceNotFoundError is returned when the source store has no document
// registered under a fragment-free AbsoluteUri.
type SourceNotFoundError struct{ URL string }

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("jsonschema: %q: source not found", e.URL)
}
