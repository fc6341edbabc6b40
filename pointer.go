// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"fmt"
	"strconv"
	"strings"
)

// jsonPointer is an ordered sequence of decoded tokens (RFC 6901). The
// empty pointer addresses the document root. Values are stored as their
// wire ("~1"/"~0" escaped) representation joined by "/" with a leading
// slash, e.g. "/a~1b/0", so jsonPointer can be used directly as a map key
// (graph.go, root.go-style resource tables) without re-escaping on every
// lookup.
type jsonPointer string

const rootPointer jsonPointer = ""

func (p jsonPointer) isEmpty() bool { return p == "" }

// tokens splits p into its decoded tokens.
func (p jsonPointer) tokens() []string {
	if p == "" {
		return nil
	}
	parts := strings.Split(string(p), "/")[1:]
	out := make([]string, len(parts))
	for i, tok := range parts {
		out[i] = unescapeToken(tok)
	}
	return out
}

// append returns the pointer addressing tok within the value p addresses.
func (p jsonPointer) append(tok string) jsonPointer {
	return p + "/" + jsonPointer(escapeToken(tok))
}

// concat returns p with q's tokens appended.
func (p jsonPointer) concat(q jsonPointer) jsonPointer {
	if q == "" {
		return p
	}
	return p + q
}

func (p jsonPointer) String() string {
	if p == "" {
		return ""
	}
	return string(p)
}

func escapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

func unescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// newJSONPointer parses the wire form of a JSON Pointer (RFC 6901): either
// "" (root) or a sequence of "/"-prefixed escaped tokens.
func newJSONPointer(s string) (jsonPointer, error) {
	if s == "" {
		return rootPointer, nil
	}
	if !strings.HasPrefix(s, "/") {
		return "", &MalformedPointerError{Pointer: s, Reason: "must start with '/'"}
	}
	return jsonPointer(s), nil
}

// lookup resolves p against doc, returning the nested value or a
// PointerNotFoundError naming the failing token.
func (p jsonPointer) lookup(doc any) (any, error) {
	cur := doc
	for i, tok := range p.tokens() {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[tok]
			if !ok {
				return nil, &PointerNotFoundError{Pointer: string(p), TokenIndex: i}
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, &PointerNotFoundError{Pointer: string(p), TokenIndex: i}
			}
			cur = v[idx]
		default:
			return nil, &PointerNotFoundError{Pointer: string(p), TokenIndex: i}
		}
	}
	return cur, nil
}

// contains reports whether p is q or an ancestor pointer of q.
func (p jsonPointer) contains(q jsonPointer) bool {
	if p == q {
		return true
	}
	return strings.HasPrefix(string(q), string(p)+"/")
}

// -- error taxonomy --

type MalformedPointerError struct {
	Pointer string
	Reason  string
}

func (e *MalformedPointerError) Error() string {
	return fmt.Sprintf("jsonschema: malformed json pointer %q: %s", e.Pointer, e.Reason)
}

type PointerNotFoundError struct {
	Pointer    string
	TokenIndex int
}

func (e *PointerNotFoundError) Error() string {
	return fmt.Sprintf("jsonschema: json pointer %q: token %d not found", e.Pointer, e.TokenIndex)
}
