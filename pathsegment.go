// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonschema

import "strings"

// PathSegment is a single `/`-separated component of a URI path, classified
// per RFC 3986 §5.2.4 so that normalization can special-case the dot
// segments without string surgery.
type PathSegment struct {
	kind pathSegmentKind
	name string // set only when kind == segNormal
}

type pathSegmentKind uint8

const (
	segRoot    pathSegmentKind = iota // leading "/"
	segCurrent                        // "."
	segParent                         // ".."
	segNormal                         // anything else, name holds the text
)

func newPathSegment(s string) PathSegment {
	switch s {
	case ".":
		return PathSegment{kind: segCurrent}
	case "..":
		return PathSegment{kind: segParent}
	default:
		return PathSegment{kind: segNormal, name: s}
	}
}

func (p PathSegment) String() string {
	switch p.kind {
	case segRoot:
		return ""
	case segCurrent:
		return "."
	case segParent:
		return ".."
	default:
		return p.name
	}
}

// splitPathSegments splits a URI path into its segments, preserving a
// leading Root marker when the path is absolute (starts with "/").
func splitPathSegments(path string) []PathSegment {
	if path == "" {
		return nil
	}
	rooted := strings.HasPrefix(path, "/")
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	segs := make([]PathSegment, 0, len(parts)+1)
	if rooted {
		segs = append(segs, PathSegment{kind: segRoot})
	}
	for _, p := range parts {
		segs = append(segs, newPathSegment(p))
	}
	return segs
}

func joinPathSegments(segs []PathSegment) string {
	var b strings.Builder
	first := true
	for _, s := range segs {
		if s.kind == segRoot {
			b.WriteByte('/')
			first = true
			continue
		}
		if !first {
			b.WriteByte('/')
		}
		b.WriteString(s.String())
		first = false
	}
	return b.String()
}

// normalizePath implements RFC 3986 §5.2.4 remove_dot_segments, operating on
// a pre-split segment slice so Current/Parent handling never touches raw
// byte offsets. A leading Root segment is always preserved.
func normalizePath(path string) string {
	segs := splitPathSegments(path)
	if len(segs) == 0 {
		return path
	}
	rooted := segs[0].kind == segRoot
	if rooted {
		segs = segs[1:]
	}

	out := make([]PathSegment, 0, len(segs))
	for i, s := range segs {
		switch s.kind {
		case segCurrent:
			// drop; "." contributes nothing
		case segParent:
			if len(out) > 0 && out[len(out)-1].kind == segNormal {
				out = out[:len(out)-1]
			} else if !rooted {
				out = append(out, s)
			}
		default:
			// an empty trailing segment (from a path ending in "/")
			// is preserved so joinPathSegments round-trips it.
			if s.name == "" && i != len(segs)-1 && i != 0 {
				continue
			}
			out = append(out, s)
		}
	}
	// a final "." or ".." leaves the path ending in "/" (RFC 3986 §5.2.4).
	if n := len(segs); n > 0 && (segs[n-1].kind == segCurrent || segs[n-1].kind == segParent) {
		out = append(out, PathSegment{kind: segNormal})
	}

	if rooted {
		final := make([]PathSegment, 0, len(out)+1)
		final = append(final, PathSegment{kind: segRoot})
		final = append(final, out...)
		return joinPathSegments(final)
	}
	return joinPathSegments(out)
}

// basePath returns path up to and including the final "/", or "" if path
// has no "/".
func basePath(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i == -1 {
		return ""
	}
	return path[:i+1]
}

func mergePaths(basePath, refPath string) string {
	return basePath + refPath
}
