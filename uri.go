// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxURILen bounds parsed input to the data model's size invariant
// (2^32-1 bytes); it exists so a hostile or corrupt document cannot
// make the compiler build arbitrarily large URI state.
const maxURILen = 1<<32 - 1

// uriKind tags which RFC an AbsoluteUri/Uri was parsed under.
type uriKind uint8

const (
	kindURL uriKind = iota
	kindURN
)

// urn is a parsed RFC 8141 Uniform Resource Name: urn:NID:NSS[?+R][?=Q][#F].
type urn struct {
	nid        string
	nss        string
	rComponent string
	qComponent string
	fragment   string
}

func (u urn) String() string {
	var b strings.Builder
	b.WriteString("urn:")
	b.WriteString(u.nid)
	b.WriteByte(':')
	b.WriteString(u.nss)
	if u.rComponent != "" {
		b.WriteString("?+")
		b.WriteString(u.rComponent)
	}
	if u.qComponent != "" {
		b.WriteString("?=")
		b.WriteString(u.qComponent)
	}
	if u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}

func parseURN(s string) (urn, error) {
	rest, ok := strings.CutPrefix(s, "urn:")
	if !ok {
		return urn{}, &InvalidUriError{Input: s, Reason: "missing urn: scheme"}
	}
	var u urn
	if i := strings.IndexByte(rest, '#'); i != -1 {
		u.fragment = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "?="); i != -1 {
		u.qComponent = rest[i+2:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, "?+"); i != -1 {
		u.rComponent = rest[i+2:]
		rest = rest[:i]
	}
	i := strings.IndexByte(rest, ':')
	if i <= 0 {
		return urn{}, &InvalidUriError{Input: s, Reason: "urn missing NID"}
	}
	u.nid = rest[:i]
	u.nss = rest[i+1:]
	if u.nss == "" {
		return urn{}, &InvalidUriError{Input: s, Reason: "urn missing NSS"}
	}
	return u, nil
}

// AbsoluteUri is a URI guaranteed to have a scheme: either a URL (with an
// authority, or a scheme-only form such as "mailto:x") or "urn:" form. It is
// immutable once constructed and
// freely cloned (it holds no pointers into caller-owned memory).
type AbsoluteUri struct {
	kind uriKind
	u    url.URL
	n    urn
}

// ParseAbsoluteUri parses s as an AbsoluteUri. Percent-encoding is
// normalized on ingress: unreserved octets are decoded, everything else
// is preserved verbatim.
func ParseAbsoluteUri(s string) (AbsoluteUri, error) {
	if len(s) > maxURILen {
		return AbsoluteUri{}, &OverflowError{Len: len(s)}
	}
	if !utf8.ValidString(s) {
		return AbsoluteUri{}, &InvalidUtf8Error{Input: s}
	}
	if strings.HasPrefix(s, "urn:") {
		n, err := parseURN(s)
		if err != nil {
			return AbsoluteUri{}, err
		}
		return AbsoluteUri{kind: kindURN, n: n}, nil
	}
	pu, err := url.Parse(s)
	if err != nil {
		return AbsoluteUri{}, &InvalidUriError{Input: s, Reason: err.Error()}
	}
	if pu.Scheme == "" || pu.Host == "" && pu.Opaque == "" {
		// still accept scheme-only absolute forms (e.g. "mailto:x"),
		// but require at least a scheme to call this "absolute".
		if pu.Scheme == "" {
			return AbsoluteUri{}, &NotAbsoluteError{Input: s}
		}
	}
	pu.Scheme = strings.ToLower(pu.Scheme)
	if p := norm.NFC.String(pu.Path); p != pu.Path {
		pu.Path, pu.RawPath = p, ""
	}
	raw := normalizePath(decodeUnreserved(pu.EscapedPath()))
	if p, err := url.PathUnescape(raw); err == nil {
		pu.Path, pu.RawPath = p, raw
	}
	return AbsoluteUri{kind: kindURL, u: *pu}, nil
}

// decodeUnreserved percent-decodes the unreserved octets (RFC 3986 §2.3:
// ALPHA / DIGIT / "-" / "." / "_" / "~") in a path or query component while
// leaving every other percent-escape untouched. Non-ASCII runs are passed
// through NFC so equivalent Unicode forms normalize identically.
func decodeUnreserved(s string) string {
	if !strings.ContainsRune(s, '%') {
		return norm.NFC.String(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				c := byte(v)
				if isUnreserved(c) {
					b.WriteByte(c)
					i += 2
					continue
				}
			}
		}
		b.WriteByte(s[i])
	}
	return norm.NFC.String(b.String())
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

// NoFragment reports whether this URI carries no fragment, the invariant
// required of a source key.
func (a AbsoluteUri) NoFragment() bool {
	if a.kind == kindURN {
		return a.n.fragment == ""
	}
	return a.u.Fragment == ""
}

// WithoutFragment returns a copy with any fragment removed.
func (a AbsoluteUri) WithoutFragment() AbsoluteUri {
	if a.kind == kindURN {
		a.n.fragment = ""
		return a
	}
	a.u.Fragment = ""
	a.u.RawFragment = ""
	return a
}

// Fragment returns the raw fragment text (without the leading '#').
func (a AbsoluteUri) Fragment() string {
	if a.kind == kindURN {
		return a.n.fragment
	}
	return a.u.Fragment
}

func (a AbsoluteUri) String() string {
	if a.kind == kindURN {
		return a.n.String()
	}
	return a.u.String()
}

// IsURN reports whether this AbsoluteUri is in "urn:" form.
func (a AbsoluteUri) IsURN() bool { return a.kind == kindURN }

// Clone returns an independent copy; AbsoluteUri holds no shared mutable
// state, so this is just a value copy, exposed for API clarity.
func (a AbsoluteUri) Clone() AbsoluteUri { return a }

// Uri is the tagged variant: {Url, Urn, Relative}.
// A relative form may or may not carry an authority, detected by a leading
// "//".
type Uri struct {
	variant      uriVariant
	u            url.URL
	n            urn
	hasAuthority bool
}

type uriVariant uint8

const (
	variantURL uriVariant = iota
	variantURN
	variantRelative
)

// ParseUri parses s, classifying it as an absolute URL, a URN, or a
// relative reference (with or without authority).
func ParseUri(s string) (Uri, error) {
	if len(s) > maxURILen {
		return Uri{}, &OverflowError{Len: len(s)}
	}
	if !utf8.ValidString(s) {
		return Uri{}, &InvalidUtf8Error{Input: s}
	}
	if strings.HasPrefix(s, "urn:") {
		n, err := parseURN(s)
		if err != nil {
			return Uri{}, err
		}
		return Uri{variant: variantURN, n: n}, nil
	}
	pu, err := url.Parse(s)
	if err != nil {
		return Uri{}, &InvalidUriError{Input: s, Reason: err.Error()}
	}
	if pu.Scheme != "" {
		pu.Scheme = strings.ToLower(pu.Scheme)
		pu.Path = normalizePath(decodeUnreserved(pu.Path))
		return Uri{variant: variantURL, u: *pu}, nil
	}
	return Uri{
		variant:      variantRelative,
		u:            *pu,
		hasAuthority: strings.HasPrefix(s, "//"),
	}, nil
}

func (u Uri) String() string {
	switch u.variant {
	case variantURN:
		return u.n.String()
	default:
		return u.u.String()
	}
}

// IsAbsolute reports whether u carries a scheme (URL) or is a URN; a bare
// relative reference is neither.
func (u Uri) IsAbsolute() bool { return u.variant != variantRelative }

// AsAbsolute converts a Uri known to already be absolute into an
// AbsoluteUri. It fails with NotAbsoluteError on a relative Uri.
func (u Uri) AsAbsolute() (AbsoluteUri, error) {
	switch u.variant {
	case variantURN:
		return AbsoluteUri{kind: kindURN, n: u.n}, nil
	case variantURL:
		return AbsoluteUri{kind: kindURL, u: u.u}, nil
	default:
		return AbsoluteUri{}, &NotAbsoluteError{Input: u.String()}
	}
}

// Resolve implements RFC 3986 §5.2 reference resolution: ref is resolved
// against base (already absolute) to produce the target AbsoluteUri.
func Resolve(base AbsoluteUri, ref Uri) (AbsoluteUri, error) {
	// URNs do not participate in relative resolution; a URN ref is always
	// already absolute and stands on its own.
	if ref.variant == variantURN {
		return AbsoluteUri{kind: kindURN, n: ref.n}, nil
	}
	if ref.variant == variantURL {
		// ref has its own scheme: normalize-path and return (RFC 3986 §5.2.2 step "scheme defined").
		r := ref.u
		r.Path = normalizePath(r.Path)
		return AbsoluteUri{kind: kindURL, u: r}, nil
	}
	if base.kind == kindURN {
		return AbsoluteUri{}, &InvalidUriError{Input: ref.String(), Reason: "cannot resolve relative reference against a urn base"}
	}

	target := base.u // copy
	r := ref.u

	switch {
	case ref.hasAuthority:
		target.Host = r.Host
		target.User = r.User
		target.RawQuery = r.RawQuery
		target.Path = normalizePath(r.Path)
	case r.Path == "":
		if r.RawQuery != "" {
			target.RawQuery = r.RawQuery
		}
	case strings.HasPrefix(r.Path, "/"):
		target.Path = normalizePath(r.Path)
		target.RawQuery = r.RawQuery
	default:
		target.Path = normalizePath(mergePaths(basePath(target.Path), r.Path))
		target.RawQuery = r.RawQuery
	}
	target.Fragment = r.Fragment
	target.RawFragment = r.RawFragment
	return AbsoluteUri{kind: kindURL, u: target}, nil
}

// ResolveString is a convenience wrapper: it parses ref relative to base's
// string form and returns the resolved AbsoluteUri.
func ResolveString(base AbsoluteUri, ref string) (AbsoluteUri, error) {
	u, err := ParseUri(ref)
	if err != nil {
		return AbsoluteUri{}, err
	}
	return Resolve(base, u)
}

// -- error taxonomy --

type InvalidUriError struct {
	Input  string
	Reason string
}

func (e *InvalidUriError) Error() string {
	return fmt.Sprintf("jsonschema: invalid uri %q: %s", e.Input, e.Reason)
}

type OverflowError struct{ Len int }

func (e *OverflowError) Error() string {
	return fmt.Sprintf("jsonschema: uri length %d exceeds maximum %d", e.Len, maxURILen)
}

type NotAbsoluteError struct{ Input string }

func (e *NotAbsoluteError) Error() string {
	return fmt.Sprintf("jsonschema: uri %q is not absolute", e.Input)
}

type InvalidUtf8Error struct{ Input string }

func (e *InvalidUtf8Error) Error() string {
	return fmt.Sprintf("jsonschema: uri input is not valid utf-8: %q", e.Input)
}

type InvalidFragmentError struct{ Input string }

func (e *InvalidFragmentError) Error() string {
	return fmt.Sprintf("jsonschema: invalid fragment in %q", e.Input)
}
