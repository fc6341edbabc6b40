package jsonschema

import (
	"reflect"
	"testing"
)

// RFC 6901 §5 example document and its pointer table.
var rfc6901Doc = map[string]any{
	"foo":  []any{"bar", "baz"},
	"":     0.0,
	"a/b":  1.0,
	"c%d":  2.0,
	"e^f":  3.0,
	"g|h":  4.0,
	"i\\j": 5.0,
	"k\"l": 6.0,
	" ":    7.0,
	"m~n":  8.0,
}

func TestJSONPointerLookupRFC6901(t *testing.T) {
	cases := []struct {
		ptr  string
		want any
	}{
		{"", rfc6901Doc},
		{"/foo", []any{"bar", "baz"}},
		{"/foo/0", "bar"},
		{"/", 0.0},
		{"/a~1b", 1.0},
		{"/c%d", 2.0},
		{"/e^f", 3.0},
		{"/g|h", 4.0},
		{"/i\\j", 5.0},
		{"/k\"l", 6.0},
		{"/ ", 7.0},
		{"/m~0n", 8.0},
	}
	for _, c := range cases {
		p, err := newJSONPointer(c.ptr)
		if err != nil {
			t.Errorf("newJSONPointer(%q): %v", c.ptr, err)
			continue
		}
		got, err := p.lookup(rfc6901Doc)
		if err != nil {
			t.Errorf("lookup(%q): %v", c.ptr, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("lookup(%q) = %#v, want %#v", c.ptr, got, c.want)
		}
	}
}

func TestJSONPointerLookupNotFound(t *testing.T) {
	p, _ := newJSONPointer("/foo/9")
	if _, err := p.lookup(rfc6901Doc); err == nil {
		t.Fatal("expected PointerNotFoundError for out-of-range index")
	}
	p, _ = newJSONPointer("/missing")
	if _, err := p.lookup(rfc6901Doc); err == nil {
		t.Fatal("expected PointerNotFoundError for missing key")
	}
}

func TestJSONPointerMustStartWithSlash(t *testing.T) {
	if _, err := newJSONPointer("foo"); err == nil {
		t.Fatal("expected MalformedPointerError")
	}
}

func TestJSONPointerAppendEscapes(t *testing.T) {
	p := rootPointer.append("a/b").append("c~d")
	if got, want := p.String(), "/a~1b/c~0d"; got != want {
		t.Errorf("append chain = %q, want %q", got, want)
	}
	if got := p.tokens(); !reflect.DeepEqual(got, []string{"a/b", "c~d"}) {
		t.Errorf("tokens() = %#v", got)
	}
}

func TestJSONPointerContains(t *testing.T) {
	parent := rootPointer.append("a")
	child := parent.append("b")
	if !parent.contains(child) {
		t.Fatal("expected parent to contain child")
	}
	if !parent.contains(parent) {
		t.Fatal("expected a pointer to contain itself")
	}
	sibling := rootPointer.append("ab")
	if parent.contains(sibling) {
		t.Fatal("prefix-but-not-ancestor must not count as containment")
	}
}

func TestJSONPointerConcat(t *testing.T) {
	a := rootPointer.append("foo")
	b := rootPointer.append("bar")
	got := a.concat(b)
	if want := jsonPointer("/foo/bar"); got != want {
		t.Errorf("concat = %q, want %q", got, want)
	}
	if got := a.concat(rootPointer); got != a {
		t.Errorf("concat with empty pointer changed value: %q", got)
	}
}
