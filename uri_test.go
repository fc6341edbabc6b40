package jsonschema

import "testing"

// RFC 3986 §5.4.1/§5.4.2 normal and abnormal reference resolution examples,
// base "http://a/b/c/d;p?q".
func TestResolveRFC3986Examples(t *testing.T) {
	base, err := ParseAbsoluteUri("http://a/b/c/d;p?q")
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}

	cases := []struct {
		ref  string
		want string
	}{
		{"g:h", "g:h"},
		{"g", "http://a/b/c/g"},
		{"./g", "http://a/b/c/g"},
		{"g/", "http://a/b/c/g/"},
		{"/g", "http://a/g"},
		{"//g", "http://g"},
		{"?y", "http://a/b/c/d;p?y"},
		{"g?y", "http://a/b/c/g?y"},
		{"#s", "http://a/b/c/d;p?q#s"},
		{"g#s", "http://a/b/c/g#s"},
		{"g?y#s", "http://a/b/c/g?y#s"},
		{";x", "http://a/b/c/;x"},
		{"g;x", "http://a/b/c/g;x"},
		{"g;x?y#s", "http://a/b/c/g;x?y#s"},
		{"", "http://a/b/c/d;p?q"},
		{".", "http://a/b/c/"},
		{"./", "http://a/b/c/"},
		{"..", "http://a/b/"},
		{"../", "http://a/b/"},
		{"../g", "http://a/b/g"},
		{"../..", "http://a/"},
		{"../../", "http://a/"},
		{"../../g", "http://a/g"},
		// abnormal examples
		{"../../../g", "http://a/g"},
		{"../../../../g", "http://a/g"},
		{"/./g", "http://a/g"},
		{"/../g", "http://a/g"},
		{"g.", "http://a/b/c/g."},
		{".g", "http://a/b/c/.g"},
		{"g..", "http://a/b/c/g.."},
		{"..g", "http://a/b/c/..g"},
		{"./../g", "http://a/b/g"},
		{"./g/.", "http://a/b/c/g/"},
		{"g/./h", "http://a/b/c/g/h"},
		{"g/../h", "http://a/b/c/h"},
		{"g;x=1/./y", "http://a/b/c/g;x=1/y"},
		{"g;x=1/../y", "http://a/b/c/y"},
	}

	for _, c := range cases {
		ref, err := ParseUri(c.ref)
		if err != nil {
			t.Errorf("parse ref %q: %v", c.ref, err)
			continue
		}
		got, err := Resolve(base, ref)
		if err != nil {
			t.Errorf("resolve %q: %v", c.ref, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("resolve(%q) = %q, want %q", c.ref, got.String(), c.want)
		}
	}
}

func TestParseAbsoluteUriURN(t *testing.T) {
	u, err := ParseAbsoluteUri("urn:example:a123,z456")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !u.IsURN() {
		t.Fatal("expected URN")
	}
	if !u.NoFragment() {
		t.Fatal("expected no fragment")
	}
	if got := u.String(); got != "urn:example:a123,z456" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseAbsoluteUriRejectsRelative(t *testing.T) {
	if _, err := ParseAbsoluteUri("foo/bar"); err == nil {
		t.Fatal("expected error for relative input")
	}
}

func TestAbsoluteUriFragment(t *testing.T) {
	u, err := ParseAbsoluteUri("http://example.com/schema#/definitions/x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.NoFragment() {
		t.Fatal("expected a fragment")
	}
	if got := u.Fragment(); got != "/definitions/x" {
		t.Errorf("Fragment() = %q", got)
	}
	plain := u.WithoutFragment()
	if !plain.NoFragment() {
		t.Fatal("WithoutFragment did not clear fragment")
	}
	if got := plain.String(); got != "http://example.com/schema" {
		t.Errorf("WithoutFragment().String() = %q", got)
	}
}

func TestDecodeUnreservedPercentEncoding(t *testing.T) {
	// %41 is 'A', unreserved, so it's decoded; %2F is '/', reserved, so it
	// is left percent-encoded.
	u, err := ParseAbsoluteUri("http://example.com/%41%2F%42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.String(); got != "http://example.com/A%2FB" {
		t.Errorf("String() = %q", got)
	}
}

func TestResolveURNRefStandsAlone(t *testing.T) {
	base, _ := ParseAbsoluteUri("http://a/b/c")
	ref, err := ParseUri("urn:example:x")
	if err != nil {
		t.Fatalf("parse ref: %v", err)
	}
	got, err := Resolve(base, ref)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.IsURN() || got.String() != "urn:example:x" {
		t.Errorf("Resolve with urn ref = %q", got.String())
	}
}

func TestResolveRelativeAgainstURNBaseFails(t *testing.T) {
	base, _ := ParseAbsoluteUri("urn:example:x")
	ref, _ := ParseUri("../g")
	if _, err := Resolve(base, ref); err == nil {
		t.Fatal("expected error resolving relative ref against urn base")
	}
}
