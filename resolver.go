package jsonschema

import (
	"context"
	"time"
)

// Resolver fetches the raw bytes of a schema document named by an absolute
// URL. Resolve must honor ctx cancellation/deadline; a Resolver that talks
// to the network (httploader-style) should pass ctx straight through to its
// transport.
type Resolver interface {
	Resolve(ctx context.Context, url string) ([]byte, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, url string) ([]byte, error)

func (f ResolverFunc) Resolve(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// ResolverChain tries each Resolver in order and returns the first success
// a chain entry that doesn't recognize the scheme/URL should return a
// descriptive error rather than panicking, since every entry's error is
// aggregated into the final ResolveErrors when none succeed.
type ResolverChain []Resolver

// Resolve runs the chain with no deadline of its own; use ResolveTimeout to
// bound the whole chain.
func (c ResolverChain) Resolve(ctx context.Context, url string) ([]byte, error) {
	var causes []error
	for _, r := range c {
		data, err := r.Resolve(ctx, url)
		if err == nil {
			return data, nil
		}
		causes = append(causes, err)
		if ctx.Err() != nil {
			causes = append(causes, ctx.Err())
			break
		}
	}
	return nil, &ResolveErrors{URL: url, Causes: causes}
}

// ResolveTimeout runs the chain bounded by timeout, surfacing a deadline
// exceeded error alongside whatever partial causes were collected.
func (c ResolverChain) ResolveTimeout(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Resolve(ctx, url)
}

// SchemeResolver dispatches to a different Resolver per URL scheme, like
// the loader package's per-scheme registry but at the byte-fetch layer so a
// Deserializer still runs uniformly afterward.
type SchemeResolver map[string]Resolver

func (s SchemeResolver) Resolve(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := ParseUri(rawURL)
	if err != nil {
		return nil, err
	}
	scheme := schemeOf(u)
	r, ok := s[scheme]
	if !ok {
		return nil, &UnsupportedURLSchemeError{url: rawURL}
	}
	return r.Resolve(ctx, rawURL)
}

func schemeOf(u Uri) string {
	if u.variant == variantURL {
		return u.u.Scheme
	}
	if u.variant == variantURN {
		return "urn"
	}
	return ""
}
