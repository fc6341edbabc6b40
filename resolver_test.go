package jsonschema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolverChainTriesEachInOrder(t *testing.T) {
	miss := ResolverFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("miss")
	})
	hit := ResolverFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`{"type":"string"}`), nil
	})
	chain := ResolverChain{miss, hit}
	data, err := chain.Resolve(context.Background(), "https://example.com/schema.json")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(data) != `{"type":"string"}` {
		t.Errorf("Resolve() = %q", data)
	}
}

func TestResolverChainAggregatesCausesOnTotalFailure(t *testing.T) {
	failA := ResolverFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("A failed")
	})
	failB := ResolverFunc(func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("B failed")
	})
	chain := ResolverChain{failA, failB}
	_, err := chain.Resolve(context.Background(), "https://example.com/schema.json")
	if err == nil {
		t.Fatal("expected error")
	}
	re, ok := err.(*ResolveErrors)
	if !ok {
		t.Fatalf("error type = %T, want *ResolveErrors", err)
	}
	if len(re.Causes) != 2 {
		t.Errorf("len(Causes) = %d, want 2", len(re.Causes))
	}
}

func TestResolverChainStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	r := ResolverFunc(func(ctx context.Context, url string) ([]byte, error) {
		calls++
		return nil, errors.New("fail")
	})
	chain := ResolverChain{r, r, r}
	_, err := chain.Resolve(ctx, "https://example.com/schema.json")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (chain should stop once ctx is done)", calls)
	}
}

func TestSchemeResolverDispatchesByScheme(t *testing.T) {
	httpCalls := 0
	s := SchemeResolver{
		"https": ResolverFunc(func(ctx context.Context, url string) ([]byte, error) {
			httpCalls++
			return []byte("{}"), nil
		}),
	}
	if _, err := s.Resolve(context.Background(), "https://example.com/x"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if httpCalls != 1 {
		t.Errorf("httpCalls = %d, want 1", httpCalls)
	}
	if _, err := s.Resolve(context.Background(), "file:///tmp/x.json"); err == nil {
		t.Fatal("expected UnsupportedURLSchemeError for unregistered scheme")
	}
}

func TestFileLoaderResolvesFileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(path, []byte(`{"type":"number"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var fl FileLoader
	data, err := fl.Resolve(context.Background(), "file://"+filepath.ToSlash(path))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(data) != `{"type":"number"}` {
		t.Errorf("Resolve() = %q", data)
	}
}

func TestFileLoaderRejectsNonFileScheme(t *testing.T) {
	var fl FileLoader
	if _, err := fl.ToFile("https://example.com/x.json"); err == nil {
		t.Fatal("expected error for non-file scheme")
	}
}
