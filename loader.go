package jsonschema

import (
	"context"
	"fmt"
	gourl "net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FileLoader is a Resolver that reads schema documents off the local
// filesystem for "file" URLs, for callers that want a Compiler to resolve
// $refs against files on disk the same way it resolves http(s) ones.
type FileLoader struct{}

func (l FileLoader) Resolve(_ context.Context, url string) ([]byte, error) {
	path, err := l.ToFile(url)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (l FileLoader) ToFile(url string) (string, error) {
	u, err := gourl.Parse(url)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("invalid file url: %s", u)
	}
	path := u.Path
	if runtime.GOOS == "windows" {
		path = strings.TrimPrefix(path, "/")
		path = filepath.FromSlash(path)
	}
	return path, nil
}

// UnsupportedURLSchemeError is returned by SchemeResolver for a scheme with
// no registered delegate.
type UnsupportedURLSchemeError struct {
	url string
}

func (e *UnsupportedURLSchemeError) Error() string {
	return fmt.Sprintf("no Resolver registered for %q", e.url)
}
