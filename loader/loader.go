// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader implements scheme-dispatched byte fetchers usable as
// jsonschema.Resolver entries in a ResolverChain.
package loader

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Loader fetches the raw bytes named by url, honoring ctx's deadline.
type Loader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

type filePathLoader struct{}

func (filePathLoader) Load(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

type fileURLLoader struct{}

func (fileURLLoader) Load(_ context.Context, url string) ([]byte, error) {
	f := strings.TrimPrefix(url, "file://")
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(f, "/") {
			f = f[1:]
		}
		f = filepath.FromSlash(f)
	}
	return os.ReadFile(f)
}

var (
	registry = make(map[string]Loader)
	mutex    sync.RWMutex
)

type SchemeNotRegisteredError string

func (s SchemeNotRegisteredError) Error() string {
	return fmt.Sprintf("no Loader registered for scheme %q", string(s))
}

func Register(scheme string, loader Loader) {
	mutex.Lock()
	defer mutex.Unlock()
	registry[scheme] = loader
}

func UnRegister(scheme string) {
	mutex.Lock()
	defer mutex.Unlock()
	delete(registry, scheme)
}

func get(s string) (Loader, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if l, ok := registry[u.Scheme]; ok {
		return l, nil
	}
	return nil, SchemeNotRegisteredError(u.Scheme)
}

// Load dispatches url to the Loader registered for its scheme. Its
// signature matches jsonschema.ResolverFunc so it can be used directly as
// a ResolverChain entry.
func Load(ctx context.Context, url string) ([]byte, error) {
	l, err := get(url)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, url)
}

func init() {
	Register("", filePathLoader{})
	Register("file", fileURLLoader{})
}
