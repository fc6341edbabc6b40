// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package httploader implements loader.Loader for http/https url.
//
// The package is typically only imported for the side effect of
// registering its Loaders.
//
// To use httploader, link this package into your program:
//	import _ "github.com/kortexdev/interrogator/httploader"
package httploader

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kortexdev/interrogator/loader"
)

type httpLoader struct{}

func (httpLoader) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func init() {
	loader.Register("http", httpLoader{})
	loader.Register("https", httpLoader{})
}
