// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bodylimit caps request body size, rejecting early on an
// oversized Content-Length header and enforcing the same cap on the
// actual bytes read regardless of what the header claims. Grounded on
// the teacher's middleware/bodylimit (two-phase header-check +
// wrapped-reader design); the wrapped-reader phase itself reuses
// corehttp.Limited, which already implements the teacher's
// read-one-extra-byte overflow probe.
package bodylimit

import (
	"context"
	"net/http"
	"strconv"

	"rivaas.dev/corehttp"
)

// Option configures the layer.
type Option func(*config)

type config struct {
	limit     int64
	skipPaths map[string]bool
}

func defaultConfig() config {
	return config{
		limit:     2 * 1024 * 1024,
		skipPaths: make(map[string]bool),
	}
}

// WithLimit overrides the default 2MB limit.
func WithLimit(n int64) Option {
	return func(c *config) { c.limit = n }
}

// WithSkipPaths exempts the given request paths from the limit entirely.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// Layer returns a corehttp.Layer rejecting requests whose body exceeds
// the configured limit with 413, per spec.md's body-limit invariant.
func Layer(opts ...Option) corehttp.Layer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			path := ""
			if req.Parts.URI != nil {
				path = req.Parts.URI.Path
			}
			if cfg.skipPaths[path] {
				return inner.Serve(ctx, req)
			}

			if cl := req.Parts.Headers.Get("Content-Length"); cl != "" {
				if size, err := strconv.ParseInt(cl, 10, 64); err == nil && size > cfg.limit {
					return tooLarge(cfg.limit)
				}
			}

			req.Body = corehttp.Limited(req.Body, uint64(cfg.limit))
			return inner.Serve(ctx, req)
		})
	}
}

func tooLarge(limit int64) corehttp.Response {
	resp := corehttp.NewResponse(http.StatusRequestEntityTooLarge, []byte(formatSize(limit)+" limit exceeded"))
	resp.Parts.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	return resp
}

func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return strconv.FormatFloat(float64(bytes)/float64(gb), 'f', 1, 64) + "GB"
	case bytes >= mb:
		return strconv.FormatFloat(float64(bytes)/float64(mb), 'f', 1, 64) + "MB"
	case bytes >= kb:
		return strconv.FormatFloat(float64(bytes)/float64(kb), 'f', 1, 64) + "KB"
	default:
		return strconv.FormatInt(bytes, 10) + "B"
	}
}
