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

// Package requestid stamps every request with a correlation ID, reusing
// an inbound client-supplied one when configured to, grounded on the
// teacher's middleware/requestid. The teacher's own default generator is
// a raw crypto/rand hex string with a math/rand fallback; this module
// defaults to github.com/google/uuid instead (one of the teacher's own
// documented alternative-generator examples), matching the supplemented
// domain-stack wiring rather than reimplementing ID generation by hand.
package requestid

import (
	"context"

	"github.com/google/uuid"

	"rivaas.dev/corehttp"
)

// ID is the request extension type carrying the resolved request ID.
type ID string

type contextKey struct{}

// Option configures the layer.
type Option func(*config)

type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() config {
	return config{
		headerName:    "X-Request-ID",
		generator:     func() string { return uuid.New().String() },
		allowClientID: true,
	}
}

// WithHeader overrides the header name (default "X-Request-ID").
func WithHeader(name string) Option {
	return func(c *config) { c.headerName = name }
}

// WithGenerator overrides the ID generator.
func WithGenerator(gen func() string) Option {
	return func(c *config) { c.generator = gen }
}

// WithAllowClientID controls whether an inbound header value is trusted
// instead of generating a fresh ID (default true).
func WithAllowClientID(allow bool) Option {
	return func(c *config) { c.allowClientID = allow }
}

// Layer returns a corehttp.Layer that resolves a request ID, stores it
// in both the request extensions and ctx, and echoes it on the response.
func Layer(opts ...Option) corehttp.Layer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			var id string
			if cfg.allowClientID {
				id = req.Parts.Headers.Get(cfg.headerName)
			}
			if id == "" {
				id = cfg.generator()
			}

			corehttp.Insert(&req.Parts.Extensions, ID(id))
			ctx = context.WithValue(ctx, contextKey{}, id)

			resp := inner.Serve(ctx, req)
			resp.Parts.Headers.Set(cfg.headerName, id)
			return resp
		})
	}
}

// FromContext retrieves the request ID stashed in ctx by [Layer],
// returning "" if none is present.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
