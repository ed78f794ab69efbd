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

// Package deferred resolves corehttp.Deferred response bodies into a
// concrete wire encoding, chosen by a request query parameter. Ported
// from original_source/src/layers/deferred.rs's DeferredEncoding layer.
package deferred

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/fxamacker/cbor/v2"

	"rivaas.dev/corehttp"
)

// Encoding names the wire format a Deferred value can be rendered as.
type Encoding string

const (
	JSON Encoding = "json"
	CBOR Encoding = "cbor"
)

type jsonEncoder struct{}

func (jsonEncoder) Encode(value any) ([]byte, string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, "", err
	}
	return data, "application/json", nil
}

type cborEncoder struct{}

func (cborEncoder) Encode(value any) ([]byte, string, error) {
	data, err := cbor.Marshal(value)
	if err != nil {
		return nil, "", err
	}
	return data, "application/cbor", nil
}

// Option configures the layer.
type Option func(*config)

type config struct {
	defaultEncoding Encoding
	queryFields     []string
}

func defaultConfig() config {
	return config{defaultEncoding: JSON, queryFields: []string{"encoding"}}
}

// WithDefaultEncoding overrides the encoding used when the request names
// none, or names one not recognized.
func WithDefaultEncoding(enc Encoding) Option {
	return func(c *config) { c.defaultEncoding = enc }
}

// WithQueryFields overrides which query parameter names select the
// encoding (default: "encoding").
func WithQueryFields(fields ...string) Option {
	return func(c *config) { c.queryFields = fields }
}

func encoderFor(enc Encoding) corehttp.Encoder {
	if enc == CBOR {
		return cborEncoder{}
	}
	return jsonEncoder{}
}

// Layer returns a corehttp.Layer materializing Deferred response bodies.
func Layer(opts ...Option) corehttp.Layer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			resp := inner.Serve(ctx, req)

			if !corehttp.IsDeferred(resp.Body) {
				return resp
			}

			var rawQuery string
			if req.Parts.URI != nil {
				rawQuery = req.Parts.URI.RawQuery
			}
			enc := selectEncoding(rawQuery, cfg)

			materialized, contentType, err := corehttp.Materialize(resp.Body, encoderFor(enc))
			if err != nil {
				// Mirrors the original's wholesale-replace rule for a
				// non-success encode outcome: discard whatever headers
				// the handler had set and report the failure plainly.
				return corehttp.NewCustom(err).IntoResponse()
			}

			// A successful encode only ever contributes its Content-Type;
			// everything else the handler already set on resp.Parts
			// (status, other headers, extensions) is kept as-is.
			resp.Parts.Headers.Set("Content-Type", contentType)
			resp.Body = materialized
			return resp
		})
	}
}

func selectEncoding(rawQuery string, cfg config) Encoding {
	if rawQuery == "" {
		return cfg.defaultEncoding
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return cfg.defaultEncoding
	}
	for _, field := range cfg.queryFields {
		switch Encoding(values.Get(field)) {
		case JSON:
			return JSON
		case CBOR:
			return CBOR
		}
	}
	return cfg.defaultEncoding
}
