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

// Package convertbody adapts a raw transport-level body (an
// io.ReadCloser plus whatever length information the transport knows)
// into the sum-typed corehttp.Body the rest of the stack consumes.
// Ported from original_source/src/layers/convert_body.rs, which sits
// between a generic hyper/http_body::Body and the crate's own Body type;
// generalized here into a corehttp.Layer since this module's transport
// (corehttp/serve) hands requests to the router already wrapped, making
// this the seam where a non-standard transport (a reverse proxy, a test
// harness, a protocol upgrade) can still plug in its raw reader.
package convertbody

import (
	"context"
	"io"

	"rivaas.dev/corehttp"
)

// RawBody is a request extension a transport can stash instead of
// setting req.Body directly, deferring the Empty/Incoming decision to
// this package's Layer.
type RawBody struct {
	Reader        corehttp.Body  // nil means "use RawReader/ContentLength below"
	RawReader     io.ReadCloser
	ContentLength int64 // -1 if unknown
}

// Convert applies the type-identity fast path (already a corehttp.Body)
// or builds an Empty/Incoming body from the raw reader and content
// length, mirroring original_source's WrappedBody adaptation.
func Convert(raw RawBody) corehttp.Body {
	if raw.Reader != nil {
		return raw.Reader
	}
	if raw.RawReader == nil || raw.ContentLength == 0 {
		return corehttp.Empty()
	}
	if raw.ContentLength < 0 {
		return corehttp.Incoming(raw.RawReader, corehttp.SizeHint{})
	}
	return corehttp.Incoming(raw.RawReader, corehttp.ExactSizeHint(uint64(raw.ContentLength)))
}

// Layer returns a corehttp.Layer that materializes a [RawBody] request
// extension into req.Body, if present, before calling inner. Requests
// that already carry a concrete Body (the common case, built directly by
// corehttp/serve) pass through untouched — this is the fast path.
func Layer() corehttp.Layer {
	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			if raw, ok := corehttp.Get[RawBody](&req.Parts.Extensions); ok {
				req.Body = Convert(raw)
				corehttp.Remove[RawBody](&req.Parts.Extensions)
			}
			return inner.Serve(ctx, req)
		})
	}
}
