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

package corehttp

import (
	"bytes"
	"io"
	"net/http"
)

// SizeHint describes what a [Body] knows about its own remaining size before
// it is fully read, mirroring original_source's `body/mod.rs` SizeHint:
// a lower bound that is always accurate, and an optional upper bound.
type SizeHint struct {
	Lower uint64
	Upper *uint64 // nil means unknown
}

// ExactSizeHint returns a hint whose lower and upper bound are both n.
func ExactSizeHint(n uint64) SizeHint {
	return SizeHint{Lower: n, Upper: &n}
}

// Body is the sum type every request/response body is, exactly one of the
// nine variants in spec.md §3: Empty, Full, Incoming, Channel, Stream, Dyn,
// Limited, Deferred, Arbitrary.
//
// A Body is read exactly once: Reader returns an io.Reader that consumes the
// body's remaining bytes, and calling Reader a second time on the same Body
// value is a caller bug (not guarded against at runtime, matching the
// original's move-semantics: ownership transfers to whoever calls Reader).
type Body interface {
	// SizeHint reports what is known about the remaining size without
	// reading.
	SizeHint() SizeHint
	// Reader returns the io.ReadCloser that streams the body's bytes.
	Reader() io.ReadCloser
	// Trailer returns headers that arrive after the body, e.g. a
	// Server-Timing trailer computed once the handler finishes writing.
	// It is only meaningful once Reader's stream has been drained to
	// EOF; a Body that carries none returns nil. Mirrors
	// original_source's body/async_read.rs trailer frame and net/http's
	// own Response.Trailer/Request.Trailer convention.
	Trailer() http.Header
	bodyMarker()
}

// noTrailer is embedded by Body variants that never carry trailers.
type noTrailer struct{}

func (noTrailer) Trailer() http.Header { return nil }

// emptyBody is the Empty variant: a body known to have zero bytes, used for
// GET/HEAD requests and 204/304 responses.
type emptyBody struct{ noTrailer }

// Empty returns the canonical empty body.
func Empty() Body { return emptyBody{} }

func (emptyBody) SizeHint() SizeHint    { return ExactSizeHint(0) }
func (emptyBody) Reader() io.ReadCloser { return io.NopCloser(bytes.NewReader(nil)) }
func (emptyBody) bodyMarker()           {}

// fullBody is the Full variant: the entire body already resident in memory
// as a single contiguous buffer, the common case for small JSON/CBOR
// payloads and in-memory response rendering.
type fullBody struct {
	data    []byte
	trailer http.Header
}

// Full wraps an in-memory buffer as a body. The buffer must not be mutated
// after being passed in.
func Full(data []byte) Body {
	return fullBody{data: data}
}

// FullWithTrailer wraps an in-memory buffer as a body carrying trailer,
// e.g. one forwarded from an upstream body a middleware has already
// materialized in full (see middleware/compression).
func FullWithTrailer(data []byte, trailer http.Header) Body {
	return fullBody{data: data, trailer: trailer}
}

func (b fullBody) SizeHint() SizeHint { return ExactSizeHint(uint64(len(b.data))) }
func (b fullBody) Reader() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b.data))
}
func (b fullBody) Trailer() http.Header { return b.trailer }
func (fullBody) bodyMarker()            {}

// incomingBody is the Incoming variant: bytes still arriving from the wire,
// wrapping the connection driver's own reader (an *http.Request.Body in the
// net/http-compatible mode, or a raw connection reader under corehttp/serve).
type incomingBody struct {
	r       io.ReadCloser
	hint    SizeHint
	trailer func() http.Header
}

// Incoming wraps a live connection reader as a body. hint.Lower is usually 0
// and hint.Upper is the Content-Length if the peer sent one.
func Incoming(r io.ReadCloser, hint SizeHint) Body {
	return incomingBody{r: r, hint: hint}
}

// IncomingWithTrailer wraps a live connection reader as a body whose
// trailer is only known once trailer is called after r is drained to EOF,
// e.g. an *http.Request.Body backed by net/http's own Request.Trailer.
func IncomingWithTrailer(r io.ReadCloser, hint SizeHint, trailer func() http.Header) Body {
	return incomingBody{r: r, hint: hint, trailer: trailer}
}

func (b incomingBody) SizeHint() SizeHint    { return b.hint }
func (b incomingBody) Reader() io.ReadCloser { return b.r }
func (b incomingBody) Trailer() http.Header {
	if b.trailer == nil {
		return nil
	}
	return b.trailer()
}
func (incomingBody) bodyMarker() {}
