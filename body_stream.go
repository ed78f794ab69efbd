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
	"io"
	"net/http"
)

// trailerReader is implemented by readers that expose trailer headers once
// drained to EOF, e.g. *http.Response whose Body has finished streaming.
type trailerReader interface {
	Trailer() http.Header
}

// streamBody is the Stream variant: an application-provided io.Reader (a
// file, a pipe, a downstream proxy response) adapted directly into a body,
// grounded on original_source/src/body/mod.rs's `Body::from_stream`.
type streamBody struct {
	r    io.Reader
	hint SizeHint
}

// Stream adapts an arbitrary reader as a body with the given size hint. If
// the exact size is unknown, pass SizeHint{Lower: 0, Upper: nil}.
func Stream(r io.Reader, hint SizeHint) Body {
	return streamBody{r: r, hint: hint}
}

func (b streamBody) SizeHint() SizeHint { return b.hint }

func (b streamBody) Reader() io.ReadCloser {
	if rc, ok := b.r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(b.r)
}

func (b streamBody) Trailer() http.Header {
	if tr, ok := b.r.(trailerReader); ok {
		return tr.Trailer()
	}
	return nil
}

func (streamBody) bodyMarker() {}

// dynBody is the Dyn variant: a boxed io.Reader with no size hint at all,
// the fallback used when a body is produced by code that erases its
// concrete reader type entirely (e.g. a third-party middleware wrapping
// chain). It differs from Stream only in that it deliberately discards any
// caller-supplied hint, matching original_source's `Body::Dyn(Box<dyn
// AsyncRead>)` which carries no size information by construction.
type dynBody struct {
	r io.Reader
}

// Dyn adapts a reader as a body with no size hint whatsoever.
func Dyn(r io.Reader) Body {
	return dynBody{r: r}
}

func (dynBody) SizeHint() SizeHint { return SizeHint{Lower: 0, Upper: nil} }

func (b dynBody) Reader() io.ReadCloser {
	if rc, ok := b.r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(b.r)
}

func (b dynBody) Trailer() http.Header {
	if tr, ok := b.r.(trailerReader); ok {
		return tr.Trailer()
	}
	return nil
}

func (dynBody) bodyMarker() {}
