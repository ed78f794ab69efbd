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
	"net/http"
	"net/url"
)

// RequestParts is everything about a request except its [Body]: method, URI,
// protocol version, headers, and the extension bag. Extractors that
// implement FromRequestParts only ever see this, never the body, so they
// compose freely without fighting over body ownership.
type RequestParts struct {
	Method     string
	URI        *url.URL
	Version    string // "HTTP/1.1", "HTTP/2.0", ...
	Headers    http.Header
	Extensions Extensions
}

// Clone returns a deep-enough copy for an extractor that wants to inspect
// parts without risking mutation of the live request (mirrors
// original_source's `Parts: Clone` extractor).
func (p RequestParts) Clone() RequestParts {
	out := p
	if p.URI != nil {
		u := *p.URI
		out.URI = &u
	}
	out.Headers = p.Headers.Clone()
	out.Extensions = p.Extensions.Clone()
	return out
}

// ResponseParts is a response's status, protocol version, headers, and
// extension bag, prior to a body being attached. Status defaults to 200 and
// is only ever overridden by a handler/layer while it is still 200, matching
// the "first writer wins unless still default" rule in spec.md §3.
type ResponseParts struct {
	Status     int
	Version    string
	Headers    http.Header
	Extensions Extensions
}

// NewResponseParts returns parts set to the default 200 status with an empty
// header map, ready for a layer or handler to customize.
func NewResponseParts() ResponseParts {
	return ResponseParts{
		Status:  http.StatusOK,
		Headers: make(http.Header),
	}
}

// SetStatus overrides the status only if it is still at the default 200,
// so an inner handler's explicit status is never clobbered by an outer
// layer that merely wants to supply a fallback.
func (p *ResponseParts) SetStatus(status int) {
	if p.Status == http.StatusOK {
		p.Status = status
	}
}
