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

package router

import (
	"context"

	"rivaas.dev/corehttp"
)

// Serve implements corehttp.Service: it matches the request's method and
// escaped (still percent-encoded) path, inserts the matched pattern into the
// request's extensions as a MatchedPath, merges captured parameters into the
// extensions as a Params value, and dispatches to the matched (or fallback)
// service.
func (r *Router) Serve(ctx context.Context, req corehttp.Request) corehttp.Response {
	service, pattern, params, _ := r.Match(req.Parts.Method, req.Parts.URI.EscapedPath())

	if pattern != "" {
		corehttp.Insert(&req.Parts.Extensions, MatchedPath(pattern))
	}
	if len(params) > 0 {
		corehttp.Insert(&req.Parts.Extensions, Params(params))
	}

	return service.Serve(ctx, req)
}

// Params is the Extensions type carrying captured path parameters,
// recovered via corehttp.Get[router.Params](&parts.Extensions). A
// parameter whose percent-decoded bytes are not valid UTF-8 is still
// present, holding [InvalidUTF8] rather than being omitted or failing the
// match, per spec.md §4.1.
type Params map[string]string

// InvalidUTF8 is the sentinel value stored in Params for a captured
// segment that failed to percent-decode or decoded to invalid UTF-8. It
// contains bytes ("\xff\xfe") that can never appear in an actual decoded
// UTF-8 value, so it cannot collide with one. Extractors should check for
// it with IsInvalid before trusting a captured value.
const InvalidUTF8 = "\xff\xfeinvalid-utf8\xff\xfe"

// Get returns the value captured for name and whether it was present.
func (p Params) Get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// IsInvalid reports whether name was captured but failed to decode to
// valid UTF-8.
func (p Params) IsInvalid(name string) bool {
	v, ok := p[name]
	return ok && v == InvalidUTF8
}
