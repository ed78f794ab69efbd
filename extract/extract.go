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

// Package extract implements the extractor protocol spec.md §4.2 describes
// as Rust's FromRequestParts<S>/FromRequest<S> traits: a value that can be
// produced from a request, either without consuming the body (FromParts) or
// by taking ownership of it (FromBody). corehttp/handler composes these
// into arity-generic handler functions.
//
// Grounded on original_source/src/extract/*.rs for extractor semantics, and
// on the teacher's router/binding.go (reflection-based struct-tag binding)
// for the Query/Path/Form decoding strategy.
package extract

import (
	"context"

	"rivaas.dev/corehttp"
)

// FromParts produces a T from a request's parts alone; S is the
// application state type threaded through every extractor in a given
// server (often struct{} when no shared state is needed).
type FromParts[T any, S any] func(ctx context.Context, parts *corehttp.RequestParts, state S) (T, error)

// FromBody produces a T by consuming the request's body (and, often, its
// parts too, e.g. to read Content-Type). Exactly one FromBody extractor may
// run per request, since it takes ownership of the body.
type FromBody[T any, S any] func(ctx context.Context, parts *corehttp.RequestParts, body corehttp.Body, state S) (T, error)

// AsFromBody lifts a FromParts extractor into a FromBody one that ignores
// the body entirely, letting a handler's last position be an ordinary
// parts-only extractor when no body is needed.
func AsFromBody[T any, S any](e FromParts[T, S]) FromBody[T, S] {
	return func(ctx context.Context, parts *corehttp.RequestParts, _ corehttp.Body, state S) (T, error) {
		return e(ctx, parts, state)
	}
}
