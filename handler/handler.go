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

// Package handler adapts arity-generic functions into [corehttp.Service]
// by composing [extract.FromParts]/[extract.FromBody] extractors in
// sequence: T1 through Tn run against the request's parts only, and the
// final position runs against the parts plus the body.
//
// This is the Go rendering of original_source/src/handler.rs's
// `Handler<T, S>` trait family, built with Go generics (H0..H4) instead of
// the Rust macro-generated tuple impls and BoxedErasedHandler vtable: a Go
// closure over the concrete handler function already erases its type, so
// no boxed-trait-object indirection is needed (documented as a REDESIGN in
// SPEC_FULL.md §7).
package handler

import (
	"context"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/extract"
)

func respond(v corehttp.IntoResponse, err error) corehttp.Response {
	if err != nil {
		if ir, ok := err.(corehttp.IntoResponse); ok {
			return ir.IntoResponse()
		}
		return corehttp.NewCustom(err).IntoResponse()
	}
	return v.IntoResponse()
}

// H0 adapts a handler taking only the last (body) extractor's value.
func H0[Last any, S any](
	last extract.FromBody[Last, S],
	state S,
	fn func(ctx context.Context, last Last) corehttp.IntoResponse,
) corehttp.Service {
	return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		parts, body := req.IntoParts()
		lastVal, err := last(ctx, &parts, body, state)
		if err != nil {
			return respond(nil, err)
		}
		return fn(ctx, lastVal).IntoResponse()
	})
}

// H1 adapts a handler taking one parts-only extractor plus the last
// (body) extractor, in that order.
func H1[T1 any, Last any, S any](
	e1 extract.FromParts[T1, S],
	last extract.FromBody[Last, S],
	state S,
	fn func(ctx context.Context, v1 T1, last Last) corehttp.IntoResponse,
) corehttp.Service {
	return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		parts, body := req.IntoParts()
		v1, err := e1(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		lastVal, err := last(ctx, &parts, body, state)
		if err != nil {
			return respond(nil, err)
		}
		return fn(ctx, v1, lastVal).IntoResponse()
	})
}

// H2 adapts a handler taking two parts-only extractors plus the last.
func H2[T1, T2 any, Last any, S any](
	e1 extract.FromParts[T1, S],
	e2 extract.FromParts[T2, S],
	last extract.FromBody[Last, S],
	state S,
	fn func(ctx context.Context, v1 T1, v2 T2, last Last) corehttp.IntoResponse,
) corehttp.Service {
	return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		parts, body := req.IntoParts()
		v1, err := e1(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		v2, err := e2(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		lastVal, err := last(ctx, &parts, body, state)
		if err != nil {
			return respond(nil, err)
		}
		return fn(ctx, v1, v2, lastVal).IntoResponse()
	})
}

// H3 adapts a handler taking three parts-only extractors plus the last.
func H3[T1, T2, T3 any, Last any, S any](
	e1 extract.FromParts[T1, S],
	e2 extract.FromParts[T2, S],
	e3 extract.FromParts[T3, S],
	last extract.FromBody[Last, S],
	state S,
	fn func(ctx context.Context, v1 T1, v2 T2, v3 T3, last Last) corehttp.IntoResponse,
) corehttp.Service {
	return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		parts, body := req.IntoParts()
		v1, err := e1(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		v2, err := e2(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		v3, err := e3(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		lastVal, err := last(ctx, &parts, body, state)
		if err != nil {
			return respond(nil, err)
		}
		return fn(ctx, v1, v2, v3, lastVal).IntoResponse()
	})
}

// H4 adapts a handler taking four parts-only extractors plus the last.
func H4[T1, T2, T3, T4 any, Last any, S any](
	e1 extract.FromParts[T1, S],
	e2 extract.FromParts[T2, S],
	e3 extract.FromParts[T3, S],
	e4 extract.FromParts[T4, S],
	last extract.FromBody[Last, S],
	state S,
	fn func(ctx context.Context, v1 T1, v2 T2, v3 T3, v4 T4, last Last) corehttp.IntoResponse,
) corehttp.Service {
	return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		parts, body := req.IntoParts()
		v1, err := e1(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		v2, err := e2(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		v3, err := e3(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		v4, err := e4(ctx, &parts, state)
		if err != nil {
			return respond(nil, err)
		}
		lastVal, err := last(ctx, &parts, body, state)
		if err != nil {
			return respond(nil, err)
		}
		return fn(ctx, v1, v2, v3, v4, lastVal).IntoResponse()
	})
}
