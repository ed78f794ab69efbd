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

import "context"

// Service is the uniform contract every route, layer, and composed
// middleware chain implements: given a request, produce a response. It is
// the Go counterpart of tower's `Service` trait as distilled in spec.md
// §4.4 — no poll_ready, since Go's goroutine-per-request model has no
// equivalent backpressure signal to expose at this layer.
type Service interface {
	Serve(ctx context.Context, req Request) Response
}

// HandlerFunc adapts a plain function into a [Service], the Go idiom the
// teacher router uses throughout (HandlerFunc = func(*Context)) generalized
// to this package's Request/Response shape.
type HandlerFunc func(ctx context.Context, req Request) Response

// Serve implements Service.
func (f HandlerFunc) Serve(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Layer wraps an inner [Service] to produce an outer one, the composition
// unit for the layer stack (compression, rate limiting, recovery, timing,
// normalize, ...). Layers compose outside-in: the first Layer passed to a
// stack runs first on the way in and last on the way out.
type Layer func(inner Service) Service

// Chain composes layers around inner in the order given: layers[0] is
// outermost.
func Chain(inner Service, layers ...Layer) Service {
	svc := inner
	for i := len(layers) - 1; i >= 0; i-- {
		svc = layers[i](svc)
	}
	return svc
}
