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

// Package recovery isolates each request's execution so a panic in a
// handler or inner layer turns into a 500 response instead of taking
// down the accept loop, grounded on the teacher's middleware/recovery
// (stack capture, exception span attributes). Generalized from the
// teacher's *router.Context-bound logger/handler hooks to this module's
// context.Context + corehttp.Request/Response signature.
package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/corehttp"
)

// Option configures the layer.
type Option func(*config)

type config struct {
	stackTrace bool
	stackSize  int
	logger     *slog.Logger
	handler    func(ctx context.Context, recovered any, stack []byte) corehttp.Response
}

func defaultConfig() config {
	return config{
		stackTrace: true,
		stackSize:  4 << 10,
		logger:     corehttp.NoopLogger(),
		handler:    defaultHandler,
	}
}

// WithStackTrace enables or disables stack capture on panic.
func WithStackTrace(enabled bool) Option {
	return func(c *config) { c.stackTrace = enabled }
}

// WithStackSize caps the captured stack trace to n bytes.
func WithStackSize(n int) Option {
	return func(c *config) { c.stackSize = n }
}

// WithLogger overrides the slog.Logger panics are reported through.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHandler overrides the response built for a recovered panic.
func WithHandler(h func(ctx context.Context, recovered any, stack []byte) corehttp.Response) Option {
	return func(c *config) { c.handler = h }
}

func defaultHandler(_ context.Context, _ any, _ []byte) corehttp.Response {
	resp := corehttp.NewResponse(http.StatusInternalServerError, []byte(`{"error":"internal server error"}`))
	resp.Parts.Headers.Set("Content-Type", "application/json")
	return resp
}

// Layer returns a corehttp.Layer recovering panics from inner, logging
// them and marking the active span as errored.
//
// Register this first in a middleware chain so it wraps every other
// layer's execution.
func Layer(opts ...Option) corehttp.Layer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) (resp corehttp.Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					markSpanError(ctx, recovered)

					var stack []byte
					if cfg.stackTrace {
						full := debug.Stack()
						if len(full) > cfg.stackSize {
							full = full[:cfg.stackSize]
						}
						stack = full
					}

					cfg.logger.ErrorContext(ctx, "panic recovered",
						"error", fmt.Sprintf("%v", recovered),
						"stack", string(stack))

					resp = cfg.handler(ctx, recovered, stack)
				}
			}()
			return inner.Serve(ctx, req)
		})
	}
}

func markSpanError(ctx context.Context, recovered any) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	span.SetStatus(codes.Error, "panic recovered")
	span.SetAttributes(
		attribute.Bool("exception.escaped", true),
		attribute.String("exception.type", fmt.Sprintf("%T", recovered)),
		attribute.String("exception.message", fmt.Sprintf("%v", recovered)),
	)
	if err, ok := recovered.(error); ok {
		span.RecordError(err)
	}
}
