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

package timing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/corehttp"
)

// Extension is the request-extensions handle inner handlers use to
// contribute their own named metrics (e.g. a database-layer timer)
// alongside the layer's own total-request timing.
type Extension struct {
	metrics *Metrics
}

// Push records a metric to be included in the response's Server-Timing
// header, a no-op if the timing layer was not installed.
func (e Extension) Push(metric Metric) {
	if e.metrics != nil {
		e.metrics.Push(metric)
	}
}

// Layer returns a corehttp.Layer that measures total request duration,
// merges it with any metrics handlers pushed via [Extension], and sets
// the resulting Server-Timing header. Also records the duration as an
// otel span attribute, grounded on the teacher's span-attribute
// convention in middleware/recovery.
func Layer() corehttp.Layer {
	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			start := time.Now()
			metrics := &Metrics{}
			corehttp.Insert(&req.Parts.Extensions, Extension{metrics: metrics})

			resp := inner.Serve(ctx, req)

			metrics.Push(NewMetric("resp").ElapsedSince(start))
			if header := metrics.Encode(); header != "" {
				resp.Parts.Headers.Set("Server-Timing", header)
			}

			if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
				span.SetAttributes(attribute.Int64("http.server.duration_us", time.Since(start).Microseconds()))
			}

			return resp
		})
	}
}
