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

// Package ratelimit wires corehttp/ratelimit's GCRA core into a
// corehttp.Layer, keyed by a caller-supplied function (typically the
// client's real IP combined with the matched route). This is a distinct
// package from the teacher's own middleware/ratelimit (which implements
// token-bucket + sliding-window); see DESIGN.md.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/ratelimit"
)

// KeyFunc derives a rate-limit bucket key from a request, e.g. the
// resolved real IP, a matched route pattern, or a combination.
type KeyFunc func(ctx context.Context, req corehttp.Request) string

// Option configures the layer.
type Option struct {
	Quota   ratelimit.Quota
	Key     KeyFunc
	GC      ratelimit.GCMode
}

// Layer returns a corehttp.Layer enforcing opt.Quota per opt.Key(req),
// responding 429 with Retry-After/RateLimit-* headers on rejection per
// spec.md §4.7 and original_source's RateLimitError::into_response.
func Layer(opt Option) corehttp.Layer {
	if opt.Key == nil {
		opt.Key = func(context.Context, corehttp.Request) string { return "" }
	}
	gcMode := opt.GC
	if gcMode == (ratelimit.GCMode{}) {
		gcMode = ratelimit.DefaultGCMode()
	}
	limiter := ratelimit.NewLimiter[string](gcMode)

	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			key := opt.Key(ctx, req)
			if err := limiter.Req(key, opt.Quota, time.Now()); err != nil {
				return tooManyRequests(err)
			}
			return inner.Serve(ctx, req)
		})
	}
}

func tooManyRequests(err error) corehttp.Response {
	wait := time.Second
	var rlErr *ratelimit.RateLimitedError
	if e, ok := err.(*ratelimit.RateLimitedError); ok {
		rlErr = e
		wait = e.Wait
	}
	_ = rlErr

	resetSecs := int64((wait + time.Second - 1) / time.Second)
	if resetSecs < 1 {
		resetSecs = 1
	}
	resetStr := strconv.FormatInt(resetSecs, 10)

	resp := corehttp.NewResponse(http.StatusTooManyRequests, []byte(err.Error()))
	resp.Parts.Headers.Set("Retry-After", resetStr)
	resp.Parts.Headers.Set("RateLimit-Reset", resetStr)
	resp.Parts.Headers.Set("X-RateLimit-Reset", resetStr)
	resp.Parts.Headers.Set("RateLimit-Remaining", "0")
	return resp
}
