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

package extract

import (
	"context"
	"time"

	"rivaas.dev/corehttp"
)

// WithTimeout wraps a FromBody extractor so that its context carries a
// deadline of d, rejecting with [corehttp.NewTimedOut] if inner does not
// complete before it. Grounded on original_source's "Timeout" body
// adapter, applied here at the extractor level instead of the body level
// so any extractor (not just raw body reads) can opt in.
func WithTimeout[T any, S any](inner FromBody[T, S], d time.Duration) FromBody[T, S] {
	return func(ctx context.Context, parts *corehttp.RequestParts, body corehttp.Body, state S) (T, error) {
		var zero T
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			val T
			err error
		}
		done := make(chan result, 1)
		go func() {
			v, err := inner(ctx, parts, body, state)
			done <- result{val: v, err: err}
		}()

		select {
		case r := <-done:
			return r.val, r.err
		case <-ctx.Done():
			return zero, corehttp.NewTimedOut()
		}
	}
}
