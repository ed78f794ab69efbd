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

	"rivaas.dev/corehttp"
)

// OneOfJSONOrCBOR decodes the body as JSON or CBOR depending on the
// request's Content-Type header, rejecting with
// [corehttp.NewUnsupportedMediaType] for anything else. This is the Go
// rendering of original_source's content-type-dispatching `OneOf`
// extractor, specialized to the two codecs this module wires in (see
// SPEC_FULL.md's DOMAIN STACK section).
func OneOfJSONOrCBOR[T any, S any]() FromBody[T, S] {
	jsonExtract := JSON[T, S]()
	cborExtract := CBOR[T, S]()
	return func(ctx context.Context, parts *corehttp.RequestParts, body corehttp.Body, state S) (T, error) {
		var zero T
		ct := parts.Headers.Get("Content-Type")
		switch {
		case ct == "" || isJSONContentType(ct):
			return jsonExtract(ctx, parts, body, state)
		case isCBORContentType(ct):
			return cborExtract(ctx, parts, body, state)
		default:
			return zero, corehttp.NewUnsupportedMediaType(ct)
		}
	}
}
