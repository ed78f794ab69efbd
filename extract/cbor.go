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
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"rivaas.dev/corehttp"
)

// CBOR reads and decodes the body as CBOR into a new T using
// github.com/fxamacker/cbor/v2, rejecting with
// [corehttp.NewUnsupportedMediaType] when Content-Type is set and isn't
// application/cbor, and [corehttp.NewCBORError] on decode failure.
func CBOR[T any, S any]() FromBody[T, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, body corehttp.Body, _ S) (T, error) {
		var out T
		if ct := parts.Headers.Get("Content-Type"); ct != "" && !isCBORContentType(ct) {
			return out, corehttp.NewUnsupportedMediaType(ct)
		}
		r := body.Reader()
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return out, corehttp.NewIOError(err)
		}
		if len(data) == 0 {
			return out, nil
		}
		if err := cbor.Unmarshal(data, &out); err != nil {
			return out, corehttp.NewCBORError(err)
		}
		return out, nil
	}
}

func isCBORContentType(ct string) bool {
	mediaType, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(mediaType) == "application/cbor"
}
