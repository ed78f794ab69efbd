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
	"encoding/json"
	"io"
	"strings"

	"rivaas.dev/corehttp"
)

// JSON reads and decodes the body as JSON into a new T, rejecting with
// [corehttp.NewUnsupportedMediaType] if the Content-Type is set and is not
// an application/json variant, and [corehttp.NewJSONError] on a decode
// failure.
func JSON[T any, S any]() FromBody[T, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, body corehttp.Body, _ S) (T, error) {
		var out T
		if ct := parts.Headers.Get("Content-Type"); ct != "" && !isJSONContentType(ct) {
			return out, corehttp.NewUnsupportedMediaType(ct)
		}
		r := body.Reader()
		defer r.Close()
		dec := json.NewDecoder(r)
		if err := dec.Decode(&out); err != nil && err != io.EOF {
			return out, corehttp.NewJSONError(err)
		}
		return out, nil
	}
}

func isJSONContentType(ct string) bool {
	mediaType, _, _ := strings.Cut(ct, ";")
	mediaType = strings.TrimSpace(mediaType)
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
