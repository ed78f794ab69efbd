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
	"net/url"

	"rivaas.dev/corehttp"
)

// Form reads and decodes an application/x-www-form-urlencoded body onto a
// new T using "form" struct tags, sharing [Query]'s reflection binder.
func Form[T any, S any]() FromBody[T, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, body corehttp.Body, _ S) (T, error) {
		var out T
		ct := parts.Headers.Get("Content-Type")
		if ct != "" && ct != "application/x-www-form-urlencoded" {
			return out, corehttp.NewUnsupportedMediaType(ct)
		}
		r := body.Reader()
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return out, corehttp.NewIOError(err)
		}
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return out, corehttp.NewFormError(err)
		}
		if err := bindValues(&out, "form", values); err != nil {
			return out, corehttp.NewFormError(err)
		}
		return out, nil
	}
}
