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

// Query binds the request's query string onto a new T using "query"
// struct tags, grounded on the teacher's router/binding.go reflection
// binder, generalized to any destination struct type via Go generics
// instead of the teacher's BindQuery(dst any) signature.
func Query[T any, S any]() FromParts[T, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (T, error) {
		var out T
		if parts.URI == nil {
			return out, corehttp.NewMissingQuery()
		}
		values := map[string][]string(parts.URI.Query())
		if len(values) == 0 {
			return out, corehttp.NewMissingQuery()
		}
		if err := bindValues(&out, "query", values); err != nil {
			return out, corehttp.NewBadRequest(err.Error())
		}
		return out, nil
	}
}

// RawQuery extracts the unparsed query string.
func RawQuery[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		if parts.URI == nil {
			return "", nil
		}
		return parts.URI.RawQuery, nil
	}
}
