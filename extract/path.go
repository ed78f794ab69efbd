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
	"fmt"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/router"
)

// Path binds the router's captured path parameters onto a new T using
// "params" struct tags, mirroring [Query]'s binding strategy but sourced
// from router.Params instead of the query string. Rejects with
// [corehttp.NewPathError] if any captured value failed to percent-decode
// to valid UTF-8 (router.Params.IsInvalid), rather than binding the
// sentinel value.
func Path[T any, S any]() FromParts[T, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (T, error) {
		var out T
		params, ok := corehttp.Get[router.Params](&parts.Extensions)
		if !ok || len(params) == 0 {
			return out, nil
		}
		values := make(map[string][]string, len(params))
		for k, v := range params {
			if params.IsInvalid(k) {
				return out, corehttp.NewPathError(fmt.Errorf("path parameter %q is not valid UTF-8", k))
			}
			values[k] = []string{v}
		}
		if err := bindValues(&out, "params", values); err != nil {
			return out, corehttp.NewPathError(err)
		}
		return out, nil
	}
}

// PathParam extracts a single named path parameter as a string, rejecting
// with [corehttp.NewBadRequest] when it was not captured and
// [corehttp.NewPathError] when it failed to percent-decode to valid
// UTF-8.
func PathParam[S any](name string) FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		params, ok := corehttp.Get[router.Params](&parts.Extensions)
		if !ok {
			return "", corehttp.NewBadRequest("no path parameters captured")
		}
		v, ok := params.Get(name)
		if !ok {
			return "", corehttp.NewBadRequest("missing path parameter " + name)
		}
		if params.IsInvalid(name) {
			return "", corehttp.NewPathError(fmt.Errorf("path parameter %q is not valid UTF-8", name))
		}
		return v, nil
	}
}

// MatchedPath extracts the pattern the router matched this request
// against, rejecting with [corehttp.NewMissingMatchedPath] when running
// outside of routed dispatch (e.g. a test calling a service directly).
func MatchedPath[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		mp, ok := corehttp.Get[router.MatchedPath](&parts.Extensions)
		if !ok {
			return "", corehttp.NewMissingMatchedPath()
		}
		return string(mp), nil
	}
}
