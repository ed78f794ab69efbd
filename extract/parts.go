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
	"net/http"
	"net/url"
	"reflect"

	"rivaas.dev/corehttp"
)

// PartsClone extracts a deep-enough copy of the request's parts, letting a
// handler inspect method/URI/headers without taking ownership of anything,
// grounded on original_source's `Parts: Clone` extractor.
func PartsClone[S any]() FromParts[corehttp.RequestParts, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (corehttp.RequestParts, error) {
		return parts.Clone(), nil
	}
}

// URI extracts the request's URI.
func URI[S any]() FromParts[*url.URL, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (*url.URL, error) {
		return parts.URI, nil
	}
}

// Method extracts the request's HTTP method.
func Method[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		return parts.Method, nil
	}
}

// Version extracts the request's protocol version string.
func Version[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		return parts.Version, nil
	}
}

// Headers extracts the request's header map (not a copy; callers must not
// mutate it).
func Headers[S any]() FromParts[http.Header, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (http.Header, error) {
		return parts.Headers, nil
	}
}

// Header extracts a single required header, rejecting with
// [corehttp.NewMissingHeader] when absent.
func Header[S any](name string) FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		v := parts.Headers.Get(name)
		if v == "" {
			return "", corehttp.NewMissingHeader(name)
		}
		return v, nil
	}
}

// OptionalHeader extracts a header if present, returning a nil *string
// otherwise instead of rejecting.
func OptionalHeader[S any](name string) FromParts[*string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (*string, error) {
		if vs, ok := parts.Headers[http.CanonicalHeaderKey(name)]; ok && len(vs) > 0 {
			return &vs[0], nil
		}
		return nil, nil
	}
}

// Extension extracts a value of type T previously stored in the request's
// extensions by an earlier layer, rejecting with
// [corehttp.NewMissingExtension] when absent.
func Extension[T any, S any]() FromParts[T, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (T, error) {
		v, ok := corehttp.Get[T](&parts.Extensions)
		if !ok {
			var zero T
			return zero, corehttp.NewMissingExtension(typeName[T]())
		}
		return v, nil
	}
}

// State extracts the application state threaded through every extractor.
func State[S any]() FromParts[S, S] {
	return func(_ context.Context, _ *corehttp.RequestParts, state S) (S, error) {
		return state, nil
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
