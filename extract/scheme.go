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

// Scheme extracts the request's scheme ("http" or "https"), preferring an
// explicit URI scheme and falling back to the X-Forwarded-Proto header,
// supplemented from original_source/src/extract/scheme.rs (dropped by the
// spec.md distillation, cheap to keep per SPEC_FULL.md).
func Scheme[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		if parts.URI != nil && parts.URI.Scheme != "" {
			return parts.URI.Scheme, nil
		}
		if proto := parts.Headers.Get("X-Forwarded-Proto"); proto != "" {
			return proto, nil
		}
		return "http", nil
	}
}

// Authority extracts the request's authority (host[:port]), preferring the
// URI's host and falling back to the Host header.
func Authority[S any]() FromParts[string, S] {
	return func(_ context.Context, parts *corehttp.RequestParts, _ S) (string, error) {
		if parts.URI != nil && parts.URI.Host != "" {
			return parts.URI.Host, nil
		}
		if host := parts.Headers.Get("Host"); host != "" {
			return host, nil
		}
		return "", corehttp.NewAuthorityError(nil)
	}
}
