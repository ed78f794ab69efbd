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

package requestid

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

func TestLayerGeneratesIDWhenAbsent(t *testing.T) {
	var seen string
	inner := corehttp.HandlerFunc(func(ctx context.Context, _ corehttp.Request) corehttp.Response {
		seen = FromContext(ctx)
		return corehttp.NewResponse(http.StatusOK, nil)
	})

	svc := Layer()(inner)
	req := corehttp.NewRequest(corehttp.RequestParts{Headers: make(http.Header)}, corehttp.Empty())
	resp := svc.Serve(context.Background(), req)

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Parts.Headers.Get("X-Request-ID"))
}

func TestLayerReusesClientSuppliedID(t *testing.T) {
	inner := corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		return corehttp.NewResponse(http.StatusOK, nil)
	})

	svc := Layer()(inner)
	headers := make(http.Header)
	headers.Set("X-Request-ID", "client-supplied")
	req := corehttp.NewRequest(corehttp.RequestParts{Headers: headers}, corehttp.Empty())
	resp := svc.Serve(context.Background(), req)

	assert.Equal(t, "client-supplied", resp.Parts.Headers.Get("X-Request-ID"))
}

func TestLayerIgnoresClientIDWhenDisallowed(t *testing.T) {
	inner := corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		return corehttp.NewResponse(http.StatusOK, nil)
	})

	svc := Layer(WithAllowClientID(false))(inner)
	headers := make(http.Header)
	headers.Set("X-Request-ID", "client-supplied")
	req := corehttp.NewRequest(corehttp.RequestParts{Headers: headers}, corehttp.Empty())
	resp := svc.Serve(context.Background(), req)

	assert.NotEqual(t, "client-supplied", resp.Parts.Headers.Get("X-Request-ID"))
}
