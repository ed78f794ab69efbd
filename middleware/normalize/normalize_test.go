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

package normalize

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

func echo(body string, status int) corehttp.Service {
	return corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		return corehttp.NewResponse(status, []byte(body))
	})
}

func req(method string, headers http.Header) corehttp.Request {
	if headers == nil {
		headers = make(http.Header)
	}
	return corehttp.NewRequest(corehttp.RequestParts{Method: method, Headers: headers}, corehttp.Empty())
}

func readBody(t *testing.T, resp corehttp.Response) string {
	t.Helper()
	r := resp.Body.Reader()
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestLayerEmptiesHeadResponseBody(t *testing.T) {
	svc := Layer()(echo("hello", http.StatusOK))
	resp := svc.Serve(context.Background(), req(http.MethodHead, nil))
	assert.Equal(t, "", readBody(t, resp))
}

func TestLayerEmptiesSuccessfulConnectResponseBody(t *testing.T) {
	svc := Layer()(echo("hello", http.StatusOK))
	resp := svc.Serve(context.Background(), req(http.MethodConnect, nil))
	assert.Equal(t, "", readBody(t, resp))
}

func TestLayerSetsContentLengthWhenAbsent(t *testing.T) {
	svc := Layer()(echo("hello", http.StatusOK))
	resp := svc.Serve(context.Background(), req(http.MethodGet, nil))
	assert.Equal(t, "5", resp.Parts.Headers.Get("Content-Length"))
}

func TestLayerAppliesMethodOverride(t *testing.T) {
	var seenMethod string
	inner := corehttp.HandlerFunc(func(_ context.Context, r corehttp.Request) corehttp.Response {
		seenMethod = r.Parts.Method
		return corehttp.NewResponse(http.StatusOK, nil)
	})
	headers := make(http.Header)
	headers.Set("X-HTTP-Method-Override", "PATCH")

	svc := Layer()(inner)
	svc.Serve(context.Background(), req(http.MethodPost, headers))
	assert.Equal(t, "PATCH", seenMethod)
}
