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

package bodylimit

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

func readAllService() corehttp.Service {
	return corehttp.HandlerFunc(func(_ context.Context, req corehttp.Request) corehttp.Response {
		r := req.Body.Reader()
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			if cerr, ok := err.(*corehttp.Error); ok {
				return cerr.IntoResponse()
			}
			return corehttp.NewResponse(http.StatusInternalServerError, nil)
		}
		return corehttp.NewResponse(http.StatusOK, data)
	})
}

func reqWithBody(path string, contentLength int, body string) corehttp.Request {
	u, _ := url.Parse(path)
	parts := corehttp.RequestParts{Method: "POST", URI: u, Headers: make(http.Header)}
	if contentLength >= 0 {
		parts.Headers.Set("Content-Length", strconv.Itoa(contentLength))
	}
	return corehttp.NewRequest(parts, corehttp.Full([]byte(body)))
}

func TestLayerRejectsOversizedContentLengthHeader(t *testing.T) {
	svc := Layer(WithLimit(10))(readAllService())
	resp := svc.Serve(context.Background(), reqWithBody("/x", 100, strings.Repeat("a", 100)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Parts.Status)
}

func TestLayerAllowsBodyUnderLimit(t *testing.T) {
	svc := Layer(WithLimit(10))(readAllService())
	resp := svc.Serve(context.Background(), reqWithBody("/x", 4, "abcd"))
	require.Equal(t, http.StatusOK, resp.Parts.Status)
}

func TestLayerRejectsOversizedBodyWithoutHeader(t *testing.T) {
	svc := Layer(WithLimit(4))(readAllService())
	resp := svc.Serve(context.Background(), reqWithBody("/x", -1, "abcdefgh"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Parts.Status)
}

func TestLayerSkipsExemptPaths(t *testing.T) {
	svc := Layer(WithLimit(4), WithSkipPaths("/upload"))(readAllService())
	resp := svc.Serve(context.Background(), reqWithBody("/upload", 8, "abcdefgh"))
	require.Equal(t, http.StatusOK, resp.Parts.Status)
}
