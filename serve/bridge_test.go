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

package serve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/middleware/realip"
)

func TestBridgeHandlerTranslatesRequestAndResponse(t *testing.T) {
	var gotPeer string
	svc := corehttp.HandlerFunc(func(_ context.Context, req corehttp.Request) corehttp.Response {
		peer, _ := corehttp.Get[realip.PeerAddr](&req.Parts.Extensions)
		gotPeer = string(peer)
		resp := corehttp.NewResponse(http.StatusTeapot, []byte("hello"))
		resp.Parts.Headers.Set("X-Custom", "value")
		return resp
	})

	h := &bridgeHandler{service: svc}
	req := httptest.NewRequest(http.MethodGet, "/foo", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "192.0.2.1:1234", gotPeer)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "value", rec.Header().Get("X-Custom"))
	assert.Equal(t, "hello", rec.Body.String())
}

func TestBridgeHandlerDefaultsStatusTo200(t *testing.T) {
	svc := corehttp.HandlerFunc(func(_ context.Context, _ corehttp.Request) corehttp.Response {
		return corehttp.NewResponse(0, nil)
	})

	h := &bridgeHandler{service: svc}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
