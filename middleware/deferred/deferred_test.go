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

package deferred

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

type payload struct {
	Name string `json:"name" cbor:"name"`
}

func deferredService() corehttp.Service {
	return corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		resp := corehttp.NewResponse(http.StatusOK, nil)
		resp.Body = corehttp.Deferred(payload{Name: "ok"})
		return resp
	})
}

func reqWithQuery(t *testing.T, rawQuery string) corehttp.Request {
	t.Helper()
	u, err := url.Parse("/x?" + rawQuery)
	require.NoError(t, err)
	parts := corehttp.RequestParts{Method: "GET", URI: u, Headers: make(http.Header)}
	return corehttp.NewRequest(parts, corehttp.Empty())
}

func TestLayerMaterializesAsJSONByDefault(t *testing.T) {
	svc := Layer()(deferredService())
	resp := svc.Serve(context.Background(), reqWithQuery(t, ""))

	require.Equal(t, "application/json", resp.Parts.Headers.Get("Content-Type"))
	r := resp.Body.Reader()
	defer r.Close()
	data, _ := io.ReadAll(r)
	assert.JSONEq(t, `{"name":"ok"}`, string(data))
}

func TestLayerMaterializesAsCBORWhenRequested(t *testing.T) {
	svc := Layer()(deferredService())
	resp := svc.Serve(context.Background(), reqWithQuery(t, "encoding=cbor"))
	assert.Equal(t, "application/cbor", resp.Parts.Headers.Get("Content-Type"))
}

func TestLayerMaterializesStreamAsJSONArray(t *testing.T) {
	svc := corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		resp := corehttp.NewResponse(http.StatusOK, nil)
		resp.Body = corehttp.DeferredSimpleStream(func(yield func(any) bool) {
			for _, name := range []string{"a", "b", "c"} {
				if !yield(payload{Name: name}) {
					return
				}
			}
		})
		return resp
	})

	wrapped := Layer()(svc)
	resp := wrapped.Serve(context.Background(), reqWithQuery(t, ""))

	require.Equal(t, "application/json", resp.Parts.Headers.Get("Content-Type"))
	r := resp.Body.Reader()
	defer r.Close()
	data, _ := io.ReadAll(r)
	assert.JSONEq(t, `[{"name":"a"},{"name":"b"},{"name":"c"}]`, string(data))
}

func TestLayerStreamAbortsOnError(t *testing.T) {
	boom := errors.New("boom")
	svc := corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		resp := corehttp.NewResponse(http.StatusOK, nil)
		resp.Body = corehttp.DeferredStream(func(yield func(any, error) bool) {
			if !yield(payload{Name: "a"}, nil) {
				return
			}
			yield(nil, boom)
		})
		return resp
	})

	wrapped := Layer()(svc)
	resp := wrapped.Serve(context.Background(), reqWithQuery(t, ""))

	assert.Equal(t, http.StatusInternalServerError, resp.Parts.Status)
	r := resp.Body.Reader()
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestLayerPassesThroughNonDeferredResponses(t *testing.T) {
	inner := corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		return corehttp.NewResponse(http.StatusOK, []byte("plain"))
	})
	svc := Layer()(inner)
	resp := svc.Serve(context.Background(), reqWithQuery(t, ""))

	r := resp.Body.Reader()
	defer r.Close()
	data, _ := io.ReadAll(r)
	assert.Equal(t, "plain", string(data))
}
