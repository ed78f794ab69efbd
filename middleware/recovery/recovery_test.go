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

package recovery

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

func panicService(v any) corehttp.Service {
	return corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		panic(v)
	})
}

func TestLayerConvertsPanicToInternalServerError(t *testing.T) {
	svc := Layer()(panicService("boom"))
	resp := svc.Serve(context.Background(), corehttp.NewRequest(corehttp.RequestParts{Headers: make(http.Header)}, corehttp.Empty()))
	assert.Equal(t, http.StatusInternalServerError, resp.Parts.Status)
}

func TestLayerPassesThroughNormalResponses(t *testing.T) {
	inner := corehttp.HandlerFunc(func(context.Context, corehttp.Request) corehttp.Response {
		return corehttp.NewResponse(http.StatusOK, []byte("fine"))
	})
	svc := Layer()(inner)
	resp := svc.Serve(context.Background(), corehttp.NewRequest(corehttp.RequestParts{Headers: make(http.Header)}, corehttp.Empty()))
	require.Equal(t, http.StatusOK, resp.Parts.Status)
}

func TestLayerInvokesCustomHandler(t *testing.T) {
	called := false
	svc := Layer(WithHandler(func(context.Context, any, []byte) corehttp.Response {
		called = true
		return corehttp.NewResponse(http.StatusTeapot, nil)
	}))(panicService("boom"))

	resp := svc.Serve(context.Background(), corehttp.NewRequest(corehttp.RequestParts{Headers: make(http.Header)}, corehttp.Empty()))
	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, resp.Parts.Status)
}
