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

package timing

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

func TestMetricsEncode(t *testing.T) {
	var m Metrics
	m.Push(NewMetric("cpu").WithDuration(2400 * time.Millisecond))
	m.Push(NewMetric("cache").WithDescription("Cache Read").WithDuration(23200 * time.Millisecond))

	assert.Equal(t, `cpu;dur=2400.000,cache;desc="Cache Read";dur=23200.000`, m.Encode())
}

func TestMetricsEncodeEmpty(t *testing.T) {
	var m Metrics
	assert.Equal(t, "", m.Encode())
}

func TestLayerSetsServerTimingHeader(t *testing.T) {
	inner := corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		ext, ok := corehttp.Get[Extension](&req.Parts.Extensions)
		require.True(t, ok)
		ext.Push(NewMetric("db").WithDuration(5 * time.Millisecond))
		return corehttp.NewResponse(http.StatusOK, nil)
	})

	svc := Layer()(inner)
	req := corehttp.NewRequest(corehttp.RequestParts{Headers: make(http.Header)}, corehttp.Empty())
	resp := svc.Serve(context.Background(), req)

	header := resp.Parts.Headers.Get("Server-Timing")
	require.NotEmpty(t, header)
	assert.True(t, strings.Contains(header, "db;dur="))
	assert.True(t, strings.Contains(header, "resp;dur="))
}
