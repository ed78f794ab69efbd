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

package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/extract"
)

type greeting struct {
	Name string `json:"name"`
}

func TestH1ComposesPartsAndBody(t *testing.T) {
	u, _ := url.Parse("/greet?lang=en")
	req := corehttp.NewRequest(
		corehttp.RequestParts{Method: "POST", URI: u, Headers: make(http.Header)},
		corehttp.Full([]byte(`{"name":"ada"}`)),
	)
	req.Parts.Headers.Set("Content-Type", "application/json")

	svc := H1(
		extract.RawQuery[struct{}](),
		extract.JSON[greeting, struct{}](),
		struct{}{},
		func(ctx context.Context, lang string, g greeting) corehttp.IntoResponse {
			return corehttp.StatusCode(http.StatusCreated)
		},
	)

	resp := svc.Serve(context.Background(), req)
	assert.Equal(t, http.StatusCreated, resp.Parts.Status)
}

func TestH0RejectsOnExtractorError(t *testing.T) {
	req := corehttp.NewRequest(
		corehttp.RequestParts{Method: "POST", Headers: make(http.Header)},
		corehttp.Full([]byte(`not json`)),
	)
	req.Parts.Headers.Set("Content-Type", "application/json")

	svc := H0(
		extract.JSON[greeting, struct{}](),
		struct{}{},
		func(ctx context.Context, g greeting) corehttp.IntoResponse {
			return corehttp.StatusCode(http.StatusOK)
		},
	)

	resp := svc.Serve(context.Background(), req)
	require.Equal(t, http.StatusBadRequest, resp.Parts.Status)
}
