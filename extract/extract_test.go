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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/router"
)

type searchQuery struct {
	Term string `query:"term"`
	Page int    `query:"page"`
}

func TestQueryBinding(t *testing.T) {
	u, _ := url.Parse("/search?term=hello&page=2")
	parts := &corehttp.RequestParts{URI: u, Headers: make(http.Header)}

	out, err := Query[searchQuery, struct{}]()(context.Background(), parts, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Term)
	assert.Equal(t, 2, out.Page)
}

func TestQueryMissingRejects(t *testing.T) {
	u, _ := url.Parse("/search")
	parts := &corehttp.RequestParts{URI: u, Headers: make(http.Header)}

	_, err := Query[searchQuery, struct{}]()(context.Background(), parts, struct{}{})
	require.Error(t, err)
}

type userPath struct {
	ID string `params:"id"`
}

func TestPathBinding(t *testing.T) {
	parts := &corehttp.RequestParts{Headers: make(http.Header)}
	corehttp.Insert(&parts.Extensions, router.Params{"id": "42"})

	out, err := Path[userPath, struct{}]()(context.Background(), parts, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
}

func TestPathRejectsInvalidUTF8Capture(t *testing.T) {
	parts := &corehttp.RequestParts{Headers: make(http.Header)}
	corehttp.Insert(&parts.Extensions, router.Params{"id": router.InvalidUTF8})

	_, err := Path[userPath, struct{}]()(context.Background(), parts, struct{}{})
	require.Error(t, err)
	rejErr, ok := err.(*corehttp.Error)
	require.True(t, ok)
	assert.Equal(t, 400, rejErr.StatusCode())
}

func TestPathParamRejectsInvalidUTF8Capture(t *testing.T) {
	parts := &corehttp.RequestParts{Headers: make(http.Header)}
	corehttp.Insert(&parts.Extensions, router.Params{"id": router.InvalidUTF8})

	_, err := PathParam[struct{}]("id")(context.Background(), parts, struct{}{})
	require.Error(t, err)
}

type payload struct {
	Name string `json:"name"`
}

func TestJSONRoundTrip(t *testing.T) {
	parts := &corehttp.RequestParts{Headers: make(http.Header)}
	parts.Headers.Set("Content-Type", "application/json")
	body := corehttp.Full([]byte(`{"name":"ok"}`))

	out, err := JSON[payload, struct{}]()(context.Background(), parts, body, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
}

func TestJSONRejectsWrongContentType(t *testing.T) {
	parts := &corehttp.RequestParts{Headers: make(http.Header)}
	parts.Headers.Set("Content-Type", "text/plain")
	body := corehttp.Full([]byte(`{}`))

	_, err := JSON[payload, struct{}]()(context.Background(), parts, body, struct{}{})
	require.Error(t, err)
}

func TestOneOfDispatchesByContentType(t *testing.T) {
	parts := &corehttp.RequestParts{Headers: make(http.Header)}
	parts.Headers.Set("Content-Type", "application/json")
	body := corehttp.Full([]byte(`{"name":"json"}`))

	out, err := OneOfJSONOrCBOR[payload, struct{}]()(context.Background(), parts, body, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "json", out.Name)
}

func TestLimitedRejectsOversizedBody(t *testing.T) {
	body := corehttp.Full([]byte("0123456789"))
	_, err := Limited[struct{}](5)(context.Background(), &corehttp.RequestParts{}, body, struct{}{})
	require.Error(t, err)

	rejErr, ok := err.(*corehttp.Error)
	require.True(t, ok)
	assert.Equal(t, 413, rejErr.StatusCode())
}

type forwardedClaims struct {
	Subject string
}

func TestArbitraryDowncastsWrappedValue(t *testing.T) {
	body := corehttp.Arbitrary(forwardedClaims{Subject: "user-1"})
	out, err := Arbitrary[forwardedClaims, struct{}]()(context.Background(), &corehttp.RequestParts{}, body, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "user-1", out.Subject)
}

func TestArbitraryRejectsWrongType(t *testing.T) {
	body := corehttp.Arbitrary(forwardedClaims{Subject: "user-1"})
	_, err := Arbitrary[string, struct{}]()(context.Background(), &corehttp.RequestParts{}, body, struct{}{})
	require.Error(t, err)
	rejErr, ok := err.(*corehttp.Error)
	require.True(t, ok)
	assert.Equal(t, 500, rejErr.StatusCode())
}

func TestArbitraryRejectsNonArbitraryBody(t *testing.T) {
	body := corehttp.Full([]byte("plain"))
	_, err := Arbitrary[forwardedClaims, struct{}]()(context.Background(), &corehttp.RequestParts{}, body, struct{}{})
	require.Error(t, err)
}

func TestMatchedPathRejectsOutsideRouting(t *testing.T) {
	parts := &corehttp.RequestParts{}
	_, err := MatchedPath[struct{}]()(context.Background(), parts, struct{}{})
	require.Error(t, err)
}
