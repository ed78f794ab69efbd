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

package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

func textService(body string) corehttp.Service {
	return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
		return corehttp.String(body)
	})
}

func TestStaticAndParamMatch(t *testing.T) {
	r := New()
	r.Get("/users", textService("list"))
	r.Get("/users/{id}", textService("one"))

	_, pattern, params, found := r.Match("GET", "/users/42")
	require.True(t, found)
	assert.Equal(t, "/users/{id}", pattern)
	assert.Equal(t, "42", params["id"])

	_, pattern, _, found = r.Match("GET", "/users")
	require.True(t, found)
	assert.Equal(t, "/users", pattern)
}

func TestTrailingSlashPolicy(t *testing.T) {
	r := New()
	r.Get("/users", textService("list"))

	_, _, _, found := r.Match("GET", "/users/")
	assert.True(t, found, "trailing slash should be trimmed by default")

	r2 := New(WithTrimTrailingSlash(false))
	r2.Get("/users", textService("list"))
	_, _, _, found = r2.Match("GET", "/users/")
	assert.False(t, found)
}

func TestWildcardCapturesRemainder(t *testing.T) {
	r := New()
	r.Get("/static/{*filepath}", textService("asset"))

	_, pattern, params, found := r.Match("GET", "/static/css/app.css")
	require.True(t, found)
	assert.Equal(t, "/static/{*filepath}", pattern)
	assert.Equal(t, "css/app.css", params["filepath"])
}

func TestMethodFallthroughToAny(t *testing.T) {
	r := New()
	r.Any("/health", textService("ok"))

	_, _, _, found := r.Match("POST", "/health")
	assert.True(t, found)
	_, _, _, found = r.Match("GET", "/health")
	assert.True(t, found)
}

func TestFallbackWhenNoMatch(t *testing.T) {
	r := New()
	r.Get("/users", textService("list"))

	service, _, _, found := r.Match("GET", "/nope")
	assert.False(t, found)
	resp := service.Serve(context.Background(), corehttp.Request{})
	assert.Equal(t, 404, resp.Parts.Status)
}

func TestPercentDecodingOfCaptures(t *testing.T) {
	r := New()
	r.Get("/search/{term}", textService("found"))

	_, _, params, found := r.Match("GET", "/search/hello%20world")
	require.True(t, found)
	assert.Equal(t, "hello world", params["term"])
}

func TestInvalidPercentEncodingStillMatchesWithSentinel(t *testing.T) {
	r := New()
	r.Get("/search/{term}", textService("found"))

	_, pattern, params, found := r.Match("GET", "/search/%zz")
	require.True(t, found)
	assert.Equal(t, "/search/{term}", pattern)
	assert.Equal(t, Params(params).IsInvalid("term"), true)
}

func TestInvalidUTF8InCaptureStillMatchesWithSentinel(t *testing.T) {
	r := New()
	r.Get("/search/{term}", textService("found"))

	// %ff%fe is valid percent-encoding syntax but decodes to bytes that
	// are not valid UTF-8.
	_, _, params, found := r.Match("GET", "/search/%ff%fe")
	require.True(t, found)
	assert.Equal(t, Params(params).IsInvalid("term"), true)
}

func TestInvalidStaticSegmentEncodingFallsThrough(t *testing.T) {
	r := New()
	r.Get("/users", textService("list"))

	// A static edge is matched against raw segment text; percent-encoding
	// a literal segment ("%75sers" for "users") does not match it, since
	// decoding only ever applies to captured values, not structural edges.
	_, _, _, found := r.Match("GET", "/%75sers")
	assert.False(t, found)
}
