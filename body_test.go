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

package corehttp

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBodyHasNoTrailer(t *testing.T) {
	assert.Nil(t, Empty().Trailer())
}

func TestFullBodyCarriesNoTrailerByDefault(t *testing.T) {
	assert.Nil(t, Full([]byte("x")).Trailer())
}

func TestFullWithTrailerReturnsIt(t *testing.T) {
	trailer := http.Header{"Server-Timing": {"db;dur=5"}}
	body := FullWithTrailer([]byte("x"), trailer)
	assert.Equal(t, trailer, body.Trailer())
}

func TestIncomingWithTrailerIsLazy(t *testing.T) {
	calls := 0
	trailer := func() http.Header {
		calls++
		return http.Header{"X-Done": {"1"}}
	}
	body := IncomingWithTrailer(io.NopCloser(nil), SizeHint{}, trailer)
	assert.Equal(t, 0, calls)
	assert.Equal(t, http.Header{"X-Done": {"1"}}, body.Trailer())
	assert.Equal(t, 1, calls)
}

type trailerStringReader struct {
	io.Reader
	trailer http.Header
}

func (r *trailerStringReader) Trailer() http.Header { return r.trailer }

func TestStreamBodyForwardsReaderTrailer(t *testing.T) {
	trailer := http.Header{"Server-Timing": {"render;dur=3"}}
	r := &trailerStringReader{Reader: strings.NewReader("hi"), trailer: trailer}
	body := Stream(r, SizeHint{})
	assert.Equal(t, trailer, body.Trailer())
}

func TestStreamBodyWithPlainReaderHasNoTrailer(t *testing.T) {
	r := strings.NewReader("hi")
	body := Stream(r, SizeHint{})
	assert.Nil(t, body.Trailer())
}

func TestLimitedBodyForwardsInnerTrailer(t *testing.T) {
	trailer := http.Header{"X-Checksum": {"abc"}}
	inner := FullWithTrailer([]byte("0123456789"), trailer)
	body := Limited(inner, 5)
	assert.Equal(t, trailer, body.Trailer())
}

func TestChannelBodyTrailerAfterCloseWithTrailer(t *testing.T) {
	sender, body := NewChannelBody()
	trailer := http.Header{"X-Final": {"ok"}}
	sender.Send([]byte("chunk"))
	sender.CloseWithTrailer(trailer)

	data, err := io.ReadAll(body.Reader())
	require.NoError(t, err)
	assert.Equal(t, "chunk", string(data))
	assert.Equal(t, trailer, body.Trailer())
}

func TestChannelBodyTrailerNilAfterPlainClose(t *testing.T) {
	sender, body := NewChannelBody()
	sender.Close()
	assert.Nil(t, body.Trailer())
}

func TestDeferredBodyHasNoTrailer(t *testing.T) {
	assert.Nil(t, Deferred(42).Trailer())
}

func TestArbitraryBodyHasNoTrailer(t *testing.T) {
	assert.Nil(t, Arbitrary(42).Trailer())
}
