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

package convertbody

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/corehttp"
)

type closingReader struct{ io.Reader }

func (closingReader) Close() error { return nil }

func TestConvertFastPathPassesThroughExistingBody(t *testing.T) {
	existing := corehttp.Full([]byte("hi"))
	got := Convert(RawBody{Reader: existing, ContentLength: -1})
	assert.Equal(t, existing, got)
}

func TestConvertBuildsIncomingFromKnownLength(t *testing.T) {
	raw := RawBody{RawReader: closingReader{strings.NewReader("hello")}, ContentLength: 5}
	body := Convert(raw)
	hint := body.SizeHint()
	require.NotNil(t, hint.Upper)
	assert.Equal(t, uint64(5), *hint.Upper)
}

func TestConvertYieldsEmptyForZeroLength(t *testing.T) {
	body := Convert(RawBody{RawReader: closingReader{strings.NewReader("")}, ContentLength: 0})
	r := body.Reader()
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLayerMaterializesRawBodyExtension(t *testing.T) {
	inner := corehttp.HandlerFunc(func(_ context.Context, req corehttp.Request) corehttp.Response {
		r := req.Body.Reader()
		defer r.Close()
		data, _ := io.ReadAll(r)
		return corehttp.NewResponse(http.StatusOK, data)
	})

	svc := Layer()(inner)
	parts := corehttp.RequestParts{Headers: make(http.Header)}
	corehttp.Insert(&parts.Extensions, RawBody{RawReader: closingReader{strings.NewReader("payload")}, ContentLength: 7})

	req := corehttp.NewRequest(parts, nil)
	resp := svc.Serve(context.Background(), req)

	r := resp.Body.Reader()
	defer r.Close()
	data, _ := io.ReadAll(r)
	assert.Equal(t, "payload", string(data))
}
