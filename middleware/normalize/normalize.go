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

// Package normalize applies the X-HTTP-Method-Override header, enforces
// empty bodies on HEAD responses and successful CONNECT responses, and
// sets Content-Length from the response body's exact size hint when
// absent. Ported from original_source/src/layers/normalize.rs; no
// teacher middleware covers this, since net/http's own server already
// normalizes HEAD/Content-Length at the transport layer, which this
// module's custom Body/serve stack does not get for free.
package normalize

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"rivaas.dev/corehttp"
)

type miniMethod int

const (
	miniOther miniMethod = iota
	miniHead
	miniConnect
)

// Layer returns the corehttp.Layer described in the package doc.
func Layer() corehttp.Layer {
	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			if override := req.Parts.Headers.Get("X-HTTP-Method-Override"); override != "" {
				req.Parts.Method = override
			}

			method := miniOther
			switch req.Parts.Method {
			case http.MethodHead:
				method = miniHead
			case http.MethodConnect:
				method = miniConnect
			}

			resp := inner.Serve(ctx, req)

			switch {
			case method == miniConnect && resp.Parts.Status >= 200 && resp.Parts.Status < 300:
				hint := resp.Body.SizeHint()
				if resp.Parts.Headers.Get("Content-Length") != "" ||
					resp.Parts.Headers.Get("Transfer-Encoding") != "" ||
					hint.Lower != 0 {
					corehttp.NoopLogger().ErrorContext(ctx, "response to CONNECT with nonempty body",
						slog.Int("status", resp.Parts.Status))
					resp.Body = corehttp.Empty()
				}
			default:
				setContentLength(resp)
			}

			if method == miniHead {
				resp.Body = corehttp.Empty()
			}

			return resp
		})
	}
}

func setContentLength(resp corehttp.Response) {
	if resp.Parts.Headers.Get("Content-Length") != "" {
		return
	}
	hint := resp.Body.SizeHint()
	if hint.Upper == nil || *hint.Upper != hint.Lower {
		return // not an exact size
	}
	resp.Parts.Headers.Set("Content-Length", strconv.FormatUint(hint.Lower, 10))
}
