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
	"io"
	"net/http"
	"net/url"

	"rivaas.dev/corehttp"
	"rivaas.dev/corehttp/middleware/realip"
)

// bridgeHandler adapts a corehttp.Service to http.Handler so it can be
// driven by net/http's HTTP/1.1 and HTTP/2 servers. Grounded on the
// teacher's router.go ServeHTTP (which performs the same stdlib-request
// to internal-context translation) and on the original's serve/mod.rs
// hyper service_fn closure, which inserts the peer SocketAddr into the
// request's extensions before dispatch.
type bridgeHandler struct {
	service corehttp.Service
}

func (b *bridgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := translateRequest(r)
	resp := b.service.Serve(r.Context(), req)
	writeResponse(w, resp)
}

// translateRequest converts a net/http request into a corehttp.Request,
// stashing the TCP peer address for middleware/realip's fallback path.
func translateRequest(r *http.Request) corehttp.Request {
	parts := corehttp.RequestParts{
		Method:     r.Method,
		URI:        requestURI(r),
		Version:    r.Proto,
		Headers:    r.Header,
		Extensions: corehttp.NewExtensions(),
	}
	corehttp.Insert(&parts.Extensions, realip.PeerAddr(r.RemoteAddr))

	var hint corehttp.SizeHint
	if r.ContentLength >= 0 {
		hint = corehttp.ExactSizeHint(uint64(r.ContentLength))
	}

	return corehttp.NewRequest(parts, corehttp.IncomingWithTrailer(r.Body, hint, func() http.Header {
		return r.Trailer
	}))
}

func requestURI(r *http.Request) *url.URL {
	if r.URL != nil {
		return r.URL
	}
	return &url.URL{Path: r.RequestURI}
}

// writeResponse copies a corehttp.Response onto the stdlib
// ResponseWriter: headers, status (defaulting to 200), then the body.
func writeResponse(w http.ResponseWriter, resp corehttp.Response) {
	header := w.Header()
	for k, values := range resp.Parts.Headers {
		for _, v := range values {
			header.Add(k, v)
		}
	}

	status := resp.Parts.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	r := resp.Body.Reader()
	defer r.Close()
	io.Copy(w, r)

	// Trailer is only meaningful once r has hit EOF, which io.Copy just
	// guaranteed. Setting http.TrailerPrefix-keyed headers after the body
	// is written is net/http's documented way to emit trailers without
	// having declared them with a "Trailer" header up front.
	for k, values := range resp.Body.Trailer() {
		for _, v := range values {
			header.Add(http.TrailerPrefix+k, v)
		}
	}
}
