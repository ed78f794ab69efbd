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

// Package compression negotiates a response encoding from the request's
// Accept-Encoding header and compresses eligible response bodies.
// Grounded on the teacher's middleware/compression (pooled writers,
// per-algorithm level config, size/content-type exclusion) for the layer
// shape, and on original_source/src/headers/accept_encoding.rs for the
// q-value negotiation algorithm (the teacher's chooseEncoding/parseQValue
// only handles the simple case). Zero-weighted encodings are skipped; a
// request forbidding identity ("identity;q=0") still gets identity when
// nothing else is acceptable, see negotiate.
package compression

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"rivaas.dev/corehttp"
)

// encoding is ranked from least to most preferred, mirroring
// original_source's Encoding enum ordering (Identity < Deflate < Gzip <
// Brotli < Zstd).
type encoding int

const (
	identity encoding = iota
	deflate
	gzipEnc
	brotliEnc
	zstdEnc
)

func (e encoding) headerValue() string {
	switch e {
	case deflate:
		return "deflate"
	case gzipEnc:
		return "gzip"
	case brotliEnc:
		return "br"
	case zstdEnc:
		return "zstd"
	default:
		return "identity"
	}
}

// Config controls which algorithms are enabled and at what cost/threshold.
type Config struct {
	EnableGzip    bool
	EnableBrotli  bool
	EnableDeflate bool
	EnableZstd    bool

	GzipLevel   int
	BrotliLevel int

	MinSize int // bytes; a response smaller than this is never compressed

	// ExcludeContentTypes holds exact base content types (no parameters)
	// that are never compressed, e.g. pre-compressed archive formats.
	ExcludeContentTypes map[string]bool

	// ExcludePrefixes holds base content-type prefixes that are never
	// compressed, e.g. "image/". "image/svg+xml" is always exempted from
	// its own "image/" prefix, since SVG is text underneath.
	ExcludePrefixes []string
}

// defaultExcludePrefixes matches spec.md §4.4's default predicate: image,
// video, audio, and grpc payloads plus SSE streams are excluded; SVG is
// carved back out of "image/" in isCompressible.
var defaultExcludePrefixes = []string{
	"image/",
	"video/",
	"audio/",
	"application/grpc",
	"text/event-stream",
}

// defaultExcludeContentTypes lists pre-compressed formats excluded
// outright, since compressing them again wastes CPU for no size benefit.
var defaultExcludeContentTypes = map[string]bool{
	"application/zip":              true,
	"application/gzip":             true,
	"application/x-gzip":           true,
	"application/x-bzip2":          true,
	"application/x-7z-compressed":  true,
	"application/x-rar-compressed": true,
	"application/zstd":             true,
	"font/woff":                    true,
	"font/woff2":                   true,
}

// DefaultConfig enables all four codecs (gzip, brotli, deflate, zstd) with
// the teacher's conservative brotli level, extended with spec.md §4.4's default
// eligibility predicate: a 1024-byte floor and the image/video/audio/
// grpc/event-stream/pre-compressed exclusion set, SVG excepted.
func DefaultConfig() Config {
	return Config{
		EnableGzip:          true,
		EnableBrotli:        true,
		EnableDeflate:       true,
		EnableZstd:          true,
		GzipLevel:           gzip.DefaultCompression,
		BrotliLevel:         4,
		MinSize:             1024,
		ExcludeContentTypes: defaultExcludeContentTypes,
		ExcludePrefixes:     defaultExcludePrefixes,
	}
}

var gzipWriterPool = sync.Pool{
	New: func() any { w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression); return w },
}

// Layer returns a corehttp.Layer compressing eligible response bodies
// according to cfg and the request's Accept-Encoding header.
func Layer(cfg Config) corehttp.Layer {
	return func(inner corehttp.Service) corehttp.Service {
		return corehttp.HandlerFunc(func(ctx context.Context, req corehttp.Request) corehttp.Response {
			chosen := negotiate(req.Parts.Headers.Get("Accept-Encoding"), cfg)
			resp := inner.Serve(ctx, req)

			if chosen == identity {
				return resp
			}
			if resp.Parts.Headers.Get("Content-Encoding") != "" {
				return resp // already encoded upstream
			}
			if resp.Parts.Headers.Get("Content-Range") != "" {
				return resp // partial-content response, ranges address the uncompressed body
			}
			if !isCompressible(resp.Parts.Headers.Get("Content-Type"), cfg) {
				return resp
			}

			r := resp.Body.Reader()
			data, err := io.ReadAll(r)
			r.Close()
			if err != nil {
				return resp
			}
			// Trailer is only valid once the reader above hit EOF.
			trailer := resp.Body.Trailer()
			if len(data) < cfg.MinSize {
				resp.Body = corehttp.FullWithTrailer(data, trailer)
				return resp
			}

			compressed, ok := compress(chosen, data, cfg)
			if !ok {
				resp.Body = corehttp.FullWithTrailer(data, trailer)
				return resp
			}

			resp.Body = corehttp.FullWithTrailer(compressed, trailer)
			resp.Parts.Headers.Set("Content-Encoding", chosen.headerValue())
			resp.Parts.Headers.Add("Vary", "Accept-Encoding")
			// The compressed length differs from whatever the handler set
			// and byte ranges no longer apply to this body, so strip both
			// rather than report stale values.
			resp.Parts.Headers.Del("Content-Length")
			resp.Parts.Headers.Del("Accept-Ranges")
			return resp
		})
	}
}

func baseContentType(ct string) string {
	mt, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(mt)
}

// isCompressible applies spec.md §4.4's default eligibility predicate: a
// content type is compressible unless it falls under an excluded prefix
// or the exact exclusion set, with image/svg+xml exempted back out of
// the "image/" prefix.
func isCompressible(contentType string, cfg Config) bool {
	ct := baseContentType(contentType)
	if ct == "image/svg+xml" {
		return true
	}
	if cfg.ExcludeContentTypes[ct] {
		return false
	}
	for _, prefix := range cfg.ExcludePrefixes {
		if strings.HasPrefix(ct, prefix) {
			return false
		}
	}
	return true
}

func compress(enc encoding, data []byte, cfg Config) ([]byte, bool) {
	var buf bytes.Buffer
	switch enc {
	case gzipEnc:
		var w *gzip.Writer
		if cfg.GzipLevel == gzip.DefaultCompression {
			w = gzipWriterPool.Get().(*gzip.Writer)
			defer gzipWriterPool.Put(w)
			w.Reset(&buf)
		} else {
			var err error
			if w, err = gzip.NewWriterLevel(&buf, cfg.GzipLevel); err != nil {
				return nil, false
			}
		}
		if _, err := w.Write(data); err != nil {
			return nil, false
		}
		if err := w.Close(); err != nil {
			return nil, false
		}
	case brotliEnc:
		w := brotli.NewWriterLevel(&buf, cfg.BrotliLevel)
		if _, err := w.Write(data); err != nil {
			return nil, false
		}
		if err := w.Close(); err != nil {
			return nil, false
		}
	case deflate:
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, false
		}
		if _, err := w.Write(data); err != nil {
			return nil, false
		}
		if err := w.Close(); err != nil {
			return nil, false
		}
	case zstdEnc:
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, false
		}
		if _, err := w.Write(data); err != nil {
			return nil, false
		}
		if err := w.Close(); err != nil {
			return nil, false
		}
	default:
		return nil, false
	}
	return buf.Bytes(), true
}
