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

package compression

import (
	"strconv"
	"strings"
)

// qvalue is an RFC 7231 §5.3.1 quality value represented as a fixed-point
// integer in [0, 1000], ported from original_source's qvalue::QValue so
// that comparisons stay exact (floats would not).
type qvalue uint16

const qvalueMax qvalue = 1000

// parseQValue parses the value of a "q=0.8"-style parameter (the "q="
// prefix already stripped), clamping values above 1 to qvalueMax. Empty or
// malformed input reports ok=false, and negotiate then keeps the default
// weight qvalueMax, per the original's lenient-parse behavior.
func parseQValue(s string) (qvalue, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return qvalueMax, false
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	w, err := strconv.Atoi(whole)
	if err != nil || w < 0 || w > 1 {
		return 0, false
	}
	q := qvalue(w) * 1000
	if hasFrac {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		f, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		q += qvalue(f)
	}
	if q > 1000 {
		q = 1000
	}
	return q, true
}

type candidate struct {
	enc encoding
	q   qvalue
}

// negotiate parses an Accept-Encoding header value and returns the
// most-preferred encoding both requested (qvalue > 0) and enabled in cfg.
// Ties are broken by encoding preference order (Zstd > Brotli > Gzip >
// Deflate > Identity), mirroring original_source's
// AcceptEncoding::preferred_encoding.
//
// An absent header, or one containing only unsupported/zero-weighted
// encodings, yields identity. A request can forbid identity outright via
// "identity;q=0" or "*;q=0", but since this module only ever compresses
// as an optimization and never refuses to serve a response, that signal
// has no alternative to fall back to here and identity is still returned.
func negotiate(header string, cfg Config) encoding {
	if header == "" {
		return identity
	}

	best := candidate{enc: identity, q: 0}
	haveBest := false

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, params, _ := strings.Cut(part, ";")
		name = strings.ToLower(strings.TrimSpace(name))

		q := qvalueMax
		if params != "" {
			for _, p := range strings.Split(params, ";") {
				p = strings.TrimSpace(p)
				k, v, ok := strings.Cut(p, "=")
				if !ok || strings.ToLower(strings.TrimSpace(k)) != "q" {
					continue
				}
				if parsed, ok := parseQValue(v); ok {
					q = parsed
				}
			}
		}

		var enc encoding
		switch name {
		case "identity":
			enc = identity
		case "deflate":
			if !cfg.EnableDeflate {
				continue
			}
			enc = deflate
		case "gzip":
			if !cfg.EnableGzip {
				continue
			}
			enc = gzipEnc
		case "br":
			if !cfg.EnableBrotli {
				continue
			}
			enc = brotliEnc
		case "zstd":
			if !cfg.EnableZstd {
				continue
			}
			enc = zstdEnc
		case "*":
			// The wildcard stands for the best enabled algorithm this
			// module supports, matching any q it's assigned.
			enc = bestEnabled(cfg)
		default:
			continue
		}

		if q == 0 {
			continue
		}
		if !haveBest || betterCandidate(candidate{enc, q}, best) {
			best = candidate{enc, q}
			haveBest = true
		}
	}

	if !haveBest {
		return identity
	}
	return best.enc
}

func betterCandidate(a, b candidate) bool {
	if a.q != b.q {
		return a.q > b.q
	}
	return a.enc > b.enc
}

func bestEnabled(cfg Config) encoding {
	switch {
	case cfg.EnableZstd:
		return zstdEnc
	case cfg.EnableBrotli:
		return brotliEnc
	case cfg.EnableGzip:
		return gzipEnc
	case cfg.EnableDeflate:
		return deflate
	default:
		return identity
	}
}
