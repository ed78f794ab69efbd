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
	"iter"
)

// Encoder turns an arbitrary value into encoded bytes plus the content type
// it should be served as, e.g. JSON or CBOR.
type Encoder interface {
	Encode(value any) (data []byte, contentType string, err error)
}

// deferredBody is the Deferred variant: a handler returns a plain value
// (e.g. a struct to render) without committing to a wire encoding; a later
// layer (middleware/deferred) picks the encoding — from a query parameter
// or a configured default — and materializes it into a
// Full body before the response is ever read. Grounded on
// original_source/src/body/deferred.rs's DeferredInner::Single.
//
// Calling Reader on a Deferred body that was never materialized is a bug:
// it returns [ErrDeferredNotEncoded] rather than panicking, since the
// failure is recoverable by the caller logging and substituting a 500.
type deferredBody struct {
	noTrailer
	value any
}

// deferredStreamBody is the Deferred variant carrying a sequence of
// not-yet-encoded values rather than one, ported from
// DeferredInner::Array. seq yields each value in turn; a non-nil error
// aborts materialization with that error.
type deferredStreamBody struct {
	noTrailer
	seq iter.Seq2[any, error]
}

// Deferred wraps value as a body whose wire encoding is chosen later.
func Deferred(value any) Body {
	return deferredBody{value: value}
}

// DeferredStream wraps seq as a body that materializes to an encoded
// sequence of values rather than a single one, matching Deferred::stream
// in the original.
func DeferredStream(seq iter.Seq2[any, error]) Body {
	return deferredStreamBody{seq: seq}
}

// DeferredSimpleStream is DeferredStream for a sequence that cannot itself
// fail, matching Deferred::simple_stream in the original.
func DeferredSimpleStream(seq iter.Seq[any]) Body {
	return deferredStreamBody{seq: func(yield func(any, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}}
}

// DeferredValue returns the wrapped value and true if body is a
// single-value Deferred body. A stream Deferred body reports ok=false;
// use IsDeferred to detect either variant.
func DeferredValue(body Body) (value any, ok bool) {
	d, isDeferred := body.(deferredBody)
	if !isDeferred {
		return nil, false
	}
	return d.value, true
}

// IsDeferred reports whether body is a Deferred body, single value or
// stream.
func IsDeferred(body Body) bool {
	switch body.(type) {
	case deferredBody, deferredStreamBody:
		return true
	default:
		return false
	}
}

// Materialize encodes a Deferred body with enc, returning a Full body and
// the content type the encoder chose. A single-value body is passed to
// enc.Encode as-is; a stream body has its values collected, in order, into
// a slice that is then passed to enc.Encode as one sequence, so the wire
// result is a single array rather than one value per chunk. It is a no-op
// passthrough if body is not Deferred.
func Materialize(body Body, enc Encoder) (Body, string, error) {
	switch d := body.(type) {
	case deferredBody:
		data, contentType, err := enc.Encode(d.value)
		if err != nil {
			return nil, "", err
		}
		return Full(data), contentType, nil
	case deferredStreamBody:
		values := []any{}
		for v, err := range d.seq {
			if err != nil {
				return nil, "", err
			}
			values = append(values, v)
		}
		data, contentType, err := enc.Encode(values)
		if err != nil {
			return nil, "", err
		}
		return Full(data), contentType, nil
	default:
		return body, "", nil
	}
}

func (deferredBody) SizeHint() SizeHint { return SizeHint{Lower: 0, Upper: nil} }

func (deferredBody) Reader() io.ReadCloser {
	return errReader{err: ErrDeferredNotEncoded}
}

func (deferredBody) bodyMarker() {}

func (deferredStreamBody) SizeHint() SizeHint { return SizeHint{Lower: 0, Upper: nil} }

func (deferredStreamBody) Reader() io.ReadCloser {
	return errReader{err: ErrDeferredNotEncoded}
}

func (deferredStreamBody) bodyMarker() {}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
func (r errReader) Close() error             { return nil }
