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
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"rivaas.dev/corehttp"
)

// Bytes reads the entire body into memory and returns it as-is.
func Bytes[S any]() FromBody[[]byte, S] {
	return func(_ context.Context, _ *corehttp.RequestParts, body corehttp.Body, _ S) ([]byte, error) {
		r := body.Reader()
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, corehttp.NewIOError(err)
		}
		return data, nil
	}
}

// StringChecked reads the entire body and rejects with
// [corehttp.NewUTF8Error] if it is not valid UTF-8.
func StringChecked[S any]() FromBody[string, S] {
	return func(ctx context.Context, parts *corehttp.RequestParts, body corehttp.Body, state S) (string, error) {
		data, err := Bytes[S]()(ctx, parts, body, state)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", corehttp.NewUTF8Error(nil)
		}
		return string(data), nil
	}
}

// StringLossy reads the entire body and replaces invalid UTF-8 sequences
// with the Unicode replacement character instead of rejecting.
func StringLossy[S any]() FromBody[string, S] {
	return func(ctx context.Context, parts *corehttp.RequestParts, body corehttp.Body, state S) (string, error) {
		data, err := Bytes[S]()(ctx, parts, body, state)
		if err != nil {
			return "", err
		}
		if utf8.Valid(data) {
			return string(data), nil
		}
		return toValidUTF8(data), nil
	}
}

func toValidUTF8(data []byte) string {
	var b bytes.Buffer
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			data = data[1:]
			continue
		}
		b.WriteRune(r)
		data = data[size:]
	}
	return b.String()
}

// Arbitrary downcasts a [corehttp.Arbitrary] body back to T, for a route
// fed by an internal forwarding layer that already decoded the payload
// and stashed it directly on the body rather than re-encoding it to
// bytes. Rejects with a 500 if the body is not Arbitrary or was built
// with a different type, since that is a wiring bug, not client input.
func Arbitrary[T any, S any]() FromBody[T, S] {
	return func(_ context.Context, _ *corehttp.RequestParts, body corehttp.Body, _ S) (T, error) {
		value, ok := corehttp.ArbitraryValue[T](body)
		if !ok {
			var zero T
			return zero, corehttp.NewMissingExtension(fmt.Sprintf("arbitrary body of type %T", zero))
		}
		return value, nil
	}
}

// Reader extracts the raw io.ReadCloser stream without buffering it,
// letting a handler stream the body directly.
func Reader[S any]() FromBody[io.ReadCloser, S] {
	return func(_ context.Context, _ *corehttp.RequestParts, body corehttp.Body, _ S) (io.ReadCloser, error) {
		return body.Reader(), nil
	}
}

// Limited wraps the body in a [corehttp.Limited] ceiling of max bytes
// before reading it fully, rejecting with [corehttp.NewPayloadTooLarge] if
// crossed.
func Limited[S any](max uint64) FromBody[[]byte, S] {
	return func(_ context.Context, _ *corehttp.RequestParts, body corehttp.Body, _ S) ([]byte, error) {
		limited := corehttp.Limited(body, max)
		r := limited.Reader()
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			if rejErr, ok := err.(*corehttp.Error); ok {
				return nil, rejErr
			}
			return nil, corehttp.NewIOError(err)
		}
		return data, nil
	}
}
