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
	"encoding/json"
	"net/http"
)

// Response is a complete outgoing response: parts plus body, the final form
// every handler, layer, and error converts into before it reaches the
// connection driver.
type Response struct {
	Parts ResponseParts
	Body  Body
}

// NewResponse builds a response with the given status and an in-memory
// body.
func NewResponse(status int, data []byte) Response {
	return Response{
		Parts: ResponseParts{Status: status, Headers: make(http.Header)},
		Body:  Full(data),
	}
}

// IntoResponse is implemented by anything that can be converted into a
// final [Response]: handler return values, [Error], and any
// [IntoResponseParts] implementation combined with a body.
type IntoResponse interface {
	IntoResponse() Response
}

// IntoResponseParts is implemented by values that only want to contribute
// to the response's parts (headers, status, extensions) without supplying a
// body, so they can be composed with a body via [WithParts].
type IntoResponseParts interface {
	IntoResponseParts(parts ResponseParts) (ResponseParts, error)
}

// WithParts threads a sequence of IntoResponseParts values through parts,
// in order, short-circuiting the first error (mirrors
// original_source/src/response.rs's `ResponseParts::apply` chain).
func WithParts(parts ResponseParts, contributors ...IntoResponseParts) (ResponseParts, error) {
	for _, c := range contributors {
		var err error
		parts, err = c.IntoResponseParts(parts)
		if err != nil {
			return parts, err
		}
	}
	return parts, nil
}

// JSON builds a 200 response with body encoded as JSON and
// Content-Type: application/json.
func JSON(value any) Response {
	data, err := json.Marshal(value)
	if err != nil {
		return NewCustom(err).IntoResponse()
	}
	resp := NewResponse(http.StatusOK, data)
	resp.Parts.Headers.Set("Content-Type", "application/json")
	return resp
}

// String builds a 200 response with a text/plain body.
func String(s string) Response {
	resp := NewResponse(http.StatusOK, []byte(s))
	resp.Parts.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	return resp
}

// Bytes builds a 200 response with an application/octet-stream body.
func Bytes(data []byte) Response {
	resp := NewResponse(http.StatusOK, data)
	resp.Parts.Headers.Set("Content-Type", "application/octet-stream")
	return resp
}

// NoContent builds a 204 response with an empty body.
func NoContent() Response {
	return Response{
		Parts: ResponseParts{Status: http.StatusNoContent, Headers: make(http.Header)},
		Body:  Empty(),
	}
}

// StatusCode is a standalone IntoResponseParts that only sets the status.
type StatusCode int

func (s StatusCode) IntoResponseParts(parts ResponseParts) (ResponseParts, error) {
	parts.SetStatus(int(s))
	return parts, nil
}

func (s StatusCode) IntoResponse() Response {
	return Response{
		Parts: ResponseParts{Status: int(s), Headers: make(http.Header)},
		Body:  Empty(),
	}
}
