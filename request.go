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

// Request is a complete incoming request: parts plus its (still unread)
// body. Extractors that implement FromRequest take ownership of the body by
// taking the Request itself; extractors that only implement
// FromRequestParts never see it.
type Request struct {
	Parts RequestParts
	Body  Body
}

// NewRequest builds a request from parts and a body.
func NewRequest(parts RequestParts, body Body) Request {
	return Request{Parts: parts, Body: body}
}

// IntoParts splits the request into its parts and body, the inverse of
// NewRequest; used by the corehttp/handler adapters to hand RequestParts to
// FromRequestParts extractors while keeping the body for the last
// FromRequest extractor in the chain.
func (r Request) IntoParts() (RequestParts, Body) {
	return r.Parts, r.Body
}
