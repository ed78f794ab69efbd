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

// Package corehttp is the request-routing and service-composition engine
// that sits between a connection driver (corehttp/serve) and user handler
// functions.
//
// It owns five tightly coupled concerns: the sum-typed streaming [Body], the
// [Request]/[Response] parts and the [IntoResponse] conversion protocol, the
// [Service] contract every layer and route must implement, the type-keyed
// [Extensions] bag carried on both request and response parts, and the
// canonical [Error] taxonomy every extractor rejection and layer failure
// converts into.
//
// Routing lives in corehttp/router, extraction in corehttp/extract, handler
// adaptation in corehttp/handler, middleware layers in corehttp/middleware/*,
// and the TCP accept loop in corehttp/serve.
package corehttp

import (
	"io"
	"log/slog"
)

// noopLogger is a singleton no-op logger used when no observability hook is
// configured, mirroring the teacher router's noopLogger/NoopLogger pair.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger used when request-scoped
// logging has not been wired up by the server.
func NoopLogger() *slog.Logger {
	return noopLogger
}
