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
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// Handle observes a running Server's connection lifecycle and drives its
// shutdown.
//
// The original tracks live connections with a hand-rolled atomic counter
// plus a Drop-triggered tokio::sync::Notify (NotifyOnce/Watcher in
// serve/mod.rs), woken once the count reaches zero after a shutdown was
// requested. Go's net/http.Server already solves exactly this problem
// with its ConnState callback and Shutdown/Close methods, so Handle keeps
// the original's problem — observable connection count, graceful then
// forced shutdown — and replaces the mechanism with those idiomatic
// stdlib primitives instead of porting NotifyOnce.
type Handle struct {
	connCount       atomic.Int64
	shutdownTimeout atomic.Int64 // time.Duration, 0 means unset

	server *http.Server
}

// NewHandle returns a Handle with no server attached yet; Server.Serve
// attaches one as it starts.
func NewHandle() *Handle {
	h := &Handle{}
	h.shutdownTimeout.Store(int64(30 * time.Second))
	return h
}

// SetShutdownTimeout overrides the deadline Shutdown waits before giving
// up on graceful drain and forcibly closing remaining connections.
func (h *Handle) SetShutdownTimeout(d time.Duration) {
	h.shutdownTimeout.Store(int64(d))
}

// ConnCount returns the number of connections currently open on the
// attached server.
func (h *Handle) ConnCount() int64 {
	return h.connCount.Load()
}

// Shutdown gracefully drains the attached server: it stops accepting new
// connections and waits for in-flight ones to finish, up to the
// configured shutdown timeout, then force-closes whatever remains.
func (h *Handle) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}

	timeout := time.Duration(h.shutdownTimeout.Load())
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return h.server.Close()
	}
	return nil
}

// Kill immediately closes the attached server and all its connections,
// bypassing graceful drain.
func (h *Handle) Kill() error {
	if h.server == nil {
		return nil
	}
	return h.server.Close()
}

// attach wires h to srv's ConnState hook so new/closed transitions update
// connCount, and remembers srv for Shutdown/Kill.
func (h *Handle) attach(srv *http.Server, metrics *Metrics) {
	h.server = srv
	prior := srv.ConnState
	srv.ConnState = func(conn net.Conn, state http.ConnState) {
		switch state {
		case http.StateNew:
			h.connCount.Add(1)
		case http.StateClosed, http.StateHijacked:
			h.connCount.Add(-1)
		}
		if metrics != nil {
			metrics.ActiveConnections.Set(float64(h.connCount.Load()))
		}
		if prior != nil {
			prior(conn, state)
		}
	}
}
