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
	"net"
	"time"
)

// timeoutAcceptor bounds the whole inner acceptor chain (nodelay, TLS
// handshake, peek, limiter) by a single deadline, clearing it once the
// chain succeeds so it doesn't leak into request handling. Grounded on
// the original's TimeoutAcceptor, which wraps the inner accept future in
// `tokio::time::timeout`; Go has no task-level timeout for synchronous
// handshake work, so the deadline is set directly on the connection.
type timeoutAcceptor struct {
	inner   Acceptor
	timeout time.Duration
}

// WithTimeout wraps inner so the whole chain must complete within d,
// measured from the moment the connection is handed to it.
func WithTimeout(inner Acceptor, d time.Duration) Acceptor {
	if d <= 0 {
		return inner
	}
	return &timeoutAcceptor{inner: inner, timeout: d}
}

func (t *timeoutAcceptor) Accept(conn net.Conn) (net.Conn, error) {
	if err := conn.SetDeadline(time.Now().Add(t.timeout)); err != nil {
		return nil, err
	}

	out, err := t.inner.Accept(conn)
	if err != nil {
		return nil, err
	}

	if err := out.SetDeadline(time.Time{}); err != nil {
		return nil, err
	}
	return out, nil
}
