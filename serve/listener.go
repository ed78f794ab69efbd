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
	"errors"
	"net"
	"time"
)

// acceptorListener wraps a net.Listener so every accepted connection
// passes through an Acceptor chain before net/http sees it.
//
// Grounded on serve/mod.rs's accept loop, which retries on any accept
// error after a 50ms sleep. A literal port would retry forever once the
// underlying listener is closed during shutdown, since Go's synchronous
// Listener.Accept keeps returning net.ErrClosed; that error is therefore
// returned immediately instead of retried, letting http.Server.Serve's
// own shutdown detection (which checks its own done channel before
// looking at the error value) produce http.ErrServerClosed correctly.
type acceptorListener struct {
	net.Listener
	chain   Acceptor
	metrics *Metrics
}

// wrapListener returns a net.Listener whose Accept applies chain to every
// connection before returning it.
func wrapListener(inner net.Listener, chain Acceptor, metrics *Metrics) net.Listener {
	return &acceptorListener{Listener: inner, chain: chain, metrics: metrics}
}

func (l *acceptorListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, err
			}
			time.Sleep(50 * time.Millisecond)
			continue
		}

		out, err := l.chain.Accept(conn)
		if err != nil {
			if l.metrics != nil {
				l.metrics.AcceptErrors.Inc()
			}
			conn.Close()
			continue
		}
		return out, nil
	}
}
