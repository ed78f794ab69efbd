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
	"crypto/tls"
	"net"
)

// tlsAcceptor terminates TLS on the inner connection. Grounded on the
// original's RustlsAcceptor, but simplified: the original gives its
// acceptor its own handshake_timeout field, duplicating the outer
// TimeoutAcceptor; here the handshake is bounded entirely by whichever
// WithTimeout wraps this acceptor in the chain. Hot-reload of server
// certificates (the original's RustlsConfig/ArcSwap) is covered by
// crypto/tls.Config.GetConfigForClient, so it isn't reimplemented either.
type tlsAcceptor struct {
	config *tls.Config
}

// WithTLS terminates TLS on every accepted connection using config.
// ALPN protocol negotiation for HTTP/2 is added automatically if config
// doesn't already list any NextProtos.
func WithTLS(config *tls.Config) Acceptor {
	return &tlsAcceptor{config: effectiveTLSConfig(config)}
}

func (t *tlsAcceptor) Accept(conn net.Conn) (net.Conn, error) {
	tlsConn := tls.Server(conn, t.config)
	if err := tlsConn.Handshake(); err != nil {
		return nil, err
	}
	return tlsConn, nil
}

// effectiveTLSConfig clones config and fills in ALPN protocols for HTTP/2
// negotiation when the caller hasn't set any, mirroring the original's
// `config.alpn_protocols = vec![b"h2".to_vec(), b"http/1.1".to_vec()]`.
func effectiveTLSConfig(config *tls.Config) *tls.Config {
	out := config.Clone()
	if out == nil {
		out = &tls.Config{}
	}
	if len(out.NextProtos) == 0 {
		out.NextProtos = []string{"h2", "http/1.1"}
	}
	return out
}
