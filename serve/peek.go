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
	"bufio"
	"io"
	"net"
)

// peekAcceptor peeks a single byte off the connection without consuming
// it, rejecting connections that are closed before sending anything so
// TLS handshakes and HTTP parsing never start on a dead socket. Not
// present in original_source's serve/accept directory; this is an
// additive acceptor named by the spec, built in the same Accept-trait
// idiom as NoDelay.
type peekAcceptor struct{}

// Peek is the byte-peek acceptor. It must run before NoDelay and TLS so
// the peeked byte is still available to whichever acceptor reads the
// connection next.
var Peek Acceptor = peekAcceptor{}

func (peekAcceptor) Accept(conn net.Conn) (net.Conn, error) {
	br := bufio.NewReader(conn)
	if _, err := br.Peek(1); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return &peekedConn{Conn: conn, r: br}, nil
}

// peekedConn replays bytes already buffered by Peek's bufio.Reader ahead
// of the underlying connection's own stream.
type peekedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *peekedConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}
