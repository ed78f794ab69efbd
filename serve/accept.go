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

// Package serve drives the HTTP/1.1 and HTTP/2 transport on top of a
// corehttp.Service: an acceptor chain conditions each raw connection
// before the net/http driver reads from it, and Handle tracks graceful
// shutdown. Grounded on original_source's serve/mod.rs and serve/accept*.rs
// (the Accept<Stream,Service> trait and its NoDelay/Timeout/Limited/TLS
// acceptors), reworked onto net.Conn and net/http since Go has no
// equivalent to hyper's connection-builder API.
package serve

import "net"

// Acceptor conditions a freshly accepted connection before the HTTP
// driver reads from it: setting socket options, enforcing a handshake
// deadline, terminating TLS, rejecting a connection outright. Returning
// a non-nil error drops the connection without serving it.
//
// This is the Go translation of the original's `Accept<Stream, Service>`
// trait; since Go has no equivalent to swapping the Service type per
// stage, an Acceptor only transforms the net.Conn.
type Acceptor interface {
	Accept(conn net.Conn) (net.Conn, error)
}

// AcceptorFunc adapts a plain function to an Acceptor.
type AcceptorFunc func(conn net.Conn) (net.Conn, error)

// Accept implements Acceptor.
func (f AcceptorFunc) Accept(conn net.Conn) (net.Conn, error) {
	return f(conn)
}

// Identity is the no-op acceptor, the default when nothing else applies.
// Grounded on the original's DefaultAcceptor.
var Identity Acceptor = AcceptorFunc(func(conn net.Conn) (net.Conn, error) {
	return conn, nil
})

// Chain composes acceptors outside-in: the first acceptor runs first and
// its output feeds the next. A nil or empty list returns Identity.
func Chain(acceptors ...Acceptor) Acceptor {
	if len(acceptors) == 0 {
		return Identity
	}
	return AcceptorFunc(func(conn net.Conn) (net.Conn, error) {
		var err error
		for _, a := range acceptors {
			conn, err = a.Accept(conn)
			if err != nil {
				return nil, err
			}
		}
		return conn, nil
	})
}

// tcpNoDelayAcceptor disables Nagle's algorithm on *net.TCPConn, including
// one wrapped by Peek, passing through other connection kinds unchanged.
// Grounded on the original's NoDelayAcceptor (`stream.set_nodelay(true)`).
type tcpNoDelayAcceptor struct{}

func (tcpNoDelayAcceptor) Accept(conn net.Conn) (net.Conn, error) {
	raw := conn
	if pc, ok := conn.(*peekedConn); ok {
		raw = pc.Conn
	}
	if tc, ok := raw.(*net.TCPConn); ok {
		if err := tc.SetNoDelay(true); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

// NoDelay is the TCP_NODELAY acceptor. It must run before any acceptor
// that wraps the connection in an opaque type (TLS in particular), since
// the *net.TCPConn type assertion only succeeds on the raw connection or
// on one wrapped by Peek.
var NoDelay Acceptor = tcpNoDelayAcceptor{}
