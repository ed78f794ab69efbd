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
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"rivaas.dev/corehttp"
)

// defaultTimeouts mirrors the teacher's defaultServerTimeouts in
// router/serve.go.
func defaultTimeouts() httpTimeouts {
	return httpTimeouts{
		ReadHeader: 10 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
	}
}

type httpTimeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

// Server drives a corehttp.Service over HTTP/1.1 and HTTP/2, conditioning
// every accepted connection with an Acceptor chain and exposing
// graceful-shutdown via Handle. Grounded on the teacher's router.go
// Serve/ServeTLS/Shutdown trio, generalized so the acceptor chain (TLS,
// nodelay, connection limiting, peek, timeout) the teacher doesn't have
// sits in front of net/http instead of being hardcoded to plain TCP.
type Server struct {
	service corehttp.Service

	tlsConfig   *tls.Config
	enableH2C   bool
	timeouts    httpTimeouts
	extra       []Acceptor
	peek        bool
	connLimit   int
	connMask    bool
	handshakeTO time.Duration
	acceptTO    time.Duration

	metrics *Metrics
	handle  *Handle
}

// Option configures a Server.
type Option func(*Server)

// WithTLSConfig enables TLS termination using config. ALPN is configured
// automatically for HTTP/2 negotiation if config doesn't specify it.
func WithTLSConfig(config *tls.Config) Option {
	return func(s *Server) { s.tlsConfig = config }
}

// WithH2C enables cleartext HTTP/2 (h2c) for non-TLS servers, matching
// the teacher router's enableH2C field.
func WithH2C(enabled bool) Option {
	return func(s *Server) { s.enableH2C = enabled }
}

// WithAcceptor appends a, in order, to the acceptor chain after the
// built-in nodelay/TLS/limiter/peek stages.
func WithAcceptor(a Acceptor) Option {
	return func(s *Server) { s.extra = append(s.extra, a) }
}

// WithPerPeerLimit caps concurrent connections per peer IP. privacyMask
// groups IPv6 peers by their /64 prefix instead of tracking them
// individually.
func WithPerPeerLimit(limit int, privacyMask bool) Option {
	return func(s *Server) {
		s.connLimit = limit
		s.connMask = privacyMask
	}
}

// WithPeek enables the byte-peek acceptor that rejects connections
// closed before sending any data.
func WithPeek(enabled bool) Option {
	return func(s *Server) { s.peek = enabled }
}

// WithHandshakeTimeout bounds TLS handshake and byte-peek latency. It is
// implemented as the outermost timeoutAcceptor wrapping the whole chain.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(s *Server) { s.handshakeTO = d }
}

// WithMetrics registers connection-lifecycle Prometheus metrics under
// namespace against reg.
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(s *Server) { s.metrics = NewMetrics(reg, namespace) }
}

// WithHTTPTimeouts overrides the http.Server header/read/write/idle
// timeouts, which otherwise default to defaultTimeouts().
func WithHTTPTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(s *Server) {
		s.timeouts = httpTimeouts{ReadHeader: readHeader, Read: read, Write: write, Idle: idle}
	}
}

// New constructs a Server driving service, applying opts in order.
func New(service corehttp.Service, opts ...Option) *Server {
	s := &Server{
		service:  service,
		timeouts: defaultTimeouts(),
		handle:   NewHandle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the graceful-shutdown handle for this server. It is
// only attached to a running *http.Server once Serve has been called.
func (s *Server) Handle() *Handle {
	return s.handle
}

// buildChain assembles the acceptor chain in the causally-correct order:
// byte-peek (if enabled) must run before TLS wraps the connection in an
// opaque type, nodelay must run on the raw *net.TCPConn before TLS does
// the same, the connection limiter keys off RemoteAddr which TLS
// connections still expose by delegation, and any caller-supplied extra
// acceptors run last. The whole chain is finally wrapped in a single
// accept-deadline, mirroring the original's TimeoutAcceptor wrapping the
// entire accept future.
func (s *Server) buildChain() Acceptor {
	var chain []Acceptor
	if s.peek {
		chain = append(chain, Peek)
	}
	chain = append(chain, NoDelay)
	if s.tlsConfig != nil {
		chain = append(chain, WithTLS(s.tlsConfig))
	}
	if s.connLimit > 0 {
		chain = append(chain, WithConnectionLimit(s.connLimit, s.connMask))
	}
	chain = append(chain, s.extra...)

	composed := Chain(chain...)
	if s.handshakeTO > 0 {
		return WithTimeout(composed, s.handshakeTO)
	}
	return composed
}

// Serve accepts connections from listener until ctx is canceled, at
// which point it gracefully shuts down via Handle and returns once all
// connections have drained or the shutdown timeout elapses.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	var handler http.Handler = &bridgeHandler{service: s.service}
	if s.tlsConfig == nil && s.enableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.timeouts.ReadHeader,
		ReadTimeout:       s.timeouts.Read,
		WriteTimeout:      s.timeouts.Write,
		IdleTimeout:       s.timeouts.Idle,
	}

	if s.tlsConfig != nil {
		if err := http2.ConfigureServer(httpServer, &http2.Server{}); err != nil {
			return err
		}
	}

	s.handle.attach(httpServer, s.metrics)

	wrapped := wrapListener(listener, s.buildChain(), s.metrics)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(wrapped)
	}()

	select {
	case <-ctx.Done():
		return unwrapServerClosed(s.handle.Shutdown(context.Background()))
	case err := <-errCh:
		return unwrapServerClosed(err)
	}
}

// unwrapServerClosed treats http.ErrServerClosed as a clean shutdown
// rather than an error, matching the teacher's Shutdown handling.
func unwrapServerClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
