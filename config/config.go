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

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration with text (un)marshaling so it decodes
// from a TOML string like "15s" rather than only a bare integer of
// nanoseconds. BurntSushi/toml decodes into any encoding.TextUnmarshaler,
// which time.Duration itself does not implement.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the complete, recognized configuration surface.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Compression CompressionConfig `toml:"compression"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
	Deferred    DeferredConfig    `toml:"deferred"`
	BodyLimit   BodyLimitConfig   `toml:"body_limit"`
}

// ServerConfig covers bind addresses, TLS, HTTP/1 and HTTP/2 tuning, and
// the graceful-shutdown deadline.
type ServerConfig struct {
	BindAddresses []string `toml:"bind_addresses"`

	TLSCertFile string `toml:"tls_cert_file"`
	TLSKeyFile  string `toml:"tls_key_file"`

	HTTP1 HTTP1Config `toml:"http1"`
	HTTP2 HTTP2Config `toml:"http2"`

	ShutdownDeadline Duration `toml:"shutdown_deadline"`
}

// HTTP1Config holds HTTP/1.1 transport tuning.
type HTTP1Config struct {
	Writev        bool `toml:"writev"`
	PipelineFlush bool `toml:"pipeline_flush"`
}

// HTTP2Config holds HTTP/2 transport tuning.
type HTTP2Config struct {
	MaxConcurrentStreams  uint32 `toml:"max_concurrent_streams"`
	AdaptiveWindow        bool   `toml:"adaptive_window"`
	EnableConnectProtocol bool   `toml:"enable_connect_protocol"`
}

// CompressionConfig holds per-algorithm compression settings. Predicate
// is a func field, so it cannot round-trip through TOML; it is only
// ever set via WithCompressionPredicate.
type CompressionConfig struct {
	Algorithms map[string]AlgorithmConfig `toml:"algorithms"`
	Predicate  func(path string) bool     `toml:"-"`
}

// AlgorithmConfig configures a single compression algorithm (gzip,
// brotli, zstd, ...).
type AlgorithmConfig struct {
	Enabled bool `toml:"enabled"`
	Quality int  `toml:"quality"`
}

// RateLimitConfig holds the default and per-route GCRA quotas plus the
// limiter's operational knobs.
type RateLimitConfig struct {
	DefaultQuota    QuotaConfig            `toml:"default_quota"`
	RouteQuotas     map[string]QuotaConfig `toml:"route_quotas"`
	GlobalFallback  bool                   `toml:"global_fallback"`
	GCInterval      Duration               `toml:"gc_interval"`
	ExposeExtension bool                   `toml:"expose_extension"`
}

// QuotaConfig is the TOML-friendly shape of a ratelimit.Quota: an
// emission interval and a burst size, matching ratelimit.NewQuota's
// parameters.
type QuotaConfig struct {
	EmissionInterval Duration `toml:"emission_interval"`
	Burst            uint64   `toml:"burst"`
}

// DeferredConfig holds the deferred-body encoding defaults, matching
// middleware/deferred's Option surface.
type DeferredConfig struct {
	DefaultEncoding string   `toml:"default_encoding"`
	QueryFields     []string `toml:"query_fields"`
}

// BodyLimitConfig holds the maximum request body size and whether it is
// enforced from Content-Length before any bytes are read.
type BodyLimitConfig struct {
	MaxBytes    int64 `toml:"max_bytes"`
	RejectEarly bool  `toml:"reject_early"`
}

// Default returns the zero-configuration baseline: no TLS, HTTP/1 and
// HTTP/2 left to their transport defaults, no rate limiting, JSON
// deferred encoding, and a 10 MiB body limit.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BindAddresses:    []string{":8080"},
			ShutdownDeadline: Duration(30 * time.Second),
		},
		Deferred: DeferredConfig{
			DefaultEncoding: "json",
			QueryFields:     []string{"encoding"},
		},
		BodyLimit: BodyLimitConfig{
			MaxBytes:    10 << 20,
			RejectEarly: true,
		},
	}
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config starting from Default and applying opts in order.
func New(opts ...Option) *Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// Load reads a TOML file at path into a Config seeded with Default, so
// a file only needs to specify the fields it overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadEnv expands ${VAR}/$VAR references in path before calling Load,
// matching the teacher's WithFile/WithFileAs environment-expansion
// convention.
func LoadEnv(path string) (*Config, error) {
	return Load(os.ExpandEnv(path))
}

// WithBindAddresses overrides the listen addresses (default [":8080"]).
func WithBindAddresses(addrs ...string) Option {
	return func(c *Config) { c.Server.BindAddresses = addrs }
}

// WithTLS sets the certificate and key file paths for TLS termination.
func WithTLS(certFile, keyFile string) Option {
	return func(c *Config) {
		c.Server.TLSCertFile = certFile
		c.Server.TLSKeyFile = keyFile
	}
}

// WithHTTP1 overrides HTTP/1.1 transport tuning.
func WithHTTP1(writev, pipelineFlush bool) Option {
	return func(c *Config) {
		c.Server.HTTP1 = HTTP1Config{Writev: writev, PipelineFlush: pipelineFlush}
	}
}

// WithHTTP2 overrides HTTP/2 transport tuning.
func WithHTTP2(maxConcurrentStreams uint32, adaptiveWindow, enableConnectProtocol bool) Option {
	return func(c *Config) {
		c.Server.HTTP2 = HTTP2Config{
			MaxConcurrentStreams:  maxConcurrentStreams,
			AdaptiveWindow:        adaptiveWindow,
			EnableConnectProtocol: enableConnectProtocol,
		}
	}
}

// WithShutdownDeadline overrides the graceful-shutdown deadline.
func WithShutdownDeadline(d time.Duration) Option {
	return func(c *Config) { c.Server.ShutdownDeadline = Duration(d) }
}

// WithCompressionAlgorithm enables or configures a named compression
// algorithm (e.g. "gzip", "br", "zstd").
func WithCompressionAlgorithm(name string, enabled bool, quality int) Option {
	return func(c *Config) {
		if c.Compression.Algorithms == nil {
			c.Compression.Algorithms = make(map[string]AlgorithmConfig)
		}
		c.Compression.Algorithms[name] = AlgorithmConfig{Enabled: enabled, Quality: quality}
	}
}

// WithCompressionPredicate sets a custom per-request predicate deciding
// whether a response is eligible for compression; it cannot be expressed
// in TOML.
func WithCompressionPredicate(predicate func(path string) bool) Option {
	return func(c *Config) { c.Compression.Predicate = predicate }
}

// WithDefaultQuota sets the rate limiter's default GCRA quota.
func WithDefaultQuota(emissionInterval time.Duration, burst uint64) Option {
	return func(c *Config) {
		c.RateLimit.DefaultQuota = QuotaConfig{EmissionInterval: Duration(emissionInterval), Burst: burst}
	}
}

// WithRouteQuota overrides the GCRA quota for a single matched path.
func WithRouteQuota(path string, emissionInterval time.Duration, burst uint64) Option {
	return func(c *Config) {
		if c.RateLimit.RouteQuotas == nil {
			c.RateLimit.RouteQuotas = make(map[string]QuotaConfig)
		}
		c.RateLimit.RouteQuotas[path] = QuotaConfig{EmissionInterval: Duration(emissionInterval), Burst: burst}
	}
}

// WithGlobalFallback toggles whether routes without a specific quota
// fall back to the default quota (true) or are left unlimited (false).
func WithGlobalFallback(enabled bool) Option {
	return func(c *Config) { c.RateLimit.GlobalFallback = enabled }
}

// WithRateLimitGC sets the limiter's sweep interval for stale keys.
func WithRateLimitGC(interval time.Duration) Option {
	return func(c *Config) { c.RateLimit.GCInterval = Duration(interval) }
}

// WithExposeRateLimitExtension toggles whether the decision is exposed
// as a request extension for downstream layers/handlers to read.
func WithExposeRateLimitExtension(enabled bool) Option {
	return func(c *Config) { c.RateLimit.ExposeExtension = enabled }
}

// WithDeferredEncoding overrides the default deferred-body encoding and
// the query parameter names that select it per request.
func WithDeferredEncoding(defaultEncoding string, queryFields ...string) Option {
	return func(c *Config) {
		c.Deferred.DefaultEncoding = defaultEncoding
		c.Deferred.QueryFields = queryFields
	}
}

// WithBodyLimit overrides the maximum request body size and whether it
// is rejected early from Content-Length before any bytes are read.
func WithBodyLimit(maxBytes int64, rejectEarly bool) Option {
	return func(c *Config) {
		c.BodyLimit = BodyLimitConfig{MaxBytes: maxBytes, RejectEarly: rejectEarly}
	}
}

// Validate checks the fields that must hold for the config to be usable
// regardless of how it was built (TOML file or options): at least one
// bind address, a non-negative body limit, and TLS cert/key either both
// set or both empty.
func (c *Config) Validate() error {
	if len(c.Server.BindAddresses) == 0 {
		return &ValidationError{Field: "server.bind_addresses", Err: fmt.Errorf("must list at least one address")}
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return &ValidationError{Field: "server.tls_cert_file/tls_key_file", Err: fmt.Errorf("both must be set or both empty")}
	}
	if c.BodyLimit.MaxBytes < 0 {
		return &ValidationError{Field: "body_limit.max_bytes", Err: fmt.Errorf("must be non-negative")}
	}
	return nil
}
