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

// Package router implements the per-method radix router: one trie per HTTP
// method plus an ANY trie consulted on fallthrough, a monotonic route-id
// space with id 0 reserved for the fallback route, and {name}/{*name}
// pattern capture with percent-decoding.
//
// Grounded on the teacher's rivaas.dev/router module (radix.go's
// node/edge/param/wildcard design, router.go's functional-options and
// Group/Use idiom), adapted from ":name"/"*wild" syntax to "{name}"/"{*name}"
// and from a single any-method trie to one trie per explicit method plus an
// ANY fallthrough trie, per spec.md §4.1.
package router

import (
	"context"
	"strings"
	"sync"

	"rivaas.dev/corehttp"
)

// methods is the fixed set of explicit methods the router trees over, in
// registration order; ANY is handled by a tenth trie consulted on
// fallthrough rather than appearing in this list.
var methods = [...]string{
	"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "CONNECT", "OPTIONS", "TRACE",
}

func methodIndex(method string) int {
	for i, m := range methods {
		if m == method {
			return i
		}
	}
	return -1
}

// MatchedPath is the Extensions type used to carry the matched route's
// registration pattern into the request, recovered via
// corehttp.Get[router.MatchedPath](&parts.Extensions).
type MatchedPath string

// routeEntry is one registered route: its method, original pattern, and the
// service that serves it. RouteLayer rewraps every route entry's service
// while preserving ids and patterns.
type routeEntry struct {
	id      uint64
	method  string
	pattern string
	service corehttp.Service
}

// Router is a per-method radix router. Build one with New; registration
// methods serialize on an internal mutex but must not run concurrently with
// Match (register routes before serving), while Match is lock-free and safe
// for concurrent reads from many goroutines.
type Router struct {
	mu                sync.Mutex
	trees             [len(methods)]*node
	staticTables      [len(methods)]*staticTable
	anyTree           *node
	anyStatic         *staticTable
	routes            []routeEntry // indexed by id; routes[0] is the fallback
	trimTrailingSlash bool
}

// Option configures a Router at construction time, mirroring the teacher's
// `Option func(*Router)` functional-options pattern.
type Option func(*Router)

// WithTrimTrailingSlash controls whether "/users/" is treated as "/users"
// during matching. Default true.
func WithTrimTrailingSlash(trim bool) Option {
	return func(r *Router) { r.trimTrailingSlash = trim }
}

// New constructs an empty Router with route id 0 reserved for the fallback,
// initialized to a plain 404 service.
func New(opts ...Option) *Router {
	r := &Router{trimTrailingSlash: true}
	for i := range r.trees {
		r.trees[i] = &node{}
		r.staticTables[i] = newStaticTable()
	}
	r.anyTree = &node{}
	r.anyStatic = newStaticTable()
	r.routes = append(r.routes, routeEntry{id: 0, method: "", pattern: "", service: notFoundService{}})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type notFoundService struct{}

func (notFoundService) Serve(ctx context.Context, req corehttp.Request) corehttp.Response {
	return corehttp.NewNotFound().IntoResponse()
}

// Handle registers service for method and pattern, returning its route id.
// pattern segments are split on "/"; a segment of the form "{name}"
// captures a single path segment, "{*name}" captures the remainder of the
// path and must be the final segment.
func (r *Router) Handle(method, pattern string, service corehttp.Service) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uint64(len(r.routes))
	r.routes = append(r.routes, routeEntry{id: id, method: method, pattern: pattern, service: service})

	if method == "ANY" {
		if !r.anyStatic.add(pattern, id) {
			r.anyTree.addRoute(pattern, id)
		}
		return id
	}

	idx := methodIndex(method)
	if idx < 0 {
		panic("router: unknown method " + method)
	}
	if !r.staticTables[idx].add(pattern, id) {
		r.trees[idx].addRoute(pattern, id)
	}
	return id
}

// Get, Post, Put, Delete, Patch, Head, Connect, Options, Trace register a
// route for exactly that method.
func (r *Router) Get(pattern string, service corehttp.Service) uint64 {
	return r.Handle("GET", pattern, service)
}
func (r *Router) Post(pattern string, service corehttp.Service) uint64 {
	return r.Handle("POST", pattern, service)
}
func (r *Router) Put(pattern string, service corehttp.Service) uint64 {
	return r.Handle("PUT", pattern, service)
}
func (r *Router) Delete(pattern string, service corehttp.Service) uint64 {
	return r.Handle("DELETE", pattern, service)
}
func (r *Router) Patch(pattern string, service corehttp.Service) uint64 {
	return r.Handle("PATCH", pattern, service)
}
func (r *Router) Head(pattern string, service corehttp.Service) uint64 {
	return r.Handle("HEAD", pattern, service)
}
func (r *Router) Connect(pattern string, service corehttp.Service) uint64 {
	return r.Handle("CONNECT", pattern, service)
}
func (r *Router) Options(pattern string, service corehttp.Service) uint64 {
	return r.Handle("OPTIONS", pattern, service)
}
func (r *Router) Trace(pattern string, service corehttp.Service) uint64 {
	return r.Handle("TRACE", pattern, service)
}

// Any registers a route consulted for every method that has no explicit
// match of its own (fallthrough), per spec.md §4.1's method-fallthrough
// rule.
func (r *Router) Any(pattern string, service corehttp.Service) uint64 {
	return r.Handle("ANY", pattern, service)
}

// Fallback replaces route id 0, served when no method tree and no ANY tree
// produce a match.
func (r *Router) Fallback(service corehttp.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[0].service = service
}

// RouteLayer rewraps every registered route's service with layer, in
// registration order, preserving ids and patterns. Used to apply a layer to
// routed dispatch only (as opposed to the whole server, which would also
// wrap the 404/405 paths); the fallback at route id 0 is left unwrapped.
func (r *Router) RouteLayer(layer corehttp.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i < len(r.routes); i++ {
		r.routes[i].service = layer(r.routes[i].service)
	}
}

// Match resolves method and rawPath (as taken from the request line,
// possibly percent-encoded) to a service, its matched pattern, and any
// captured parameters. Structural matching (static edges, static table
// lookups) walks rawPath's segments as-is, mirroring matchit's
// percent-encoded-aware trie; only captured {name}/{*name} values are
// percent-decoded, after a match is already found. A value that fails to
// decode or is not valid UTF-8 does not fail the match — it is replaced
// by [InvalidUTF8] so the failure surfaces as a specific extractor
// rejection instead of a wrong 404, per spec.md §4.1 and
// original_source/src/params.rs's UrlParams::InvalidUtf8InPathParam.
//
// found is false only when neither the method tree nor the ANY tree
// produced a hit; callers still get back the id-0
// fallback service in that case, consistent with spec.md's invariant that
// Match always returns a usable service.
func (r *Router) Match(method, rawPath string) (service corehttp.Service, pattern string, params map[string]string, found bool) {
	path := rawPath
	if r.trimTrailingSlash && len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	segments := splitSegments(path)

	if res, ok := r.matchMethod(method, path, segments); ok {
		return r.routes[res.routeID].service, res.pattern, res.params, true
	}
	if res, ok := r.matchAny(path, segments); ok {
		return r.routes[res.routeID].service, res.pattern, res.params, true
	}
	return r.routes[0].service, "", nil, false
}

func (r *Router) matchMethod(method, path string, segments []string) (matchResult, bool) {
	idx := methodIndex(method)
	if idx < 0 {
		return matchResult{}, false
	}
	if sr, ok := r.staticTables[idx].lookup(path); ok {
		return matchResult{routeID: sr.routeID, pattern: sr.pattern}, true
	}
	return r.trees[idx].match(segments)
}

func (r *Router) matchAny(path string, segments []string) (matchResult, bool) {
	if sr, ok := r.anyStatic.lookup(path); ok {
		return matchResult{routeID: sr.routeID, pattern: sr.pattern}, true
	}
	return r.anyTree.match(segments)
}
