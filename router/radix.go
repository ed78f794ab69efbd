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

package router

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// edge is a per-segment child in the radix tree: a linear-scanned slice
// instead of a map, avoiding hashing on the hot matching path. Grounded on
// the teacher's router/radix.go `edge`/`node.findChild`.
type edge struct {
	label string
	node  *node
}

// param is a single named-capture child, spec.md's `{name}` segment.
type param struct {
	key  string
	node *node
}

// wildcard is a catch-all child, spec.md's `{*name}` segment; it always
// terminates the pattern; nothing may follow it.
type wildcard struct {
	key  string
	node *node
}

// node is one segment boundary in a single method's radix trie. Route
// registration only ever happens before serving; matching never
// mutates a node, so concurrent reads need no locking, mirroring the
// teacher's single-writer-then-immutable contract.
type node struct {
	routeID  uint64 // 0 means "no route attached here"
	pattern  string // original registration pattern, for MatchedPath
	edges    []edge
	param    *param
	wildcard *wildcard
}

func (n *node) findChild(segment string) *node {
	for i := range n.edges {
		if n.edges[i].label == segment {
			return n.edges[i].node
		}
	}
	return nil
}

func (n *node) findOrCreateChild(segment string) *node {
	if c := n.findChild(segment); c != nil {
		return c
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: segment, node: child})
	return child
}

// splitSegments splits a pattern like "/users/{id}/posts" into
// ["users", "{id}", "posts"], dropping empty leading/trailing segments.
func splitSegments(pattern string) []string {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// addRoute registers pattern into the trie rooted at n, attaching routeID.
// Wildcard segments ({*name}) must be the final segment.
func (n *node) addRoute(pattern string, routeID uint64) {
	segments := splitSegments(pattern)
	current := n
	for i, segment := range segments {
		isLast := i == len(segments)-1
		switch {
		case strings.HasPrefix(segment, "{*") && strings.HasSuffix(segment, "}"):
			name := segment[2 : len(segment)-1]
			if current.wildcard == nil {
				current.wildcard = &wildcard{key: name, node: &node{}}
			}
			current = current.wildcard.node
			current.pattern = pattern
			current.routeID = routeID
			return // wildcard always terminates the pattern
		case strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}"):
			name := segment[1 : len(segment)-1]
			if current.param == nil {
				current.param = &param{key: name, node: &node{}}
			}
			current = current.param.node
		default:
			current = current.findOrCreateChild(segment)
		}
		if isLast {
			current.pattern = pattern
			current.routeID = routeID
		}
	}
	if len(segments) == 0 {
		n.pattern = pattern
		n.routeID = routeID
	}
}

// matchResult carries a successful match's route id, its registration
// pattern (for MatchedPath), and any captured parameters.
type matchResult struct {
	routeID uint64
	pattern string
	params  map[string]string
}

// match walks rawSegments (raw, not percent-decoded) against the trie,
// preferring a static edge over a param over a wildcard at each level,
// mirroring the teacher's getRoute priority order. Static edges compare
// raw segment text, matching matchit's percent-encoding-oblivious trie
// walk; only segments captured into params are percent-decoded, via
// decodeCapture/decodeWildcardCapture.
func (n *node) match(rawSegments []string) (matchResult, bool) {
	current := n
	var params map[string]string

	for i, segment := range rawSegments {
		isLast := i == len(rawSegments)-1

		if next := current.findChild(segment); next != nil {
			current = next
		} else if current.param != nil {
			if params == nil {
				params = make(map[string]string, 4)
			}
			params[current.param.key] = decodeCapture(segment)
			current = current.param.node
		} else if current.wildcard != nil {
			if params == nil {
				params = make(map[string]string, 4)
			}
			params[current.wildcard.key] = decodeWildcardCapture(rawSegments[i:])
			if current.wildcard.node.routeID == 0 {
				return matchResult{}, false
			}
			return matchResult{
				routeID: current.wildcard.node.routeID,
				pattern: current.wildcard.node.pattern,
				params:  params,
			}, true
		} else {
			return matchResult{}, false
		}

		if isLast {
			if current.routeID == 0 {
				return matchResult{}, false
			}
			return matchResult{routeID: current.routeID, pattern: current.pattern, params: params}, true
		}
	}

	// Empty segment list: root route.
	if current.routeID == 0 {
		return matchResult{}, false
	}
	return matchResult{routeID: current.routeID, pattern: current.pattern, params: params}, true
}

// decodeCapture percent-decodes a single {name} capture, returning
// InvalidUTF8 in place of the value if decoding fails or the decoded bytes
// are not valid UTF-8.
func decodeCapture(raw string) string {
	dec, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(dec) {
		return InvalidUTF8
	}
	return dec
}

// decodeWildcardCapture percent-decodes each raw segment of a {*name}
// capture individually before rejoining with "/", so a "%2F" inside one
// segment's original text isn't confused with the separator introduced by
// joining.
func decodeWildcardCapture(rawSegments []string) string {
	decoded := make([]string, len(rawSegments))
	for i, seg := range rawSegments {
		dec, err := url.PathUnescape(seg)
		if err != nil || !utf8.ValidString(dec) {
			return InvalidUTF8
		}
		decoded[i] = dec
	}
	return strings.Join(decoded, "/")
}

// staticTable is a hashed lookup table for routes with no {param}/{*wild}
// segments at all, letting the common case (a handful of flat API paths)
// skip the segment walk entirely. Grounded on the teacher's
// CompiledRouteTable/bloom-filter design, simplified to a plain map keyed by
// an xxhash digest of the full path (xxhash replacing the teacher's fnv,
// per SPEC_FULL.md's domain-stack wiring for github.com/cespare/xxhash/v2).
type staticTable struct {
	routes map[uint64]staticRoute
}

type staticRoute struct {
	routeID uint64
	pattern string
}

func newStaticTable() *staticTable {
	return &staticTable{routes: make(map[uint64]staticRoute, 16)}
}

func hashPath(path string) uint64 {
	return xxhash.Sum64String(path)
}

func (t *staticTable) add(pattern string, routeID uint64) bool {
	if strings.ContainsAny(pattern, "{}") {
		return false
	}
	t.routes[hashPath(pattern)] = staticRoute{routeID: routeID, pattern: pattern}
	return true
}

func (t *staticTable) lookup(path string) (staticRoute, bool) {
	r, ok := t.routes[hashPath(path)]
	if !ok || r.pattern != path {
		return staticRoute{}, false
	}
	return r, true
}
