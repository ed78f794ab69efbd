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

import "rivaas.dev/corehttp"

// Group organizes routes under a common path prefix with shared layers,
// grounded on the teacher's groups.go Group type, generalized from
// HandlerFunc middleware to corehttp.Layer composition.
//
// Example:
//
//	api := r.Group("/api/v1", AuthLayer)
//	users := api.Group("/users", RateLimitLayer)
//	users.Get("/{id}", getUser) // final path: /api/v1/users/{id}
type Group struct {
	router *Router
	prefix string
	layers []corehttp.Layer
}

// Group returns a top-level group rooted at the router, with the given
// prefix and layers, from which nested groups and routes are built.
func (r *Router) Group(prefix string, layers ...corehttp.Layer) *Group {
	return &Group{router: r, prefix: prefix, layers: layers}
}

// Group creates a nested group whose prefix is the parent's prefix plus
// prefix, inheriting the parent's layers and appending the ones given here.
func (g *Group) Group(prefix string, layers ...corehttp.Layer) *Group {
	return &Group{
		router: g.router,
		prefix: g.prefix + prefix,
		layers: append(append([]corehttp.Layer{}, g.layers...), layers...),
	}
}

// Use appends layers applied to every route registered on this group from
// this point on.
func (g *Group) Use(layers ...corehttp.Layer) {
	g.layers = append(g.layers, layers...)
}

func (g *Group) wrap(service corehttp.Service) corehttp.Service {
	return corehttp.Chain(service, g.layers...)
}

// Handle registers service for method and the group-relative pattern,
// wrapped with the group's layers in outside-in order.
func (g *Group) Handle(method, pattern string, service corehttp.Service) uint64 {
	return g.router.Handle(method, g.prefix+pattern, g.wrap(service))
}

func (g *Group) Get(pattern string, service corehttp.Service) uint64 {
	return g.Handle("GET", pattern, service)
}
func (g *Group) Post(pattern string, service corehttp.Service) uint64 {
	return g.Handle("POST", pattern, service)
}
func (g *Group) Put(pattern string, service corehttp.Service) uint64 {
	return g.Handle("PUT", pattern, service)
}
func (g *Group) Delete(pattern string, service corehttp.Service) uint64 {
	return g.Handle("DELETE", pattern, service)
}
func (g *Group) Patch(pattern string, service corehttp.Service) uint64 {
	return g.Handle("PATCH", pattern, service)
}
func (g *Group) Any(pattern string, service corehttp.Service) uint64 {
	return g.Handle("ANY", pattern, service)
}
