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

package corehttp

import (
	"io"
	"reflect"
)

// arbitraryState is the shared mutable backing for an Arbitrary body: every
// copy of the Body value sees the same state, so taking the value through
// one copy is visible to all others (the "self-forgetting" property from
// spec.md §3 — once taken, the body behaves as if it had always been
// Empty).
type arbitraryState struct {
	typ   reflect.Type
	value any
	taken bool
}

// arbitraryBody is the Arbitrary variant: a runtime-checked downcast
// channel for passing a small Go value through a body-typed field or
// channel without re-encoding it to bytes, keyed by the value's dynamic
// type the way Extensions keys by reflect.Type. Grounded on
// original_source/src/body/arbitrary.rs's SmallArbitraryData/same_ty,
// translated from its unsafe byte-packed representation to a plain typed
// field since Go's any already boxes a value of any type safely.
//
// Calling Reader/SizeHint on an Arbitrary body that was never taken via
// [ArbitraryValue] is a bug: original_source/src/body/mod.rs treats
// polling BodyInner::Arbitrary directly the same way.
type arbitraryBody struct {
	noTrailer
	state *arbitraryState
}

// Arbitrary wraps value as a self-forgetting, type-identity-keyed body:
// the first successful [ArbitraryValue] call for T consumes it, and every
// subsequent call on any copy of the same Body value reports not found.
func Arbitrary[T any](value T) Body {
	return arbitraryBody{state: &arbitraryState{typ: reflect.TypeOf(value), value: value}}
}

// IsArbitrary reports whether body is an Arbitrary body, taken or not.
func IsArbitrary(body Body) bool {
	_, ok := body.(arbitraryBody)
	return ok
}

// ArbitraryValue downcasts an Arbitrary body's wrapped value to T if body
// is Arbitrary, was constructed with a T, and has not already been taken.
// A mismatched or already-taken body reports ok=false without panicking,
// mirroring same_ty followed by take_arbitrary in the original.
func ArbitraryValue[T any](body Body) (value T, ok bool) {
	a, isArbitrary := body.(arbitraryBody)
	if !isArbitrary || a.state.taken {
		return value, false
	}
	var zero T
	if a.state.typ != reflect.TypeOf(zero) {
		return value, false
	}
	value, ok = a.state.value.(T)
	if !ok {
		return value, false
	}
	a.state.taken = true
	a.state.value = nil
	return value, true
}

func (arbitraryBody) SizeHint() SizeHint { return SizeHint{Lower: 0, Upper: nil} }

func (arbitraryBody) Reader() io.ReadCloser {
	return errReader{err: ErrArbitraryPolled}
}

func (arbitraryBody) bodyMarker() {}
