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

// Package ratelimit implements the Generic Cell Rate Algorithm: a single
// atomic timestamp per key decides admit/deny with no separate refill
// goroutine, ported line-for-line from
// original_source/src/layers/rate_limit/gcra.rs (the teacher's own
// middleware/ratelimit package uses token-bucket + sliding-window instead,
// which does not match spec.md §4.7's GCRA requirement, so this package is
// grounded on the pre-distillation Rust source instead of the teacher).
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Quota defines the sustained rate (t, the emission interval) and the
// burst size (expressed as tau = t * burst) a [Limiter] enforces for a key.
type Quota struct {
	t   uint64 // emission interval, nanoseconds
	tau uint64 // burst allowance, nanoseconds (t * burst)
}

// NewQuota constructs a quota for burst requests allowed instantly, each
// subsequent request gated by emissionInterval.
func NewQuota(emissionInterval time.Duration, burst uint64) Quota {
	if burst == 0 {
		burst = 1
	}
	t := uint64(emissionInterval.Nanoseconds())
	return Quota{t: t, tau: t * burst}
}

// SimpleQuota is NewQuota with a burst size of 1.
func SimpleQuota(emissionInterval time.Duration) Quota {
	return NewQuota(emissionInterval, 1)
}

// ErrRateLimited is returned, wrapped in a *RateLimitedError, by Limiter.Req
// when a key has no budget left; use errors.As with *RateLimitedError to
// recover the wait duration.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitedError carries the duration until the next request would be
// admitted, mirroring original_source's RateLimitError(NonZeroU64).
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %.3f seconds", e.Wait.Seconds())
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// gcra is a single atomic "next admissible time" (nanoseconds relative to
// the owning Limiter's start) per key.
type gcra struct {
	next atomic.Uint64
}

func newGcra(quota Quota, now uint64) *gcra {
	g := &gcra{}
	// Equivalent to Gcra(now + t).req(), precomputed for the first request.
	g.next.Store(now + quota.t + quota.t)
	return g
}

func decide(prev, now uint64, quota Quota) (next uint64, err error) {
	n := uint64(0)
	if prev > quota.tau {
		n = prev - quota.tau
	}
	if now < n {
		return 0, &RateLimitedError{Wait: time.Duration(n - now)}
	}
	newest := prev
	if now > newest {
		newest = now
	}
	return newest + quota.t, nil
}

func (g *gcra) req(quota Quota, now uint64) error {
	prev := g.next.Load()
	for {
		next, err := decide(prev, now, quota)
		if err != nil {
			return err
		}
		if g.next.CompareAndSwap(prev, next) {
			return nil
		}
		prev = g.next.Load()
	}
}
