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

package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurstAllowsUpToLimitThenDenies(t *testing.T) {
	l := NewLimiter[string](DefaultGCMode())
	quota := NewQuota(100*time.Millisecond, 3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Req("k", quota, now))
	}
	err := l.Req("k", quota, now)
	require.Error(t, err)

	var rlErr *RateLimitedError
	require.True(t, errors.As(err, &rlErr))
	assert.True(t, rlErr.Wait > 0)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestSustainedPauseRecoversBudget(t *testing.T) {
	l := NewLimiter[string](DefaultGCMode())
	quota := NewQuota(10*time.Millisecond, 1)
	now := time.Now()

	require.NoError(t, l.Req("k", quota, now))
	require.Error(t, l.Req("k", quota, now))
	require.NoError(t, l.Req("k", quota, now.Add(11*time.Millisecond)))
}

func TestColdKeyAlwaysAdmitsFirstRequest(t *testing.T) {
	l := NewLimiter[string](DefaultGCMode())
	quota := NewQuota(time.Second, 1)
	require.NoError(t, l.Req("fresh-key", quota, time.Now()))
}

func TestPenalizeDelaysNextAdmission(t *testing.T) {
	l := NewLimiter[string](DefaultGCMode())
	quota := NewQuota(10*time.Millisecond, 1)
	now := time.Now()

	require.NoError(t, l.Req("k", quota, now))
	ok := l.Penalize("k", 50*time.Millisecond)
	require.True(t, ok)

	require.Error(t, l.Req("k", quota, now.Add(15*time.Millisecond)))
}

func TestResetClearsEntry(t *testing.T) {
	l := NewLimiter[string](DefaultGCMode())
	quota := NewQuota(time.Second, 1)
	now := time.Now()

	require.NoError(t, l.Req("k", quota, now))
	require.Error(t, l.Req("k", quota, now))

	require.True(t, l.Reset("k"))
	require.NoError(t, l.Req("k", quota, now))
}
