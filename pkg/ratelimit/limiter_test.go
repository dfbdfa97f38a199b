/*
 * Copyright 2025 AdCraft AI.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
)

// manualClock lets tests control the limiter's view of time.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(limit int, window time.Duration) (*Limiter, *manualClock) {
	clock := &manualClock{now: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)}

	l := NewLimiter(limit, window, logger.NewTestLogger())
	l.clock = clock.Now

	return l, clock
}

func TestCheckRateLimit_AllowsUpToLimitThenDenies(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		result := l.CheckRateLimit("10.0.0.1", "/api/monitoring/dashboard")

		assert.True(t, result.Allowed)
		assert.Equal(t, 2-i, result.RemainingRequests)
	}

	result := l.CheckRateLimit("10.0.0.1", "/api/monitoring/dashboard")

	assert.False(t, result.Allowed)
	assert.Zero(t, result.RemainingRequests)
	assert.Equal(t, time.Minute, result.RetryAfter)
}

func TestCheckRateLimit_WindowRollover(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	assert.True(t, l.CheckRateLimit("client", "/a").Allowed)
	assert.False(t, l.CheckRateLimit("client", "/a").Allowed)

	clock.Advance(time.Minute)

	// A fresh window starts; the old count does not carry over.
	result := l.CheckRateLimit("client", "/a")

	assert.True(t, result.Allowed)
	assert.Zero(t, result.RemainingRequests)
}

func TestCheckRateLimit_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	assert.True(t, l.CheckRateLimit("client-a", "/a").Allowed)
	assert.True(t, l.CheckRateLimit("client-b", "/a").Allowed)
	assert.True(t, l.CheckRateLimit("client-a", "/b").Allowed)
	assert.False(t, l.CheckRateLimit("client-a", "/a").Allowed)
}

func TestCheckRateLimit_RetryAfterShrinksWithinWindow(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	l.CheckRateLimit("client", "/a")
	clock.Advance(40 * time.Second)

	result := l.CheckRateLimit("client", "/a")

	assert.False(t, result.Allowed)
	assert.Equal(t, 20*time.Second, result.RetryAfter)
}

func TestSweep_RemovesIdleEntries(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	l.CheckRateLimit("stale-client", "/a")

	clock.Advance(25 * time.Hour)

	l.CheckRateLimit("fresh-client", "/a")

	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()

	assert.Len(t, l.entries, 1)
	_, ok := l.entries["fresh-client|/a"]
	assert.True(t, ok)
}

func TestStartStop(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Start(ctx))
	require.NoError(t, l.Stop(ctx))
	require.NoError(t, l.Stop(ctx)) // second stop is a no-op
}
