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

// Package ratelimit implements a fixed-window request counter keyed by
// (identifier, endpoint), with a periodic sweep of idle entries.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
)

const (
	defaultSweepInterval = time.Hour
	idleExpiry           = 24 * time.Hour
)

// Result is the outcome of one rate-limit check.
type Result struct {
	Allowed           bool          `json:"allowed"`
	RemainingRequests int           `json:"remaining_requests"`
	ResetTime         time.Time     `json:"reset_time"`
	RetryAfter        time.Duration `json:"retry_after,omitempty"`
}

type windowEntry struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

// Limiter is a fixed-window rate limiter. The window restarts `window`
// after the first request of the current window; counts never carry over.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration

	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once
	wg            sync.WaitGroup

	clock  func() time.Time
	logger logger.Logger
}

// NewLimiter creates a limiter allowing limit requests per window for each
// (identifier, endpoint) key.
func NewLimiter(limit int, window time.Duration, log logger.Logger) *Limiter {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Limiter{
		entries:       make(map[string]*windowEntry),
		limit:         limit,
		window:        window,
		sweepInterval: defaultSweepInterval,
		done:          make(chan struct{}),
		clock:         time.Now,
		logger:        log,
	}
}

// CheckRateLimit counts one request against the key's current window.
func (l *Limiter) CheckRateLimit(identifier, endpoint string) Result {
	key := identifier + "|" + endpoint
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		entry = &windowEntry{windowStart: now}
		l.entries[key] = entry
	}

	entry.lastSeen = now
	resetTime := entry.windowStart.Add(l.window)

	if entry.count >= l.limit {
		return Result{
			Allowed:           false,
			RemainingRequests: 0,
			ResetTime:         resetTime,
			RetryAfter:        resetTime.Sub(now),
		}
	}

	entry.count++

	return Result{
		Allowed:           true,
		RemainingRequests: l.limit - entry.count,
		ResetTime:         resetTime,
	}
}

// Start implements the lifecycle.Service interface, beginning the periodic
// sweep of entries unused for 24 hours.
func (l *Limiter) Start(ctx context.Context) error {
	l.wg.Add(1)

	go func() {
		defer l.wg.Done()

		ticker := time.NewTicker(l.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.sweep()
			}
		}
	}()

	return nil
}

// Stop implements the lifecycle.Service interface.
func (l *Limiter) Stop(_ context.Context) error {
	l.closeOnce.Do(func() { close(l.done) })
	l.wg.Wait()

	return nil
}

func (l *Limiter) sweep() {
	cutoff := l.clock().Add(-idleExpiry)

	l.mu.Lock()

	removed := 0

	for key, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}

	remaining := len(l.entries)

	l.mu.Unlock()

	if removed > 0 {
		l.logger.Debug().
			Int("removed", removed).
			Int("remaining", remaining).
			Msg("Swept idle rate limit entries")
	}
}
