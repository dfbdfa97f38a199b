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

package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// MockPerformanceProvider is a mock implementation of PerformanceProvider.
type MockPerformanceProvider struct {
	mock.Mock
}

func (m *MockPerformanceProvider) GetPerformanceSummary(window time.Duration) (models.PerformanceSummary, error) {
	args := m.Called(window)
	return args.Get(0).(models.PerformanceSummary), args.Error(1)
}

func (m *MockPerformanceProvider) GetActiveAlerts() ([]models.Alert, error) {
	args := m.Called()

	if alerts, ok := args.Get(0).([]models.Alert); ok {
		return alerts, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockBudgetProvider is a mock implementation of BudgetProvider.
type MockBudgetProvider struct {
	mock.Mock
}

func (m *MockBudgetProvider) GetBudgetStatus() (models.BudgetStatus, error) {
	args := m.Called()
	return args.Get(0).(models.BudgetStatus), args.Error(1)
}

func (m *MockBudgetProvider) GetActiveAlerts() ([]models.Alert, error) {
	args := m.Called()

	if alerts, ok := args.Get(0).([]models.Alert); ok {
		return alerts, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockSecurityProvider is a mock implementation of SecurityProvider.
type MockSecurityProvider struct {
	mock.Mock
}

func (m *MockSecurityProvider) GetMetrics() models.SecurityMetrics {
	args := m.Called()
	return args.Get(0).(models.SecurityMetrics)
}

func (m *MockSecurityProvider) GetRecentEvents(limit int) []models.SecurityEvent {
	args := m.Called(limit)
	return args.Get(0).([]models.SecurityEvent)
}

func (m *MockSecurityProvider) GetActiveAlerts() ([]models.Alert, error) {
	args := m.Called()

	if alerts, ok := args.Get(0).([]models.Alert); ok {
		return alerts, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishHealthTransition(ctx context.Context, data models.HealthTransitionEventData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishCriticalAlerts(ctx context.Context, data models.CriticalAlertEventData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// fakeClock is a manually advanced clock whose tickers fire only when a test
// calls fire, keeping the periodic loops quiet unless driven directly.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Ticker(interval time.Duration) Ticker {
	t := &fakeTicker{ch: make(chan time.Time, 1), interval: interval}

	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()

	return t
}

// tickerFor returns the most recently created ticker with the given
// interval, or nil if none exists yet.
func (c *fakeClock) tickerFor(interval time.Duration) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.tickers) - 1; i >= 0; i-- {
		if c.tickers[i].interval == interval {
			return c.tickers[i]
		}
	}

	return nil
}

type fakeTicker struct {
	ch       chan time.Time
	interval time.Duration
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {}

func (t *fakeTicker) fire(at time.Time) { t.ch <- at }

// quietProviders returns providers that succeed with zero values so tests
// can focus on the code path under test.
func quietProviders() (*MockPerformanceProvider, *MockBudgetProvider, *MockSecurityProvider) {
	perf := &MockPerformanceProvider{}
	perf.On("GetPerformanceSummary", mock.Anything).Return(models.PerformanceSummary{}, nil).Maybe()
	perf.On("GetActiveAlerts").Return([]models.Alert{}, nil).Maybe()

	budget := &MockBudgetProvider{}
	budget.On("GetBudgetStatus").Return(models.BudgetStatus{}, nil).Maybe()
	budget.On("GetActiveAlerts").Return([]models.Alert{}, nil).Maybe()

	security := &MockSecurityProvider{}
	security.On("GetMetrics").Return(models.SecurityMetrics{}).Maybe()
	security.On("GetRecentEvents", mock.Anything).Return([]models.SecurityEvent{}).Maybe()
	security.On("GetActiveAlerts").Return([]models.Alert{}, nil).Maybe()

	return perf, budget, security
}

func staticProbe(healthy bool, err error) Probe {
	return func(context.Context) (bool, error) {
		return healthy, err
	}
}
