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

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// trendStore owns the five capacity-bounded trend series. Only the trend
// recorder writes it; the snapshot builder and chart/export operations read
// copies. Eviction is FIFO: after an append the series is trimmed from the
// front down to capacity.
type trendStore struct {
	mu       sync.Mutex
	capacity int
	series   map[string][]models.TrendPoint
}

func newTrendStore(capacity int) *trendStore {
	return &trendStore{
		capacity: capacity,
		series:   make(map[string][]models.TrendPoint),
	}
}

// record appends one sample to the named series in insertion order.
func (t *trendStore) record(name string, ts time.Time, value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	points := append(t.series[name], models.TrendPoint{Timestamp: ts, Value: value})
	if len(points) > t.capacity {
		points = points[len(points)-t.capacity:]
	}

	t.series[name] = points
}

// get returns a copy of the named series, oldest first.
func (t *trendStore) get(name string) []models.TrendPoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	points := t.series[name]
	out := make([]models.TrendPoint, len(points))
	copy(out, points)

	return out
}

func (t *trendStore) snapshot() models.SystemTrends {
	return models.SystemTrends{
		CPU:       t.get(models.TrendCPU),
		Memory:    t.get(models.TrendMemory),
		Requests:  t.get(models.TrendRequests),
		ErrorRate: t.get(models.TrendErrorRate),
		Cost:      t.get(models.TrendCost),
	}
}

func (t *trendStore) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.series = make(map[string][]models.TrendPoint)
}

// setCapacity applies a new bound, trimming existing series from the front.
func (t *trendStore) setCapacity(capacity int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.capacity = capacity

	for name, points := range t.series {
		if len(points) > capacity {
			t.series[name] = points[len(points)-capacity:]
		}
	}
}

// updateTrends samples all five series with one shared timestamp. The tick is
// all-or-nothing: if any sample's source fails, nothing is written and the
// next tick proceeds at the regular interval.
func (s *Service) updateTrends(_ context.Context) error {
	s.mu.RLock()
	window := s.config.TrendUpdateInterval.Std()
	s.mu.RUnlock()

	summary, err := s.perf.GetPerformanceSummary(window)
	if err != nil {
		return err
	}

	budget, err := s.budget.GetBudgetStatus()
	if err != nil {
		return err
	}

	now := s.clock.Now()

	s.trends.record(models.TrendCPU, now, summary.CurrentCPUUsage)
	s.trends.record(models.TrendMemory, now, float64(summary.CurrentMemoryUsage))
	s.trends.record(models.TrendRequests, now, float64(summary.TotalRequests))
	s.trends.record(models.TrendErrorRate, now, summary.ErrorRate)
	s.trends.record(models.TrendCost, now, budget.CurrentSpend)

	return nil
}
