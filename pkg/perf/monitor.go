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

// Package perf tracks request performance and current process resource
// usage for the monitoring core.
package perf

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

const (
	maxSamples    = 10000
	alertSource   = "performance"
	defaultWindow = time.Minute
)

type requestSample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// Monitor records request outcomes and samples process resources via
// gopsutil. It is safe for concurrent use.
type Monitor struct {
	mu         sync.Mutex
	samples    []requestSample
	thresholds models.CriticalThresholds
	clock      func() time.Time
	logger     logger.Logger
}

// NewMonitor creates a performance monitor with the given alert thresholds.
func NewMonitor(thresholds models.CriticalThresholds, log logger.Logger) *Monitor {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Monitor{
		thresholds: thresholds,
		clock:      time.Now,
		logger:     log,
	}
}

// RecordRequest adds one completed request to the sample window.
func (m *Monitor) RecordRequest(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples = append(m.samples, requestSample{at: m.clock(), duration: duration, failed: failed})
	if len(m.samples) > maxSamples {
		m.samples = m.samples[len(m.samples)-maxSamples:]
	}
}

// SetThresholds replaces the alert thresholds, typically after a monitoring
// config update.
func (m *Monitor) SetThresholds(thresholds models.CriticalThresholds) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.thresholds = thresholds
}

// GetPerformanceSummary rolls up the requests observed within the window and
// attaches the current CPU and memory usage.
func (m *Monitor) GetPerformanceSummary(window time.Duration) (models.PerformanceSummary, error) {
	if window <= 0 {
		window = defaultWindow
	}

	now := m.clock()
	cutoff := now.Add(-window)

	m.mu.Lock()

	var (
		total, failed int64
		durationSum   time.Duration
	)

	for _, sample := range m.samples {
		if sample.at.Before(cutoff) {
			continue
		}

		total++
		durationSum += sample.duration

		if sample.failed {
			failed++
		}
	}

	m.mu.Unlock()

	summary := models.PerformanceSummary{
		TotalRequests:  total,
		FailedRequests: failed,
		WindowStart:    cutoff,
		WindowEnd:      now,
	}

	if total > 0 {
		summary.AverageResponseTime = float64(durationSum.Milliseconds()) / float64(total)
		summary.ErrorRate = float64(failed) / float64(total) * 100
	}

	cpuPercents, err := cpu.Percent(0, false)
	if err != nil {
		return models.PerformanceSummary{}, fmt.Errorf("failed to sample CPU usage: %w", err)
	}

	if len(cpuPercents) > 0 {
		summary.CurrentCPUUsage = cpuPercents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return models.PerformanceSummary{}, fmt.Errorf("failed to sample memory usage: %w", err)
	}

	summary.CurrentMemoryUsage = vm.Used

	return summary, nil
}

// GetActiveAlerts derives threshold alerts from the most recent window.
func (m *Monitor) GetActiveAlerts() ([]models.Alert, error) {
	summary, err := m.GetPerformanceSummary(defaultWindow)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	thresholds := m.thresholds
	m.mu.Unlock()

	now := m.clock()
	alerts := []models.Alert{}

	if thresholds.ErrorRatePercent > 0 && summary.ErrorRate >= thresholds.ErrorRatePercent {
		severity := models.AlertSeverityHigh
		if summary.ErrorRate >= thresholds.ErrorRatePercent*2 {
			severity = models.AlertSeverityCritical
		}

		alerts = append(alerts, models.Alert{
			ID:        uuid.New().String(),
			Type:      "error_rate",
			Severity:  severity,
			Message:   fmt.Sprintf("error rate %.1f%% exceeds threshold %.1f%%", summary.ErrorRate, thresholds.ErrorRatePercent),
			Timestamp: now,
			Source:    alertSource,
		})
	}

	if thresholds.ResponseTimeMS > 0 && summary.AverageResponseTime >= float64(thresholds.ResponseTimeMS) {
		alerts = append(alerts, models.Alert{
			ID:        uuid.New().String(),
			Type:      "slow_responses",
			Severity:  models.AlertSeverityMedium,
			Message:   fmt.Sprintf("average response time %.0fms exceeds %dms", summary.AverageResponseTime, thresholds.ResponseTimeMS),
			Timestamp: now,
			Source:    alertSource,
		})
	}

	if thresholds.MemoryBytes > 0 && summary.CurrentMemoryUsage >= thresholds.MemoryBytes {
		alerts = append(alerts, models.Alert{
			ID:        uuid.New().String(),
			Type:      "memory_usage",
			Severity:  models.AlertSeverityHigh,
			Message:   fmt.Sprintf("memory usage %d bytes exceeds %d", summary.CurrentMemoryUsage, thresholds.MemoryBytes),
			Timestamp: now,
			Source:    alertSource,
		})
	}

	return alerts, nil
}
