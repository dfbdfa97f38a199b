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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

const recentSecurityEventLimit = 20

// GetMonitoringDashboard assembles the dashboard payload. Collaborator
// fetches run concurrently; the cached health status is reused rather than
// re-probing, so health may be up to one health-check interval stale. Any
// collaborator failure fails the whole call.
func (s *Service) GetMonitoringDashboard(ctx context.Context) (*models.MonitoringDashboardData, error) {
	s.mu.RLock()
	window := s.config.HealthCheckInterval.Std()
	s.mu.RUnlock()

	var (
		wg sync.WaitGroup

		perfSummary models.PerformanceSummary
		budget      models.BudgetStatus
		secMetrics  models.SecurityMetrics
		secEvents   []models.SecurityEvent
		alerts      []models.Alert

		perfErr, budgetErr, alertsErr error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()

		perfSummary, perfErr = s.perf.GetPerformanceSummary(window)
	}()

	go func() {
		defer wg.Done()

		budget, budgetErr = s.budget.GetBudgetStatus()
	}()

	go func() {
		defer wg.Done()

		secMetrics = s.security.GetMetrics()
		secEvents = s.security.GetRecentEvents(recentSecurityEventLimit)
		alerts, alertsErr = s.fetchAllAlerts()
	}()

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for _, err := range []error{perfErr, budgetErr, alertsErr} {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errDashboardFailed, err)
		}
	}

	data := &models.MonitoringDashboardData{
		Health:      s.GetCurrentHealth(),
		Trends:      s.trends.snapshot(),
		Alerts:      buildAlertSummary(alerts),
		Budget:      budget,
		Performance: perfSummary,
		Security: models.SecuritySnapshot{
			Metrics:      secMetrics,
			RecentEvents: secEvents,
		},
		GeneratedAt: s.clock.Now(),
	}

	return data, nil
}

// GetDashboardSummary builds a cheap overview from already-cached state
// only. It never touches live collaborators, so it cannot fail even while
// an alert source is throwing.
func (s *Service) GetDashboardSummary() models.DashboardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := models.DashboardSummary{
		Status: models.HealthStateCritical,
		Uptime: models.Duration(s.clock.Now().Sub(s.startTime)),
	}

	if s.currentHealth != nil {
		summary.Status = s.currentHealth.Status
		summary.OverallScore = s.currentHealth.OverallScore
		summary.ServiceCount = len(s.currentHealth.Services)
		summary.CriticalIssues = len(s.currentHealth.CriticalIssues)
		summary.Warnings = len(s.currentHealth.Warnings)
		summary.LastHealthCheck = s.currentHealth.Timestamp
	}

	return summary
}

// GetChartData returns the requested trend series restricted to the given
// time range. Unknown metric names are rejected.
func (s *Service) GetChartData(timeRange time.Duration, metrics []string) ([]models.ChartSeries, error) {
	cutoff := s.clock.Now().Add(-timeRange)

	known := make(map[string]bool, len(models.TrendNames()))
	for _, name := range models.TrendNames() {
		known[name] = true
	}

	out := make([]models.ChartSeries, 0, len(metrics))

	for _, metric := range metrics {
		name := strings.ToLower(strings.TrimSpace(metric))
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
		}

		points := s.trends.get(name)

		filtered := make([]models.TrendPoint, 0, len(points))

		for _, p := range points {
			if !p.Timestamp.Before(cutoff) {
				filtered = append(filtered, p)
			}
		}

		out = append(out, models.ChartSeries{Metric: name, Points: filtered})
	}

	return out, nil
}
