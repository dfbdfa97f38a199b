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
	"sort"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

const recentAlertLimit = 10

// fetchAllAlerts gathers active alerts from the three alert sources. Any
// single source failing fails the whole fetch; the caller decides whether to
// skip the tick or propagate.
func (s *Service) fetchAllAlerts() ([]models.Alert, error) {
	securityAlerts, err := s.security.GetActiveAlerts()
	if err != nil {
		return nil, fmt.Errorf("security alerts: %w", err)
	}

	perfAlerts, err := s.perf.GetActiveAlerts()
	if err != nil {
		return nil, fmt.Errorf("performance alerts: %w", err)
	}

	costAlerts, err := s.budget.GetActiveAlerts()
	if err != nil {
		return nil, fmt.Errorf("cost alerts: %w", err)
	}

	merged := make([]models.Alert, 0, len(securityAlerts)+len(perfAlerts)+len(costAlerts))
	merged = append(merged, securityAlerts...)
	merged = append(merged, perfAlerts...)
	merged = append(merged, costAlerts...)

	return merged, nil
}

// collectAlerts runs one alert-check tick: fetch, classify, and escalate.
// A fetch error skips the entire tick; it is retried at the next interval.
func (s *Service) collectAlerts(ctx context.Context) error {
	alerts, err := s.fetchAllAlerts()
	if err != nil {
		return err
	}

	summary := buildAlertSummary(alerts)

	s.logger.Info().
		Int("total", summary.Total()).
		Int("critical", summary.Critical).
		Int("high", summary.High).
		Int("medium", summary.Medium).
		Int("low", summary.Low).
		Msg("Alert check completed")

	if summary.Critical == 0 {
		return nil
	}

	critical := make([]models.Alert, 0, summary.Critical)

	for _, alert := range alerts {
		if alert.Severity == models.AlertSeverityCritical {
			critical = append(critical, alert)
		}
	}

	s.logger.Error().
		Str("escalation", "critical").
		Int("count", len(critical)).
		Msg("Critical alerts active")

	if s.events != nil {
		data := models.CriticalAlertEventData{
			Alerts:    critical,
			Total:     summary.Total(),
			Timestamp: s.clock.Now(),
		}

		if err := s.events.PublishCriticalAlerts(ctx, data); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to publish critical alert event")
		}
	}

	return nil
}

// buildAlertSummary partitions alerts by severity and keeps the 10 most
// recent across all sources, newest first. Duplicate semantic alerts from
// different sources stay separate entries.
func buildAlertSummary(alerts []models.Alert) models.AlertSummary {
	summary := models.AlertSummary{Recent: []models.Alert{}}

	for _, alert := range alerts {
		switch alert.Severity {
		case models.AlertSeverityCritical:
			summary.Critical++
		case models.AlertSeverityHigh:
			summary.High++
		case models.AlertSeverityMedium:
			summary.Medium++
		case models.AlertSeverityLow:
			summary.Low++
		}
	}

	sorted := make([]models.Alert, len(alerts))
	copy(sorted, alerts)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	if len(sorted) > recentAlertLimit {
		sorted = sorted[:recentAlertLimit]
	}

	summary.Recent = sorted

	return summary
}
