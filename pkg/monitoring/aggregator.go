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
	"fmt"
	"math"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

const (
	scoreHealthy   = 100
	scoreDegraded  = 75
	scoreUnhealthy = 25
	scoreCritical  = 0

	criticalScoreCeiling  = 25
	unhealthyScoreCeiling = 50
	degradedScoreCeiling  = 90
)

func statusScore(state models.HealthState) int {
	switch state {
	case models.HealthStateHealthy:
		return scoreHealthy
	case models.HealthStateDegraded:
		return scoreDegraded
	case models.HealthStateUnhealthy:
		return scoreUnhealthy
	case models.HealthStateCritical:
		return scoreCritical
	default:
		return scoreCritical
	}
}

// aggregate combines per-service health records into one overall status and
// score. The score is the rounded mean of per-service scores; classification
// ties break toward the worse state: critical conditions are checked first,
// then unhealthy, then degraded.
func aggregate(services []models.ServiceHealthCheck) (models.HealthState, int) {
	if len(services) == 0 {
		return models.HealthStateCritical, 0
	}

	var (
		sum          int
		anyCritical  bool
		anyUnhealthy bool
	)

	for i := range services {
		sum += statusScore(services[i].Status)

		switch services[i].Status {
		case models.HealthStateCritical:
			anyCritical = true
		case models.HealthStateUnhealthy:
			anyUnhealthy = true
		}
	}

	score := int(math.Round(float64(sum) / float64(len(services))))

	switch {
	case anyCritical || score < criticalScoreCeiling:
		return models.HealthStateCritical, score
	case anyUnhealthy || score < unhealthyScoreCeiling:
		return models.HealthStateUnhealthy, score
	case score < degradedScoreCeiling:
		return models.HealthStateDegraded, score
	default:
		return models.HealthStateHealthy, score
	}
}

// classifyIssues partitions per-service issue strings: issues from critical
// and unhealthy services become critical issues, issues from degraded
// services become warnings.
func classifyIssues(services []models.ServiceHealthCheck) (criticalIssues, warnings []string) {
	criticalIssues = []string{}
	warnings = []string{}

	for i := range services {
		switch services[i].Status {
		case models.HealthStateCritical, models.HealthStateUnhealthy:
			criticalIssues = append(criticalIssues, services[i].Issues...)
		case models.HealthStateDegraded:
			warnings = append(warnings, services[i].Issues...)
		}
	}

	return criticalIssues, warnings
}

// environmentWarnings compares current resource and budget metrics against
// the configured critical thresholds. The resulting strings append to the
// warnings list only; they never change the aggregate status or score.
func environmentWarnings(
	thresholds models.CriticalThresholds,
	perf *models.PerformanceSummary,
	budget *models.BudgetStatus,
) []string {
	warnings := []string{}

	if perf != nil {
		if perf.CurrentMemoryUsage >= thresholds.MemoryBytes && thresholds.MemoryBytes > 0 {
			warnings = append(warnings,
				fmt.Sprintf("high memory usage: %d bytes", perf.CurrentMemoryUsage))
		}

		if perf.ErrorRate >= thresholds.ErrorRatePercent && thresholds.ErrorRatePercent > 0 {
			warnings = append(warnings,
				fmt.Sprintf("elevated error rate: %.1f%%", perf.ErrorRate))
		}

		if perf.AverageResponseTime >= float64(thresholds.ResponseTimeMS) && thresholds.ResponseTimeMS > 0 {
			warnings = append(warnings,
				fmt.Sprintf("slow responses: %.0fms average", perf.AverageResponseTime))
		}
	}

	if budget != nil && budget.PercentageUsed >= thresholds.BudgetUsagePercent && thresholds.BudgetUsagePercent > 0 {
		warnings = append(warnings,
			fmt.Sprintf("budget usage at %.1f%%", budget.PercentageUsed))
	}

	return warnings
}
