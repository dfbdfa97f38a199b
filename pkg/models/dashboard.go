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

package models

import "time"

// PerformanceSummary is the performance collaborator's rolled-up view of a
// recent request window plus the current process resource usage.
type PerformanceSummary struct {
	TotalRequests       int64     `json:"total_requests"`
	FailedRequests      int64     `json:"failed_requests"`
	AverageResponseTime float64   `json:"average_response_time_ms"`
	ErrorRate           float64   `json:"error_rate"` // percentage [0,100]
	CurrentCPUUsage     float64   `json:"current_cpu_usage"`
	CurrentMemoryUsage  uint64    `json:"current_memory_usage"`
	WindowStart         time.Time `json:"window_start"`
	WindowEnd           time.Time `json:"window_end"`
}

// BudgetStatus is the cost tracker's view of spend against the configured
// budget for the current billing window.
type BudgetStatus struct {
	TotalBudget     float64   `json:"total_budget"`
	CurrentSpend    float64   `json:"current_spend"`
	RemainingBudget float64   `json:"remaining_budget"`
	PercentageUsed  float64   `json:"percentage_used"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SecurityEvent is one recorded security-relevant occurrence, such as an
// auth failure or a rate-limit rejection.
type SecurityEvent struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Severity  AlertSeverity     `json:"severity"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Resolved  bool              `json:"resolved"`
}

// SecurityMetrics summarizes the security monitor's event log.
type SecurityMetrics struct {
	TotalEvents     int64     `json:"total_events"`
	CriticalEvents  int64     `json:"critical_events"`
	AuthFailures    int64     `json:"auth_failures"`
	BlockedRequests int64     `json:"blocked_requests"`
	LastEventAt     time.Time `json:"last_event_at"`
}

// SecuritySnapshot bundles the security monitor's state for the dashboard.
type SecuritySnapshot struct {
	Metrics      SecurityMetrics `json:"metrics"`
	RecentEvents []SecurityEvent `json:"recent_events"`
}

// MonitoringDashboardData is the consistent read-only payload assembled on
// demand for the browser dashboard.
type MonitoringDashboardData struct {
	Health      *SystemHealthStatus `json:"health"`
	Trends      SystemTrends        `json:"trends"`
	Alerts      AlertSummary        `json:"alerts"`
	Budget      BudgetStatus        `json:"budget"`
	Performance PerformanceSummary  `json:"performance"`
	Security    SecuritySnapshot    `json:"security"`
	GeneratedAt time.Time           `json:"generated_at"`

	// Stale marks a payload served from the last successful snapshot after
	// a fresh assembly failed.
	Stale bool `json:"stale,omitempty"`
}

// DashboardSummary is a cheap overview built from already-cached state only,
// safe to serve even while collaborators are failing.
type DashboardSummary struct {
	Status          HealthState `json:"status"`
	OverallScore    int         `json:"overall_score"`
	ServiceCount    int         `json:"service_count"`
	CriticalIssues  int         `json:"critical_issues"`
	Warnings        int         `json:"warnings"`
	Uptime          Duration    `json:"uptime"`
	LastHealthCheck time.Time   `json:"last_health_check"`
}

// ChartSeries is one named metric series selected for chart display.
type ChartSeries struct {
	Metric string       `json:"metric"`
	Points []TrendPoint `json:"points"`
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
