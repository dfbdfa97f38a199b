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

// Package models defines the shared data model for the AdCraft monitoring core.
package models

import "time"

// HealthState classifies the health of a single service or the whole system.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
	HealthStateCritical  HealthState = "critical"
)

// HealthCheckDetails carries the raw probe outcome behind a service status.
type HealthCheckDetails struct {
	Available bool    `json:"available"`
	LatencyMS int64   `json:"latency_ms"`
	ErrorRate float64 `json:"error_rate"` // percentage [0,100]
}

// ServiceHealthCheck is one downstream dependency's latest probe result.
// A new value is created on every health-check tick; records are never
// mutated in place.
type ServiceHealthCheck struct {
	Name           string             `json:"name"`
	Status         HealthState        `json:"status"`
	ResponseTimeMS int64              `json:"response_time_ms"`
	LastCheck      time.Time          `json:"last_check"`
	Details        HealthCheckDetails `json:"details"`
	Issues         []string           `json:"issues"`
}

// SystemHealthStatus is the aggregate health snapshot for one tick.
type SystemHealthStatus struct {
	Status         HealthState          `json:"status"`
	Timestamp      time.Time            `json:"timestamp"`
	Uptime         Duration             `json:"uptime"`
	Services       []ServiceHealthCheck `json:"services"`
	OverallScore   int                  `json:"overall_score"` // [0,100]
	CriticalIssues []string             `json:"critical_issues"`
	Warnings       []string             `json:"warnings"`
}
