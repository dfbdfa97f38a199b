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

import (
	"errors"
	"time"
)

var (
	ErrNonPositiveInterval = errors.New("interval must be positive")
	ErrInvalidTrendPoints  = errors.New("trend_data_points must be at least 1")
)

const defaultTrendDataPoints = 100

// CriticalThresholds are the resource limits compared against current
// process metrics when deriving environment warnings and collaborator alerts.
type CriticalThresholds struct {
	ErrorRatePercent   float64 `json:"error_rate_percent"`
	ResponseTimeMS     int64   `json:"response_time_ms"`
	MemoryBytes        uint64  `json:"memory_bytes"`
	BudgetUsagePercent float64 `json:"budget_usage_percent"`
}

// MonitoringConfig is the process-wide monitoring configuration. It is
// runtime-mutable through UpdateConfig; changing an interval restarts the
// affected timers.
type MonitoringConfig struct {
	HealthCheckInterval Duration           `json:"health_check_interval"`
	AlertCheckInterval  Duration           `json:"alert_check_interval"`
	TrendUpdateInterval Duration           `json:"trend_update_interval"`
	TrendDataPoints     int                `json:"trend_data_points"`
	AutoRestart         bool               `json:"auto_restart"`
	CriticalThresholds  CriticalThresholds `json:"critical_thresholds"`
}

// DefaultMonitoringConfig returns the configuration used when a field is
// absent from the config file.
func DefaultMonitoringConfig() MonitoringConfig {
	return MonitoringConfig{
		HealthCheckInterval: Duration(30 * time.Second),
		AlertCheckInterval:  Duration(60 * time.Second),
		TrendUpdateInterval: Duration(60 * time.Second),
		TrendDataPoints:     defaultTrendDataPoints,
		AutoRestart:         true,
		CriticalThresholds: CriticalThresholds{
			ErrorRatePercent:   10,
			ResponseTimeMS:     5000,
			MemoryBytes:        1 << 30, // 1 GiB
			BudgetUsagePercent: 95,
		},
	}
}

// ApplyDefaults fills absent (zero-valued) fields from
// DefaultMonitoringConfig while leaving explicitly configured values alone.
// A fully zero config gets the complete defaults. CriticalThresholds are
// defaulted only as a whole block: a zero threshold inside a configured
// block means the check is disabled, not absent.
func (c *MonitoringConfig) ApplyDefaults() {
	if *c == (MonitoringConfig{}) {
		*c = DefaultMonitoringConfig()
		return
	}

	def := DefaultMonitoringConfig()

	if c.HealthCheckInterval == 0 {
		c.HealthCheckInterval = def.HealthCheckInterval
	}

	if c.AlertCheckInterval == 0 {
		c.AlertCheckInterval = def.AlertCheckInterval
	}

	if c.TrendUpdateInterval == 0 {
		c.TrendUpdateInterval = def.TrendUpdateInterval
	}

	if c.TrendDataPoints == 0 {
		c.TrendDataPoints = def.TrendDataPoints
	}

	if c.CriticalThresholds == (CriticalThresholds{}) {
		c.CriticalThresholds = def.CriticalThresholds
	}
}

// Validate implements config.Validator. Non-positive intervals are rejected
// rather than silently accepted so a bad update cannot stall the timers.
func (c *MonitoringConfig) Validate() error {
	if c.HealthCheckInterval <= 0 || c.AlertCheckInterval <= 0 || c.TrendUpdateInterval <= 0 {
		return ErrNonPositiveInterval
	}

	if c.TrendDataPoints < 1 {
		return ErrInvalidTrendPoints
	}

	return nil
}

// MonitoringConfigUpdate is a partial configuration merged into the current
// config by UpdateConfig. Nil fields are left unchanged.
type MonitoringConfigUpdate struct {
	HealthCheckInterval *Duration           `json:"health_check_interval,omitempty"`
	AlertCheckInterval  *Duration           `json:"alert_check_interval,omitempty"`
	TrendUpdateInterval *Duration           `json:"trend_update_interval,omitempty"`
	TrendDataPoints     *int                `json:"trend_data_points,omitempty"`
	AutoRestart         *bool               `json:"auto_restart,omitempty"`
	CriticalThresholds  *CriticalThresholds `json:"critical_thresholds,omitempty"`
}
