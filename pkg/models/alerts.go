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

// AlertSeverity classifies an alert for counting and escalation.
type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "critical"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityLow      AlertSeverity = "low"
)

// Alert is a single alert record produced by one of the alert sources
// (security monitor, performance monitor, cost tracker). Alerts are not
// deduplicated across sources.
type Alert struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Source    string        `json:"source"`
}

// AlertSummary is derived on every dashboard snapshot request and never
// persisted: per-severity counts plus the 10 most recent alerts across
// all sources, newest first.
type AlertSummary struct {
	Critical int     `json:"critical"`
	High     int     `json:"high"`
	Medium   int     `json:"medium"`
	Low      int     `json:"low"`
	Recent   []Alert `json:"recent"`
}

// Total returns the number of alerts across all severities.
func (s AlertSummary) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}
