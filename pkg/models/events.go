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

// CloudEvent is a CloudEvents 1.0 envelope published to the events stream.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// HealthTransitionEventData is the payload for system health state changes.
type HealthTransitionEventData struct {
	PreviousState HealthState `json:"previous_state"`
	CurrentState  HealthState `json:"current_state"`
	OverallScore  int         `json:"overall_score"`
	Timestamp     time.Time   `json:"timestamp"`
	Services      int         `json:"services"`
}

// CriticalAlertEventData is the payload published when the alert collector
// sees one or more critical alerts in a polling cycle.
type CriticalAlertEventData struct {
	Alerts    []Alert   `json:"alerts"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
