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

// Package security records security-relevant events (auth failures,
// rate-limit rejections) and derives security alerts.
package security

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// Well-known event types recorded by the HTTP boundary.
const (
	EventAuthFailure = "auth_failure"
	EventRateLimited = "rate_limited"
)

const (
	maxEvents   = 1000
	alertWindow = time.Hour
	alertSource = "security"
)

// Monitor keeps a bounded in-memory log of security events.
type Monitor struct {
	mu     sync.Mutex
	events []models.SecurityEvent

	totalEvents     int64
	criticalEvents  int64
	authFailures    int64
	blockedRequests int64
	lastEventAt     time.Time

	clock  func() time.Time
	logger logger.Logger
}

// NewMonitor creates a security monitor.
func NewMonitor(log logger.Logger) *Monitor {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Monitor{
		clock:  time.Now,
		logger: log,
	}
}

// RecordEvent appends one security event, evicting the oldest entries once
// the log exceeds its bound.
func (m *Monitor) RecordEvent(eventType string, severity models.AlertSeverity, message string, metadata map[string]string) {
	now := m.clock()

	event := models.SecurityEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Severity:  severity,
		Message:   message,
		Timestamp: now,
		Metadata:  metadata,
	}

	m.mu.Lock()

	m.events = append(m.events, event)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}

	m.totalEvents++
	m.lastEventAt = now

	if severity == models.AlertSeverityCritical {
		m.criticalEvents++
	}

	switch eventType {
	case EventAuthFailure:
		m.authFailures++
	case EventRateLimited:
		m.blockedRequests++
	}

	m.mu.Unlock()

	m.logger.Warn().
		Str("event_type", eventType).
		Str("severity", string(severity)).
		Str("event_id", event.ID).
		Msg(message)
}

// GetMetrics summarizes the event log counters.
func (m *Monitor) GetMetrics() models.SecurityMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.SecurityMetrics{
		TotalEvents:     m.totalEvents,
		CriticalEvents:  m.criticalEvents,
		AuthFailures:    m.authFailures,
		BlockedRequests: m.blockedRequests,
		LastEventAt:     m.lastEventAt,
	}
}

// GetRecentEvents returns up to limit events, newest first.
func (m *Monitor) GetRecentEvents(limit int) []models.SecurityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}

	out := make([]models.SecurityEvent, 0, limit)

	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}

	return out
}

// GetActiveAlerts converts unresolved critical and high severity events
// from the last hour into alerts.
func (m *Monitor) GetActiveAlerts() ([]models.Alert, error) {
	cutoff := m.clock().Add(-alertWindow)

	m.mu.Lock()
	defer m.mu.Unlock()

	alerts := []models.Alert{}

	for i := range m.events {
		event := &m.events[i]

		if event.Resolved || event.Timestamp.Before(cutoff) {
			continue
		}

		if event.Severity != models.AlertSeverityCritical && event.Severity != models.AlertSeverityHigh {
			continue
		}

		alerts = append(alerts, models.Alert{
			ID:        event.ID,
			Type:      event.Type,
			Severity:  event.Severity,
			Message:   event.Message,
			Timestamp: event.Timestamp,
			Source:    alertSource,
		})
	}

	return alerts, nil
}

// ResolveEvent marks an event as resolved so it stops producing alerts.
func (m *Monitor) ResolveEvent(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].Resolved = true
			return true
		}
	}

	return false
}
