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

// Package natsutil publishes monitoring CloudEvents to NATS JetStream.
package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

const (
	eventSource = "adcraft/monitor"

	healthEventType    = "ai.adcraft.monitor.health"
	healthEventSubject = "events.monitor.health"

	criticalAlertEventType    = "ai.adcraft.monitor.alerts.critical"
	criticalAlertEventSubject = "events.monitor.alerts"
)

// EventPublisher publishes CloudEvents to a NATS JetStream stream.
type EventPublisher struct {
	js     jetstream.JetStream
	stream string
	logger logger.Logger
}

// NewEventPublisher creates a publisher for the specified stream.
func NewEventPublisher(js jetstream.JetStream, streamName string, log logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &EventPublisher{
		js:     js,
		stream: streamName,
		logger: log,
	}
}

// PublishHealthTransition publishes a system health state change event.
func (p *EventPublisher) PublishHealthTransition(ctx context.Context, data models.HealthTransitionEventData) error {
	return p.publish(ctx, healthEventType, healthEventSubject, &data.Timestamp, data)
}

// PublishCriticalAlerts publishes an escalation event for a polling cycle
// that saw one or more critical alerts.
func (p *EventPublisher) PublishCriticalAlerts(ctx context.Context, data models.CriticalAlertEventData) error {
	return p.publish(ctx, criticalAlertEventType, criticalAlertEventSubject, &data.Timestamp, data)
}

func (p *EventPublisher) publish(ctx context.Context, eventType, subject string, ts *time.Time, data interface{}) error {
	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         subject,
		Time:            ts,
		Data:            data,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	ack, err := p.js.Publish(ctx, subject, eventBytes)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("stream", p.stream).
		Str("subject", subject).
		Uint64("sequence", ack.Sequence).
		Msg("Published monitoring event")

	return nil
}
