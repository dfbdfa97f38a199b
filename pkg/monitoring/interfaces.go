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
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// Probe checks one downstream dependency. A true result means healthy,
// false means unhealthy, and an error means the check itself broke.
type Probe func(ctx context.Context) (bool, error)

// PerformanceProvider is the performance/metrics collaborator contract.
type PerformanceProvider interface {
	GetPerformanceSummary(window time.Duration) (models.PerformanceSummary, error)
	GetActiveAlerts() ([]models.Alert, error)
}

// BudgetProvider is the cost/budget collaborator contract.
type BudgetProvider interface {
	GetBudgetStatus() (models.BudgetStatus, error)
	GetActiveAlerts() ([]models.Alert, error)
}

// SecurityProvider is the security collaborator contract.
type SecurityProvider interface {
	GetMetrics() models.SecurityMetrics
	GetRecentEvents(limit int) []models.SecurityEvent
	GetActiveAlerts() ([]models.Alert, error)
}

// EventPublisher pushes monitoring events to an external stream. A nil
// publisher disables event publication.
type EventPublisher interface {
	PublishHealthTransition(ctx context.Context, data models.HealthTransitionEventData) error
	PublishCriticalAlerts(ctx context.Context, data models.CriticalAlertEventData) error
}

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}
