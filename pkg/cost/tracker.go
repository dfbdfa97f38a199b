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

// Package cost tracks spend against a configured budget and raises budget
// alerts for the monitoring core.
package cost

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

var (
	ErrNegativeSpend = errors.New("spend amount must not be negative")
	ErrInvalidBudget = errors.New("total budget must be positive")
)

const (
	alertSource          = "cost"
	warningUsagePercent  = 80
	defaultCriticalUsage = 95
)

// Tracker accumulates spend for the current billing window.
type Tracker struct {
	mu                   sync.Mutex
	totalBudget          float64
	currentSpend         float64
	criticalUsagePercent float64
	updatedAt            time.Time
	clock                func() time.Time
	logger               logger.Logger
}

// NewTracker creates a cost tracker for the given total budget.
func NewTracker(totalBudget, criticalUsagePercent float64, log logger.Logger) (*Tracker, error) {
	if totalBudget <= 0 {
		return nil, ErrInvalidBudget
	}

	if criticalUsagePercent <= 0 {
		criticalUsagePercent = defaultCriticalUsage
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Tracker{
		totalBudget:          totalBudget,
		criticalUsagePercent: criticalUsagePercent,
		clock:                time.Now,
		logger:               log,
	}, nil
}

// RecordSpend adds the cost of one operation to the running total.
func (t *Tracker) RecordSpend(amount float64, operation string) error {
	if amount < 0 {
		return ErrNegativeSpend
	}

	t.mu.Lock()
	t.currentSpend += amount
	t.updatedAt = t.clock()
	spend := t.currentSpend
	t.mu.Unlock()

	t.logger.Debug().
		Float64("amount", amount).
		Float64("total_spend", spend).
		Str("operation", operation).
		Msg("Recorded spend")

	return nil
}

// GetBudgetStatus reports spend against the configured budget.
func (t *Tracker) GetBudgetStatus() (models.BudgetStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := models.BudgetStatus{
		TotalBudget:     t.totalBudget,
		CurrentSpend:    t.currentSpend,
		RemainingBudget: t.totalBudget - t.currentSpend,
		PercentageUsed:  t.currentSpend / t.totalBudget * 100,
		UpdatedAt:       t.updatedAt,
	}

	return status, nil
}

// GetActiveAlerts raises a budget alert at the warning level from 80% usage
// and critical at the configured critical usage percentage.
func (t *Tracker) GetActiveAlerts() ([]models.Alert, error) {
	status, err := t.GetBudgetStatus()
	if err != nil {
		return nil, err
	}

	alerts := []models.Alert{}

	if status.PercentageUsed < warningUsagePercent {
		return alerts, nil
	}

	severity := models.AlertSeverityMedium
	if status.PercentageUsed >= t.criticalUsagePercent {
		severity = models.AlertSeverityCritical
	}

	alerts = append(alerts, models.Alert{
		ID:        uuid.New().String(),
		Type:      "budget_usage",
		Severity:  severity,
		Message:   fmt.Sprintf("budget usage at %.1f%% (%.2f of %.2f)", status.PercentageUsed, status.CurrentSpend, status.TotalBudget),
		Timestamp: t.clock(),
		Source:    alertSource,
	})

	return alerts, nil
}
