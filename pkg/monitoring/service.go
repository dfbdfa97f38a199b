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

// Package monitoring implements the AdCraft monitoring aggregation service:
// concurrent dependency health checks, weighted health scoring, bounded
// trend recording, alert collection, and dashboard snapshot assembly.
//
// The service is a single long-lived instance constructed at process start
// and handed to consumers by reference. Three independent fixed-interval
// ticks (health, alert, trend) run as goroutines; history and trend buffers
// are guarded by mutexes because ticks may overlap.
package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// Service is the monitoring aggregation service.
type Service struct {
	mu     sync.RWMutex
	config models.MonitoringConfig
	probes []ServiceProbe

	perf     PerformanceProvider
	budget   BudgetProvider
	security SecurityProvider
	events   EventPublisher

	clock  Clock
	logger logger.Logger

	startTime time.Time
	running   bool
	done      chan struct{}
	wg        sync.WaitGroup

	currentHealth *models.SystemHealthStatus
	healthHistory []models.SystemHealthStatus
	trends        *trendStore
}

// Options carries the collaborators for New. Events may be nil.
type Options struct {
	Config   models.MonitoringConfig
	Probes   []ServiceProbe
	Perf     PerformanceProvider
	Budget   BudgetProvider
	Security SecurityProvider
	Events   EventPublisher
	Clock    Clock
	Logger   logger.Logger
}

// New creates the monitoring service. A nil clock defaults to the real
// clock; a nil logger defaults to a no-op logger.
func New(opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	cfg := opts.Config
	cfg.ApplyDefaults()

	if cfg.TrendDataPoints < 1 {
		cfg.TrendDataPoints = models.DefaultMonitoringConfig().TrendDataPoints
	}

	return &Service{
		config:    cfg,
		probes:    opts.Probes,
		perf:      opts.Perf,
		budget:    opts.Budget,
		security:  opts.Security,
		events:    opts.Events,
		clock:     clock,
		logger:    log,
		startTime: clock.Now(),
		trends:    newTrendStore(cfg.TrendDataPoints),
	}
}

// Start implements the lifecycle.Service interface. It performs one
// immediate health check so a snapshot exists before the first tick fires,
// then begins the three periodic loops. Calling Start while already running
// is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Monitoring service already running")

		return nil
	}

	s.running = true
	s.done = make(chan struct{})
	cfg := s.config

	s.mu.Unlock()

	s.logger.Info().
		Dur("health_interval", cfg.HealthCheckInterval.Std()).
		Dur("alert_interval", cfg.AlertCheckInterval.Std()).
		Dur("trend_interval", cfg.TrendUpdateInterval.Std()).
		Msg("Starting monitoring service")

	if _, err := s.PerformHealthCheck(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Initial health check failed")
	}

	// The loops outlive the caller's context: Start may be invoked from a
	// request handler whose context is canceled as soon as the response is
	// written. Only Stop ends them.
	base := context.WithoutCancel(ctx)

	s.wg.Add(3)

	go s.runLoop(base, cfg.HealthCheckInterval.Std(), "health", func(ctx context.Context) error {
		_, err := s.PerformHealthCheck(ctx)
		return err
	})
	go s.runLoop(base, cfg.AlertCheckInterval.Std(), "alert", s.collectAlerts)
	go s.runLoop(base, cfg.TrendUpdateInterval.Std(), "trend", s.updateTrends)

	return nil
}

// runLoop drives one periodic task until Stop closes the done channel. Tick
// errors are logged at the tick boundary and never escape the loop.
func (s *Service) runLoop(ctx context.Context, interval time.Duration, name string, tick func(context.Context) error) {
	defer s.wg.Done()

	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	for {
		select {
		case <-done:
			return
		case <-ticker.Chan():
			if err := tick(ctx); err != nil {
				s.logger.Error().Err(err).
					Str("operation", name).
					Msg("Monitoring tick failed")
			}
		}
	}
}

// Stop implements the lifecycle.Service interface. Future ticks are
// canceled; in-flight work completes before Stop returns. Stop is
// idempotent.
func (s *Service) Stop(_ context.Context) error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		return nil
	}

	s.running = false
	close(s.done)

	s.mu.Unlock()

	s.wg.Wait()

	s.logger.Info().Msg("Monitoring service stopped")

	return nil
}

// PerformHealthCheck probes every dependency concurrently, aggregates the
// results, and appends the snapshot to the bounded history.
func (s *Service) PerformHealthCheck(ctx context.Context) (*models.SystemHealthStatus, error) {
	services := s.checkAllServices(ctx)

	state, score := aggregate(services)
	criticalIssues, warnings := classifyIssues(services)
	warnings = append(warnings, s.currentEnvironmentWarnings()...)

	now := s.clock.Now()

	status := models.SystemHealthStatus{
		Status:         state,
		Timestamp:      now,
		Uptime:         models.Duration(now.Sub(s.startTime)),
		Services:       services,
		OverallScore:   score,
		CriticalIssues: criticalIssues,
		Warnings:       warnings,
	}

	s.mu.Lock()

	var previous models.HealthState
	if s.currentHealth != nil {
		previous = s.currentHealth.Status
	}

	s.currentHealth = &status

	s.healthHistory = append(s.healthHistory, status)
	if len(s.healthHistory) > s.config.TrendDataPoints {
		s.healthHistory = s.healthHistory[len(s.healthHistory)-s.config.TrendDataPoints:]
	}

	s.mu.Unlock()

	s.logger.Info().
		Str("status", string(state)).
		Int("score", score).
		Int("services", len(services)).
		Msg("Health check completed")

	if previous != "" && previous != state {
		s.publishHealthTransition(ctx, previous, status)
	}

	return &status, nil
}

// ForceHealthCheck runs an ad hoc health check outside the regular cadence.
func (s *Service) ForceHealthCheck(ctx context.Context) (*models.SystemHealthStatus, error) {
	s.logger.Info().Msg("Forced health check requested")

	return s.PerformHealthCheck(ctx)
}

// GetCurrentHealth returns a copy of the last known-good health status, or
// nil if no check has ever completed.
func (s *Service) GetCurrentHealth() *models.SystemHealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentHealth == nil {
		return nil
	}

	status := *s.currentHealth

	return &status
}

// GetSystemStatus returns the cached overall state and score. Before the
// first completed health check it reports critical with a zero score.
func (s *Service) GetSystemStatus() (models.HealthState, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentHealth == nil {
		return models.HealthStateCritical, 0
	}

	return s.currentHealth.Status, s.currentHealth.OverallScore
}

// GetConfig returns a copy of the current configuration.
func (s *Service) GetConfig() models.MonitoringConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// UpdateConfig merges a partial update into the current configuration after
// validating the result. If a tick interval changed while the service is
// running, the timers are restarted with the new cadence.
func (s *Service) UpdateConfig(ctx context.Context, update models.MonitoringConfigUpdate) error {
	s.mu.Lock()

	merged := s.config

	if update.HealthCheckInterval != nil {
		merged.HealthCheckInterval = *update.HealthCheckInterval
	}

	if update.AlertCheckInterval != nil {
		merged.AlertCheckInterval = *update.AlertCheckInterval
	}

	if update.TrendUpdateInterval != nil {
		merged.TrendUpdateInterval = *update.TrendUpdateInterval
	}

	if update.TrendDataPoints != nil {
		merged.TrendDataPoints = *update.TrendDataPoints
	}

	if update.AutoRestart != nil {
		merged.AutoRestart = *update.AutoRestart
	}

	if update.CriticalThresholds != nil {
		merged.CriticalThresholds = *update.CriticalThresholds
	}

	if err := merged.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}

	intervalsChanged := merged.HealthCheckInterval != s.config.HealthCheckInterval ||
		merged.AlertCheckInterval != s.config.AlertCheckInterval ||
		merged.TrendUpdateInterval != s.config.TrendUpdateInterval
	capacityChanged := merged.TrendDataPoints != s.config.TrendDataPoints

	s.config = merged
	running := s.running

	if capacityChanged && len(s.healthHistory) > merged.TrendDataPoints {
		s.healthHistory = s.healthHistory[len(s.healthHistory)-merged.TrendDataPoints:]
	}

	s.mu.Unlock()

	if capacityChanged {
		s.trends.setCapacity(merged.TrendDataPoints)
	}

	s.logger.Info().
		Bool("intervals_changed", intervalsChanged).
		Msg("Monitoring configuration updated")

	if intervalsChanged && running {
		if err := s.Stop(ctx); err != nil {
			return err
		}

		return s.Start(ctx)
	}

	return nil
}

// ExportMonitoringData returns retained health-check history entries with
// timestamps within [start, end] inclusive. Nil bounds are open-ended;
// omitting both returns the full retained history.
func (s *Service) ExportMonitoringData(start, end *time.Time) []models.SystemHealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SystemHealthStatus, 0, len(s.healthHistory))

	for i := range s.healthHistory {
		ts := s.healthHistory[i].Timestamp

		if start != nil && ts.Before(*start) {
			continue
		}

		if end != nil && ts.After(*end) {
			continue
		}

		out = append(out, s.healthHistory[i])
	}

	return out
}

// ClearTrends discards all recorded trend samples.
func (s *Service) ClearTrends() {
	s.trends.clear()
	s.logger.Info().Msg("Trend history cleared")
}

// currentEnvironmentWarnings computes threshold warnings from the current
// collaborator metrics. Collaborator failures here degrade to no warnings;
// they never fail the health tick.
func (s *Service) currentEnvironmentWarnings() []string {
	s.mu.RLock()
	thresholds := s.config.CriticalThresholds
	window := s.config.HealthCheckInterval.Std()
	s.mu.RUnlock()

	var perfSummary *models.PerformanceSummary

	if summary, err := s.perf.GetPerformanceSummary(window); err == nil {
		perfSummary = &summary
	} else {
		s.logger.Warn().Err(err).Msg("Skipping performance warnings")
	}

	var budgetStatus *models.BudgetStatus

	if budget, err := s.budget.GetBudgetStatus(); err == nil {
		budgetStatus = &budget
	} else {
		s.logger.Warn().Err(err).Msg("Skipping budget warnings")
	}

	return environmentWarnings(thresholds, perfSummary, budgetStatus)
}

func (s *Service) publishHealthTransition(ctx context.Context, previous models.HealthState, status models.SystemHealthStatus) {
	if s.events == nil {
		return
	}

	data := models.HealthTransitionEventData{
		PreviousState: previous,
		CurrentState:  status.Status,
		OverallScore:  status.OverallScore,
		Timestamp:     status.Timestamp,
		Services:      len(status.Services),
	}

	if err := s.events.PublishHealthTransition(ctx, data); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish health transition event")
	}
}
