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

// Package api provides the HTTP API server for the monitoring service.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	adhttp "github.com/oharu121/adcraft-ai-sub004/pkg/http"
	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// MonitoringService is the surface of the monitoring core the API exposes.
type MonitoringService interface {
	GetMonitoringDashboard(ctx context.Context) (*models.MonitoringDashboardData, error)
	GetDashboardSummary() models.DashboardSummary
	GetCurrentHealth() *models.SystemHealthStatus
	GetChartData(timeRange time.Duration, metrics []string) ([]models.ChartSeries, error)
	ForceHealthCheck(ctx context.Context) (*models.SystemHealthStatus, error)
	GetConfig() models.MonitoringConfig
	UpdateConfig(ctx context.Context, update models.MonitoringConfigUpdate) error
	ExportMonitoringData(start, end *time.Time) []models.SystemHealthStatus
}

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultRefreshInterval = 30 * time.Second
)

// APIServer serves the monitoring dashboard API over HTTP and WebSocket.
type APIServer struct {
	mu     sync.Mutex
	router *mux.Router
	logger logger.Logger

	monitor MonitoringService

	listenAddr      string
	apiKey          string
	corsOrigins     []string
	refreshInterval time.Duration

	limiter         adhttp.RateLimiter
	securityEvents  adhttp.EventRecorder
	requestRecorder adhttp.RequestRecorder

	httpServer *http.Server

	// lastDashboard is the most recent successful dashboard snapshot,
	// served with a stale marker when a fresh assembly fails.
	lastDashboard *models.MonitoringDashboardData
}

// NewAPIServer creates a new API server instance with the given options.
func NewAPIServer(
	listenAddr string, monitor MonitoringService, log logger.Logger, options ...func(*APIServer),
) *APIServer {
	s := &APIServer{
		router:          mux.NewRouter(),
		logger:          log,
		monitor:         monitor,
		listenAddr:      listenAddr,
		refreshInterval: defaultRefreshInterval,
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	return s
}

// WithAPIKey enables API key authentication on protected routes.
func WithAPIKey(key string) func(*APIServer) {
	return func(server *APIServer) {
		server.apiKey = key
	}
}

// WithCORSOrigins restricts cross-origin access to the given origins.
func WithCORSOrigins(origins []string) func(*APIServer) {
	return func(server *APIServer) {
		server.corsOrigins = origins
	}
}

// WithRateLimiter enforces per-client request limits.
func WithRateLimiter(limiter adhttp.RateLimiter) func(*APIServer) {
	return func(server *APIServer) {
		server.limiter = limiter
	}
}

// WithSecurityEvents wires request-level security events into the monitor.
func WithSecurityEvents(events adhttp.EventRecorder) func(*APIServer) {
	return func(server *APIServer) {
		server.securityEvents = events
	}
}

// WithRequestRecorder wires request latency samples into the performance
// monitor.
func WithRequestRecorder(recorder adhttp.RequestRecorder) func(*APIServer) {
	return func(server *APIServer) {
		server.requestRecorder = recorder
	}
}

// WithRefreshInterval sets the WebSocket push cadence.
func WithRefreshInterval(interval time.Duration) func(*APIServer) {
	return func(server *APIServer) {
		if interval > 0 {
			server.refreshInterval = interval
		}
	}
}

// setupRoutes configures the middleware chain and the HTTP routes.
func (s *APIServer) setupRoutes() {
	s.router.Use(adhttp.CommonMiddleware(s.logger, s.corsOrigins))

	if s.requestRecorder != nil {
		s.router.Use(adhttp.RequestMetricsMiddleware(s.requestRecorder))
	}

	if s.limiter != nil {
		s.router.Use(adhttp.RateLimitMiddleware(s.limiter, s.securityEvents, s.logger))
	}

	protected := s.router.PathPrefix("/api/monitoring").Subrouter()
	protected.Use(adhttp.APIKeyMiddleware(s.apiKey, s.securityEvents, s.logger))

	protected.HandleFunc("/dashboard", s.getDashboard).Methods(http.MethodGet)
	protected.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)
	protected.HandleFunc("/summary", s.getSummary).Methods(http.MethodGet)
	protected.HandleFunc("/export", s.exportData).Methods(http.MethodGet)
	protected.HandleFunc("/charts", s.getCharts).Methods(http.MethodGet)
	protected.HandleFunc("/config", s.getConfig).Methods(http.MethodGet)
	protected.HandleFunc("/config", s.updateConfig).Methods(http.MethodPost)
	protected.HandleFunc("/health/force", s.forceHealthCheck).Methods(http.MethodPost)
	protected.HandleFunc("/ws", s.handleDashboardStream).Methods(http.MethodGet)
}

// Router exposes the configured router, mainly for tests.
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Start begins serving HTTP requests. It implements lifecycle.Service.
func (s *APIServer) Start(_ context.Context) error {
	srv := &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	go func() {
		s.logger.Info().Str("addr", s.listenAddr).Msg("API server listening")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server failed")
		}
	}()

	return nil
}

// Stop gracefully shuts the server down. It implements lifecycle.Service.
func (s *APIServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
