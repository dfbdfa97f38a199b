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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
	"github.com/oharu121/adcraft-ai-sub004/pkg/monitoring"
)

// MockMonitoringService is a mock implementation of MonitoringService.
type MockMonitoringService struct {
	mock.Mock
}

func (m *MockMonitoringService) GetMonitoringDashboard(ctx context.Context) (*models.MonitoringDashboardData, error) {
	args := m.Called(ctx)

	if data, ok := args.Get(0).(*models.MonitoringDashboardData); ok {
		return data, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockMonitoringService) GetDashboardSummary() models.DashboardSummary {
	args := m.Called()
	return args.Get(0).(models.DashboardSummary)
}

func (m *MockMonitoringService) GetCurrentHealth() *models.SystemHealthStatus {
	args := m.Called()

	if health, ok := args.Get(0).(*models.SystemHealthStatus); ok {
		return health
	}

	return nil
}

func (m *MockMonitoringService) GetChartData(timeRange time.Duration, metrics []string) ([]models.ChartSeries, error) {
	args := m.Called(timeRange, metrics)

	if series, ok := args.Get(0).([]models.ChartSeries); ok {
		return series, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockMonitoringService) ForceHealthCheck(ctx context.Context) (*models.SystemHealthStatus, error) {
	args := m.Called(ctx)

	if health, ok := args.Get(0).(*models.SystemHealthStatus); ok {
		return health, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockMonitoringService) GetConfig() models.MonitoringConfig {
	args := m.Called()
	return args.Get(0).(models.MonitoringConfig)
}

func (m *MockMonitoringService) UpdateConfig(ctx context.Context, update models.MonitoringConfigUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockMonitoringService) ExportMonitoringData(start, end *time.Time) []models.SystemHealthStatus {
	args := m.Called(start, end)
	return args.Get(0).([]models.SystemHealthStatus)
}

func newTestServer(monitor MonitoringService, options ...func(*APIServer)) *APIServer {
	return NewAPIServer(":0", monitor, logger.NewTestLogger(), options...)
}

func TestGetHealth(t *testing.T) {
	t.Run("serves cached health", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("GetCurrentHealth").Return(&models.SystemHealthStatus{
			Status:       models.HealthStateHealthy,
			OverallScore: 100,
		})

		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/health", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)

		var health models.SystemHealthStatus

		require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
		assert.Equal(t, models.HealthStateHealthy, health.Status)
	})

	t.Run("503 before first check", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("GetCurrentHealth").Return(nil)

		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/health", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestGetDashboard_StaleFallback(t *testing.T) {
	monitor := &MockMonitoringService{}

	good := &models.MonitoringDashboardData{GeneratedAt: time.Now()}

	monitor.On("GetMonitoringDashboard", mock.Anything).Return(good, nil).Once()
	monitor.On("GetMonitoringDashboard", mock.Anything).Return(nil, errors.New("collaborator down"))

	s := newTestServer(monitor)

	// First request succeeds and seeds the fallback snapshot.
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/dashboard", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var fresh models.MonitoringDashboardData

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fresh))
	assert.False(t, fresh.Stale)

	// Second request fails upstream; the cached snapshot is served stale.
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/dashboard", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	var stale models.MonitoringDashboardData

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stale))
	assert.True(t, stale.Stale)
}

func TestGetDashboard_NoFallbackIs503(t *testing.T) {
	monitor := &MockMonitoringService{}
	monitor.On("GetMonitoringDashboard", mock.Anything).Return(nil, errors.New("collaborator down"))

	s := newTestServer(monitor)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/dashboard", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetSummary(t *testing.T) {
	monitor := &MockMonitoringService{}
	monitor.On("GetDashboardSummary").Return(models.DashboardSummary{
		Status:       models.HealthStateDegraded,
		OverallScore: 80,
	})

	s := newTestServer(monitor)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/summary", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.DashboardSummary

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 80, summary.OverallScore)
}

func TestExportData(t *testing.T) {
	t.Run("parses inclusive bounds", func(t *testing.T) {
		start := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
		end := start.Add(24 * time.Hour)

		monitor := &MockMonitoringService{}
		monitor.On("ExportMonitoringData",
			mock.MatchedBy(func(v *time.Time) bool { return v != nil && v.Equal(start) }),
			mock.MatchedBy(func(v *time.Time) bool { return v != nil && v.Equal(end) }),
		).Return([]models.SystemHealthStatus{{OverallScore: 100}})

		s := newTestServer(monitor)

		url := "/api/monitoring/export?start=" + start.Format(time.RFC3339) + "&end=" + end.Format(time.RFC3339)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		monitor.AssertExpectations(t)
	})

	t.Run("missing bounds stay open", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("ExportMonitoringData", (*time.Time)(nil), (*time.Time)(nil)).
			Return([]models.SystemHealthStatus{})

		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/export", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		monitor.AssertExpectations(t)
	})

	t.Run("malformed start is 400", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/export?start=yesterday", http.NoBody))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetCharts(t *testing.T) {
	t.Run("defaults to all metrics over one hour", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("GetChartData", time.Hour, models.TrendNames()).
			Return([]models.ChartSeries{{Metric: models.TrendCPU}}, nil)

		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/charts", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		monitor.AssertExpectations(t)
	})

	t.Run("honors range and metric selection", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("GetChartData", 15*time.Minute, []string{"cpu", "cost"}).
			Return([]models.ChartSeries{}, nil)

		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/charts?range=15m&metrics=cpu,cost", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		monitor.AssertExpectations(t)
	})

	t.Run("unknown metric is 400", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("GetChartData", mock.Anything, mock.Anything).
			Return(nil, monitoring.ErrUnknownMetric)

		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/charts?metrics=disk", http.NoBody))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid range is 400", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		s := newTestServer(monitor)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/charts?range=soon", http.NoBody))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateConfig(t *testing.T) {
	t.Run("applies update and returns config", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("UpdateConfig", mock.Anything, mock.MatchedBy(func(u models.MonitoringConfigUpdate) bool {
			return u.HealthCheckInterval != nil && u.HealthCheckInterval.Std() == 10*time.Second
		})).Return(nil)
		monitor.On("GetConfig").Return(models.DefaultMonitoringConfig())

		s := newTestServer(monitor)

		body := bytes.NewBufferString(`{"health_check_interval": "10s"}`)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitoring/config", body))

		require.Equal(t, http.StatusOK, rec.Code)
		monitor.AssertExpectations(t)
	})

	t.Run("validation failure is 400", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		monitor.On("UpdateConfig", mock.Anything, mock.Anything).Return(models.ErrNonPositiveInterval)

		s := newTestServer(monitor)

		body := bytes.NewBufferString(`{"alert_check_interval": "0s"}`)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitoring/config", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		monitor := &MockMonitoringService{}
		s := newTestServer(monitor)

		body := bytes.NewBufferString(`{`)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitoring/config", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestForceHealthCheck(t *testing.T) {
	monitor := &MockMonitoringService{}
	monitor.On("ForceHealthCheck", mock.Anything).Return(&models.SystemHealthStatus{
		Status: models.HealthStateHealthy,
	}, nil)

	s := newTestServer(monitor)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitoring/health/force", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	monitor.AssertExpectations(t)
}

func TestAPIKeyProtection(t *testing.T) {
	monitor := &MockMonitoringService{}
	monitor.On("GetDashboardSummary").Return(models.DashboardSummary{}).Maybe()

	s := newTestServer(monitor, WithAPIKey("secret"))

	t.Run("missing key is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/summary", http.NoBody))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/monitoring/summary", http.NoBody)
		req.Header.Set("X-API-Key", "wrong")

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("header key is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/monitoring/summary", http.NoBody)
		req.Header.Set("X-API-Key", "secret")

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("query key is accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitoring/summary?api_key=secret", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
