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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
	"github.com/oharu121/adcraft-ai-sub004/pkg/monitoring"
)

const defaultChartRange = time.Hour

// getDashboard returns the full dashboard payload. When fresh assembly
// fails, the last successful snapshot is served with a stale marker
// instead of an error.
func (s *APIServer) getDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.monitor.GetMonitoringDashboard(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Dashboard assembly failed")

		s.mu.Lock()
		cached := s.lastDashboard
		s.mu.Unlock()

		if cached == nil {
			writeError(w, "Dashboard data unavailable", http.StatusServiceUnavailable)
			return
		}

		stale := *cached
		stale.Stale = true

		s.encodeJSONResponse(w, &stale)

		return
	}

	s.mu.Lock()
	s.lastDashboard = data
	s.mu.Unlock()

	s.encodeJSONResponse(w, data)
}

// getHealth returns the most recent aggregated health status.
func (s *APIServer) getHealth(w http.ResponseWriter, _ *http.Request) {
	health := s.monitor.GetCurrentHealth()
	if health == nil {
		writeError(w, "Health data not yet available", http.StatusServiceUnavailable)
		return
	}

	s.encodeJSONResponse(w, health)
}

// getSummary returns the cheap cached overview. It never fails.
func (s *APIServer) getSummary(w http.ResponseWriter, _ *http.Request) {
	s.encodeJSONResponse(w, s.monitor.GetDashboardSummary())
}

// exportData returns historical health snapshots, optionally bounded by
// RFC3339 start and end query parameters.
func (s *APIServer) exportData(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r.URL.Query())
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	history := s.monitor.ExportMonitoringData(start, end)

	s.encodeJSONResponse(w, map[string]interface{}{
		"history":     history,
		"exported_at": time.Now(),
	})
}

// getCharts returns trend series filtered by metric name and time range.
func (s *APIServer) getCharts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	timeRange := defaultChartRange

	if rangeStr := query.Get("range"); rangeStr != "" {
		d, err := time.ParseDuration(rangeStr)
		if err != nil || d <= 0 {
			writeError(w, fmt.Sprintf("invalid range %q", rangeStr), http.StatusBadRequest)
			return
		}

		timeRange = d
	}

	metrics := models.TrendNames()
	if metricsStr := query.Get("metrics"); metricsStr != "" {
		metrics = strings.Split(metricsStr, ",")
	}

	series, err := s.monitor.GetChartData(timeRange, metrics)
	if err != nil {
		if errors.Is(err, monitoring.ErrUnknownMetric) {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeError(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	s.encodeJSONResponse(w, series)
}

// getConfig returns the active monitoring configuration.
func (s *APIServer) getConfig(w http.ResponseWriter, _ *http.Request) {
	s.encodeJSONResponse(w, s.monitor.GetConfig())
}

// updateConfig applies a partial configuration update and returns the
// resulting configuration.
func (s *APIServer) updateConfig(w http.ResponseWriter, r *http.Request) {
	var update models.MonitoringConfigUpdate

	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.monitor.UpdateConfig(r.Context(), update); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.encodeJSONResponse(w, s.monitor.GetConfig())
}

// forceHealthCheck runs an immediate health check outside the schedule.
func (s *APIServer) forceHealthCheck(w http.ResponseWriter, r *http.Request) {
	status, err := s.monitor.ForceHealthCheck(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Forced health check failed")
		writeError(w, "Health check failed", http.StatusInternalServerError)

		return
	}

	s.encodeJSONResponse(w, status)
}

// parseTimeRange parses optional start and end bounds from query
// parameters. Absent bounds stay nil, leaving that side open.
func parseTimeRange(query url.Values) (start, end *time.Time, err error) {
	if startStr := query.Get("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start time format: %w", err)
		}

		start = &t
	}

	if endStr := query.Get("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end time format: %w", err)
		}

		end = &t
	}

	return start, end, nil
}

func (s *APIServer) encodeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResponse := models.ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
