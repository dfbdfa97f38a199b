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
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

// ServiceProbe pairs a stable dependency name with its health probe.
type ServiceProbe struct {
	Name  string
	Probe Probe
}

// checkService runs one dependency probe and converts the outcome plus
// elapsed time into a normalized health record. The record is recreated on
// every tick; previous values are simply replaced.
func (s *Service) checkService(ctx context.Context, name string, probe Probe) models.ServiceHealthCheck {
	start := s.clock.Now()

	healthy, err := runProbe(ctx, probe)

	elapsed := s.clock.Now().Sub(start).Milliseconds()

	check := models.ServiceHealthCheck{
		Name:           name,
		ResponseTimeMS: elapsed,
		LastCheck:      s.clock.Now(),
		Details: models.HealthCheckDetails{
			Available: healthy && err == nil,
			LatencyMS: elapsed,
		},
		Issues: []string{},
	}

	switch {
	case err != nil:
		check.Status = models.HealthStateCritical
		check.Details.ErrorRate = 100
		check.Issues = []string{fmt.Sprintf("%s health check error: %s", name, err.Error())}
	case !healthy:
		check.Status = models.HealthStateUnhealthy
		check.Details.ErrorRate = 100
		check.Issues = []string{fmt.Sprintf("%s health check failed", name)}
	default:
		check.Status = models.HealthStateHealthy
	}

	return check
}

// runProbe invokes the probe with panic isolation so a misbehaving probe
// cannot take down the health-check tick.
func runProbe(ctx context.Context, probe Probe) (healthy bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			healthy = false
			err = fmt.Errorf("probe panic: %v", r)
		}
	}()

	return probe(ctx)
}

// checkAllServices issues every dependency probe concurrently and joins on
// all of them settling. One failing or slow dependency never blocks the
// records of the others; each probe is bounded by the health-check interval.
func (s *Service) checkAllServices(ctx context.Context) []models.ServiceHealthCheck {
	s.mu.RLock()
	probes := s.probes
	timeout := s.config.HealthCheckInterval.Std()
	s.mu.RUnlock()

	results := make([]models.ServiceHealthCheck, len(probes))

	var wg sync.WaitGroup

	for i, sp := range probes {
		wg.Add(1)

		go func(idx int, sp ServiceProbe) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			results[idx] = s.checkService(probeCtx, sp.Name, sp.Probe)
		}(i, sp)
	}

	wg.Wait()

	return results
}

// NewHTTPProbe returns a Probe that considers the dependency healthy when a
// GET against url answers with a 2xx status.
func NewHTTPProbe(client *http.Client, url string) Probe {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return false, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return false, err
		}

		defer func() { _ = resp.Body.Close() }()

		return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
	}
}
