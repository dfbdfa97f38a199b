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

package main

import (
	"errors"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

var (
	errInvalidBudget    = errors.New("budget total must be positive")
	errInvalidRateLimit = errors.New("rate limit and window must be positive when enabled")
	errMissingNATSURL   = errors.New("nats url is required when nats is enabled")
)

// BudgetConfig configures the cost tracker.
type BudgetConfig struct {
	Total float64 `json:"total"`
}

// RateLimitConfig configures the fixed-window API rate limiter. A zero
// limit disables rate limiting.
type RateLimitConfig struct {
	Limit  int             `json:"limit"`
	Window models.Duration `json:"window"`
}

// NATSConfig configures CloudEvents publishing over JetStream.
type NATSConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Stream  string `json:"stream"`
}

// Config is the monitor binary's configuration file layout.
type Config struct {
	ListenAddr      string                  `json:"listen_addr"`
	APIKey          string                  `json:"api_key"`
	CORSOrigins     []string                `json:"cors_origins"`
	RefreshInterval models.Duration         `json:"refresh_interval"`
	Dependencies    map[string]string       `json:"dependencies"` // service name -> health URL
	Budget          BudgetConfig            `json:"budget"`
	RateLimit       RateLimitConfig         `json:"rate_limit"`
	NATS            NATSConfig              `json:"nats"`
	Monitoring      models.MonitoringConfig `json:"monitoring"`
	Logging         *logger.Config          `json:"logging,omitempty"`
}

// Validate applies defaults for absent fields and rejects unusable values.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8090"
	}

	if c.RefreshInterval <= 0 {
		c.RefreshInterval = models.Duration(30 * time.Second)
	}

	if c.Budget.Total == 0 {
		c.Budget.Total = 100
	}

	if c.Budget.Total < 0 {
		return errInvalidBudget
	}

	if c.RateLimit.Limit < 0 || (c.RateLimit.Limit > 0 && c.RateLimit.Window <= 0) {
		return errInvalidRateLimit
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		return errMissingNATSURL
	}

	if c.NATS.Stream == "" {
		c.NATS.Stream = "events"
	}

	c.Monitoring.ApplyDefaults()

	return c.Monitoring.Validate()
}
