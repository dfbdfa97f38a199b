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
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/api"
	"github.com/oharu121/adcraft-ai-sub004/pkg/config"
	"github.com/oharu121/adcraft-ai-sub004/pkg/cost"
	"github.com/oharu121/adcraft-ai-sub004/pkg/lifecycle"
	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/monitoring"
	"github.com/oharu121/adcraft-ai-sub004/pkg/natsutil"
	"github.com/oharu121/adcraft-ai-sub004/pkg/perf"
	"github.com/oharu121/adcraft-ai-sub004/pkg/ratelimit"
	"github.com/oharu121/adcraft-ai-sub004/pkg/security"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

const probeTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/adcraft/monitor.json", "Path to monitor config file")
	flag.Parse()

	ctx := context.Background()

	cfgLoader := config.NewConfig(nil)

	var cfg Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	monitorLogger, err := lifecycle.CreateComponentLogger(ctx, "monitor", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	budgetTracker, err := cost.NewTracker(
		cfg.Budget.Total, cfg.Monitoring.CriticalThresholds.BudgetUsagePercent, monitorLogger)
	if err != nil {
		return fmt.Errorf("failed to create budget tracker: %w", err)
	}

	perfMonitor := perf.NewMonitor(cfg.Monitoring.CriticalThresholds, monitorLogger)
	securityMonitor := security.NewMonitor(monitorLogger)

	var events monitoring.EventPublisher

	if cfg.NATS.Enabled {
		nc, js, err := natsutil.Connect(cfg.NATS.URL, "adcraft-monitor")
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Close()

		events = natsutil.NewEventPublisher(js, cfg.NATS.Stream, monitorLogger)
	}

	monitorService := monitoring.New(monitoring.Options{
		Config:   cfg.Monitoring,
		Probes:   buildProbes(cfg.Dependencies),
		Perf:     perfMonitor,
		Budget:   budgetTracker,
		Security: securityMonitor,
		Events:   events,
		Logger:   monitorLogger,
	})

	apiOptions := []func(*api.APIServer){
		api.WithAPIKey(cfg.APIKey),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithSecurityEvents(securityMonitor),
		api.WithRequestRecorder(perfMonitor),
		api.WithRefreshInterval(cfg.RefreshInterval.Std()),
	}

	services := []lifecycle.Service{monitorService}

	if cfg.RateLimit.Limit > 0 {
		limiter := ratelimit.NewLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window.Std(), monitorLogger)
		apiOptions = append(apiOptions, api.WithRateLimiter(limiter))
		services = append(services, limiter)
	}

	apiServer := api.NewAPIServer(cfg.ListenAddr, monitorService, monitorLogger, apiOptions...)
	services = append(services, apiServer)

	return lifecycle.Run(ctx, monitorLogger, services...)
}

// buildProbes turns the configured dependency map into HTTP health probes,
// ordered by name so health payloads list services deterministically.
func buildProbes(deps map[string]string) []monitoring.ServiceProbe {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}

	sort.Strings(names)

	client := &http.Client{Timeout: probeTimeout}

	probes := make([]monitoring.ServiceProbe, 0, len(names))
	for _, name := range names {
		probes = append(probes, monitoring.ServiceProbe{
			Name:  name,
			Probe: monitoring.NewHTTPProbe(client, deps[name]),
		})
	}

	return probes
}
