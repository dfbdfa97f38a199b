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

// Package lifecycle manages service startup, shutdown, and logger bootstrap.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Service is anything with a managed lifecycle.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Run starts the given services and blocks until the context is canceled or
// a SIGINT/SIGTERM arrives; services are then stopped in reverse order with
// a bounded shutdown window.
func Run(ctx context.Context, log logger.Logger, services ...Service) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	started := make([]Service, 0, len(services))

	for _, svc := range services {
		if err := svc.Start(ctx); err != nil {
			stopServices(log, started)

			return fmt.Errorf("failed to start service: %w", err)
		}

		started = append(started, svc)
	}

	log.Info().Int("services", len(started)).Msg("All services started")

	<-ctx.Done()

	log.Info().Msg("Shutting down")

	if errs := stopServices(log, started); len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func stopServices(log logger.Logger, services []Service) []error {
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(stopCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping service")
			errs = append(errs, err)
		}
	}

	return errs
}

// CreateComponentLogger creates a logger tagged with a component field.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	base, err := logger.New(ctx, config)
	if err != nil {
		return nil, err
	}

	return logger.WithZerolog(base.WithComponent(component)), nil
}
