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

// Package http provides shared middleware for the monitoring API.
package http

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oharu121/adcraft-ai-sub004/pkg/logger"
	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
	"github.com/oharu121/adcraft-ai-sub004/pkg/ratelimit"
)

// EventRecorder receives security-relevant request events.
type EventRecorder interface {
	RecordEvent(eventType string, severity models.AlertSeverity, message string, metadata map[string]string)
}

// RequestRecorder receives per-request latency samples.
type RequestRecorder interface {
	RecordRequest(duration time.Duration, failed bool)
}

// RateLimiter decides whether a request may proceed.
type RateLimiter interface {
	CheckRateLimit(identifier, endpoint string) ratelimit.Result
}

// CommonMiddleware applies CORS headers and request logging.
func CommonMiddleware(log logger.Logger, allowedOrigins []string) func(next http.Handler) http.Handler {
	origins := "*"
	if len(allowedOrigins) > 0 {
		origins = strings.Join(allowedOrigins, ", ")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug().
				Str("remote", r.RemoteAddr).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("HTTP request")

			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyMiddleware rejects requests that do not carry the configured key.
// Failed attempts are recorded with the security monitor when one is set.
func APIKeyMiddleware(apiKey string, events EventRecorder, log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			requestKey := r.Header.Get("X-API-Key")
			if requestKey == "" {
				requestKey = r.URL.Query().Get("api_key")
			}

			if requestKey != apiKey {
				log.Warn().
					Str("remote", r.RemoteAddr).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Unauthorized API access attempt")

				if events != nil {
					events.RecordEvent("auth_failure", models.AlertSeverityHigh,
						fmt.Sprintf("invalid API key on %s %s", r.Method, r.URL.Path),
						map[string]string{"remote": r.RemoteAddr, "path": r.URL.Path})
				}

				http.Error(w, "Unauthorized", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware enforces a fixed-window limit per client and endpoint.
func RateLimitMiddleware(
	limiter RateLimiter, events EventRecorder, log logger.Logger,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identifier := clientIdentifier(r)

			result := limiter.CheckRateLimit(identifier, r.URL.Path)
			if !result.Allowed {
				log.Warn().
					Str("remote", identifier).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")

				if events != nil {
					events.RecordEvent("rate_limited", models.AlertSeverityMedium,
						fmt.Sprintf("rate limit exceeded on %s", r.URL.Path),
						map[string]string{"remote": identifier, "path": r.URL.Path})
				}

				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)

				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.RemainingRequests))

			next.ServeHTTP(w, r)
		})
	}
}

// RequestMetricsMiddleware reports request latency and outcome to the
// performance monitor.
func RequestMetricsMiddleware(recorder RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			if recorder != nil {
				recorder.RecordRequest(time.Since(start), sw.status >= http.StatusInternalServerError)
			}
		})
	}
}

func clientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}

	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}

	return host
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack keeps websocket upgrades working behind the metrics wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}

	return h.Hijack()
}
