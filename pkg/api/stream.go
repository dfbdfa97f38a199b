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
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oharu121/adcraft-ai-sub004/pkg/models"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadLimit    = 1024
)

// StreamMessage represents a message sent over the dashboard WebSocket.
type StreamMessage struct {
	Type      string                   `json:"type"` // "summary", "error", "ping"
	Summary   *models.DashboardSummary `json:"summary,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// handleDashboardStream upgrades the connection and pushes the dashboard
// summary on every refresh interval until the client disconnects.
func (s *APIServer) handleDashboardStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.checkWebSocketOrigin(r)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Str("origin", r.Header.Get("Origin")).
			Msg("Failed to upgrade to WebSocket")

		return
	}

	s.logger.Info().
		Str("remote_addr", r.RemoteAddr).
		Msg("Dashboard stream connected")

	defer func() {
		s.logger.Debug().
			Str("remote_addr", r.RemoteAddr).
			Msg("Closing dashboard stream")
		conn.Close()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.handleClientMessages(ctx, conn, cancel)

	if err := s.sendSummary(conn); err != nil {
		return
	}

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sendSummary(conn); err != nil {
				s.logger.Debug().
					Err(err).
					Str("remote_addr", r.RemoteAddr).
					Msg("Dashboard stream write failed")

				return
			}
		}
	}
}

func (s *APIServer) sendSummary(conn *websocket.Conn) error {
	summary := s.monitor.GetDashboardSummary()

	msg := StreamMessage{
		Type:      "summary",
		Summary:   &summary,
		Timestamp: time.Now(),
	}

	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}

	return conn.WriteJSON(msg)
}

// handleClientMessages drains client frames so pings are answered and a
// close frame cancels the push loop.
func (s *APIServer) handleClientMessages(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(wsReadLimit)

	for {
		if ctx.Err() != nil {
			return
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// checkWebSocketOrigin applies the same origin policy as CORS. An empty
// allow list accepts any origin.
func (s *APIServer) checkWebSocketOrigin(r *http.Request) bool {
	if len(s.corsOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range s.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}
