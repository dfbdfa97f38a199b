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

package models

import "time"

// TrendPoint is one timestamped sample in a trend series.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Trend series names sampled on every trend-update tick.
const (
	TrendCPU       = "cpu"
	TrendMemory    = "memory"
	TrendRequests  = "requests"
	TrendErrorRate = "error_rate"
	TrendCost      = "cost"
)

// TrendNames lists the series sampled together each tick, in report order.
func TrendNames() []string {
	return []string{TrendCPU, TrendMemory, TrendRequests, TrendErrorRate, TrendCost}
}

// SystemTrends holds the five capacity-bounded time series, oldest first.
type SystemTrends struct {
	CPU       []TrendPoint `json:"cpu"`
	Memory    []TrendPoint `json:"memory"`
	Requests  []TrendPoint `json:"requests"`
	ErrorRate []TrendPoint `json:"error_rate"`
	Cost      []TrendPoint `json:"cost"`
}
