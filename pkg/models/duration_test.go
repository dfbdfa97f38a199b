package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string form", input: `"30s"`, want: 30 * time.Second},
		{name: "compound string", input: `"1m30s"`, want: 90 * time.Second},
		{name: "number is nanoseconds", input: `30000000000`, want: 30 * time.Second},
		{name: "bad string", input: `"not-a-duration"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration(90 * time.Second)

	out, err := json.Marshal(d)

	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(out))
}

func TestDuration_RoundTripInsideConfig(t *testing.T) {
	cfg := DefaultMonitoringConfig()

	out, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded MonitoringConfig

	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, cfg, decoded)
}

func TestMonitoringConfig_ApplyDefaults(t *testing.T) {
	t.Run("zero config gets full defaults", func(t *testing.T) {
		var cfg MonitoringConfig

		cfg.ApplyDefaults()

		assert.Equal(t, DefaultMonitoringConfig(), cfg)
	})

	t.Run("explicit values survive defaulting of absent fields", func(t *testing.T) {
		cfg := MonitoringConfig{
			HealthCheckInterval: Duration(5 * time.Second),
			CriticalThresholds:  CriticalThresholds{ErrorRatePercent: 25},
		}

		cfg.ApplyDefaults()

		def := DefaultMonitoringConfig()

		assert.Equal(t, Duration(5*time.Second), cfg.HealthCheckInterval)
		assert.Equal(t, def.AlertCheckInterval, cfg.AlertCheckInterval)
		assert.Equal(t, def.TrendUpdateInterval, cfg.TrendUpdateInterval)
		assert.Equal(t, def.TrendDataPoints, cfg.TrendDataPoints)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("configured threshold block is kept verbatim", func(t *testing.T) {
		cfg := MonitoringConfig{
			HealthCheckInterval: Duration(time.Minute),
			CriticalThresholds:  CriticalThresholds{BudgetUsagePercent: 80},
		}

		cfg.ApplyDefaults()

		// Zeroes inside a configured block disable the checks.
		assert.Equal(t, CriticalThresholds{BudgetUsagePercent: 80}, cfg.CriticalThresholds)
	})
}

func TestMonitoringConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := DefaultMonitoringConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero interval rejected", func(t *testing.T) {
		cfg := DefaultMonitoringConfig()
		cfg.AlertCheckInterval = 0

		assert.ErrorIs(t, cfg.Validate(), ErrNonPositiveInterval)
	})

	t.Run("negative interval rejected", func(t *testing.T) {
		cfg := DefaultMonitoringConfig()
		cfg.TrendUpdateInterval = Duration(-time.Second)

		assert.ErrorIs(t, cfg.Validate(), ErrNonPositiveInterval)
	})

	t.Run("trend points below one rejected", func(t *testing.T) {
		cfg := DefaultMonitoringConfig()
		cfg.TrendDataPoints = 0

		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTrendPoints)
	})
}
