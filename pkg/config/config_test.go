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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`

	validateErr error
}

func (c *testConfig) Validate() error {
	return c.validateErr
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate_FromFile(t *testing.T) {
	path := writeTempConfig(t, `{"name": "monitor", "limit": 5}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)

	require.NoError(t, err)
	assert.Equal(t, "monitor", cfg.Name)
	assert.Equal(t, 5, cfg.Limit)
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "/nonexistent/config.json", &cfg)

	require.ErrorIs(t, err, errConfigLoad)
}

func TestLoadAndValidate_MalformedJSON(t *testing.T) {
	path := writeTempConfig(t, `{"name": `)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)

	require.ErrorIs(t, err, errConfigLoad)
}

func TestLoadAndValidate_ValidationFailurePropagates(t *testing.T) {
	path := writeTempConfig(t, `{"name": "monitor"}`)

	wantErr := errors.New("bad config")
	cfg := testConfig{validateErr: wantErr}

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)

	require.ErrorIs(t, err, wantErr)
}

func TestLoadAndValidate_FromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("ADCRAFT_CONFIG_JSON", `{"name": "env-monitor", "limit": 9}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "ignored.json", &cfg)

	require.NoError(t, err)
	assert.Equal(t, "env-monitor", cfg.Name)
	assert.Equal(t, 9, cfg.Limit)
}

func TestLoadAndValidate_EnvSourceWithoutPayload(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("ADCRAFT_CONFIG_JSON", "")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "ignored.json", &cfg)

	require.ErrorIs(t, err, errConfigLoad)
}

func TestLoadAndValidate_RejectsUnknownSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "consul")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "ignored.json", &cfg)

	require.ErrorIs(t, err, errInvalidConfigSource)
}

func TestValidateConfig_NonValidatorPassesThrough(t *testing.T) {
	cfg := struct{ Name string }{Name: "plain"}

	assert.NoError(t, ValidateConfig(&cfg))
}
