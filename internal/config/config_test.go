// Copyright 2026 Critterworks Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "did:critter:authority", cfg.ValidatorDID)
	assert.Equal(t, uint(12798), cfg.MetricsPort)
	assert.Equal(t, 10_000, cfg.MempoolCapacity)
	assert.Equal(t, uint64(1_000_000), cfg.GenesisAirdrop)
	assert.Equal(t, uint64(100_000), cfg.InitialStake)
	assert.Equal(t, 5*time.Second, cfg.BlockInterval)
}

func TestLoadConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(
		"validatorDid: did:critter:testnode\n" +
			"metricsPort: 9999\n" +
			"blockInterval: 1s\n",
	)
	require.NoError(t, os.WriteFile(configFile, content, 0o600))
	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, "did:critter:testnode", cfg.ValidatorDID)
	assert.Equal(t, uint(9999), cfg.MetricsPort)
	assert.Equal(t, time.Second, cfg.BlockInterval)
	// Unset file keys keep their defaults
	assert.Equal(t, uint64(1_000_000), cfg.GenesisAirdrop)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(
		t,
		os.WriteFile(configFile, []byte("metricsPort: 9999\n"), 0o600),
	)
	t.Setenv("CRITTERCHAIN_METRICS_PORT", "7777")
	t.Setenv("CRITTERCHAIN_VALIDATOR_DID", "did:critter:envnode")
	cfg, err := Load(configFile)
	require.NoError(t, err)
	// Environment wins over the file
	assert.Equal(t, uint(7777), cfg.MetricsPort)
	assert.Equal(t, "did:critter:envnode", cfg.ValidatorDID)
}

func TestConfigContextRoundtrip(t *testing.T) {
	cfg := &Config{ValidatorDID: "did:critter:ctx"}
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}
