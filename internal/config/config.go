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
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "critterchain.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	ValidatorDID    string `yaml:"validatorDid"    split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"     split_words:"true"`
	MempoolCapacity int    `yaml:"mempoolCapacity" split_words:"true"`
	// GenesisAirdrop is the balance credited to the validator identity
	// at startup so it can stake its way into the registry
	GenesisAirdrop uint64 `yaml:"genesisAirdrop"  split_words:"true"`
	InitialStake   uint64 `yaml:"initialStake"    split_words:"true"`
	// BlockInterval is how often the node attempts block production
	BlockInterval time.Duration `yaml:"blockInterval" split_words:"true"`
}

// Load reads the optional YAML config file and applies environment
// variable overrides on top
func Load(configFile string) (*Config, error) {
	cfg := &Config{
		ValidatorDID:    "did:critter:authority",
		MetricsPort:     12798,
		MempoolCapacity: 10_000,
		GenesisAirdrop:  1_000_000,
		InitialStake:    100_000,
		BlockInterval:   5 * time.Second,
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process("critterchain", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	return cfg, nil
}
