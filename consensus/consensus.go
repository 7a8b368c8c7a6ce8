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

// Package consensus implements Proof of Reputation & Stake: a registry
// of staked validators and weighted-random selection of the next block
// producer, where a validator's weight grows with both its stake and
// its reputation.
package consensus

import (
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/critterworks/critterchain/keystore"
	"github.com/critterworks/critterchain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ValidatorEntry is the per-validator registry record
type ValidatorEntry struct {
	Stake      uint64
	Reputation int64
}

// Weight computes the selection weight: stake scaled by reputation,
// clamped to a minimum of zero since reputation may be negative
func (v ValidatorEntry) Weight() float64 {
	weight := float64(v.Stake) * (1 + float64(v.Reputation)/100)
	if weight < 0 {
		return 0
	}
	return weight
}

type ConsensusConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	// Rand is the selection RNG. Injectable so proportionality tests
	// can run against a fixed seed; defaults to a time-seeded source
	Rand *rand.Rand
}

// Consensus holds the validator registry and performs validator
// selection and block assembly
type Consensus struct {
	mutex      sync.RWMutex
	logger     *slog.Logger
	rand       *rand.Rand
	validators map[types.DID]ValidatorEntry
	totalStake uint64
	metrics    struct {
		selections      prometheus.Counter
		blocksAssembled prometheus.Counter
		validatorCount  prometheus.Gauge
	}
}

func NewConsensus(config ConsensusConfig) *Consensus {
	c := &Consensus{
		logger:     config.Logger,
		rand:       config.Rand,
		validators: make(map[types.DID]ValidatorEntry),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}
	promautoFactory := promauto.With(config.PromRegistry)
	c.metrics.selections = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "critterchain_consensus_selections_total",
			Help: "total validator selections performed",
		},
	)
	c.metrics.blocksAssembled = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "critterchain_consensus_blocks_assembled_total",
			Help: "total blocks assembled and signed",
		},
	)
	c.metrics.validatorCount = promautoFactory.NewGauge(
		prometheus.GaugeOpts{
			Name: "critterchain_consensus_validators",
			Help: "current count of registered validators",
		},
	)
	return c
}

// RegisterValidator adds or replaces a validator entry. Replace
// semantics: any prior stake contribution is subtracted from the total
// before the new stake is added, so repeated re-staking cannot drift
// the total
func (c *Consensus) RegisterValidator(
	did types.DID,
	stake uint64,
	reputation int64,
) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if prev, ok := c.validators[did]; ok {
		c.totalStake -= prev.Stake
	}
	c.validators[did] = ValidatorEntry{
		Stake:      stake,
		Reputation: reputation,
	}
	c.totalStake += stake
	c.metrics.validatorCount.Set(float64(len(c.validators)))
	c.logger.Debug(
		"registered validator",
		"component", "consensus",
		"validator", did,
		"stake", stake,
		"reputation", reputation,
		"total_stake", c.totalStake,
	)
}

// UnregisterValidator removes a validator entry and subtracts its last
// known stake from the total
func (c *Consensus) UnregisterValidator(did types.DID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	prev, ok := c.validators[did]
	if !ok {
		return
	}
	c.totalStake -= prev.Stake
	delete(c.validators, did)
	c.metrics.validatorCount.Set(float64(len(c.validators)))
	c.logger.Debug(
		"unregistered validator",
		"component", "consensus",
		"validator", did,
		"total_stake", c.totalStake,
	)
}

// Validator returns the registry entry for a DID
func (c *Consensus) Validator(did types.DID) (ValidatorEntry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	entry, ok := c.validators[did]
	return entry, ok
}

// IsValidator returns true if the DID is currently registered
func (c *Consensus) IsValidator(did types.DID) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	_, ok := c.validators[did]
	return ok
}

// TotalStake returns the sum of all registered validators' stakes
func (c *Consensus) TotalStake() uint64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.totalStake
}

// Weight returns the selection weight for a registered DID
func (c *Consensus) Weight(did types.DID) float64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	entry, ok := c.validators[did]
	if !ok {
		return 0
	}
	return entry.Weight()
}

// SelectValidator picks a validator at random, proportionally to
// weight. Returns false when the registry is empty or every weight is
// zero. Registry iteration is sorted by DID so a fixed RNG seed yields
// a reproducible sequence of selections
func (c *Consensus) SelectValidator() (types.DID, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.metrics.selections.Inc()
	if len(c.validators) == 0 {
		return "", false
	}
	dids := make([]types.DID, 0, len(c.validators))
	for did := range c.validators {
		dids = append(dids, did)
	}
	sort.Slice(dids, func(i, j int) bool {
		return dids[i] < dids[j]
	})
	var totalWeight float64
	for _, did := range dids {
		totalWeight += c.validators[did].Weight()
	}
	if totalWeight <= 0 {
		return "", false
	}
	target := c.rand.Float64() * totalWeight
	var cumulative float64
	for _, did := range dids {
		cumulative += c.validators[did].Weight()
		if target < cumulative {
			return did, true
		}
	}
	// Floating-point accumulation can leave target marginally past the
	// final cumulative weight
	return dids[len(dids)-1], true
}

// CreateBlock assembles and signs a block for the given validator. The
// block number is assigned by the caller as the current chain length;
// consensus fills everything else and signs the header
func (c *Consensus) CreateBlock(
	validatorDID types.DID,
	number uint64,
	prevHash types.Hash,
	transactions []types.Transaction,
	signer keystore.Signer,
) (types.Block, error) {
	block := types.Block{
		Number:       number,
		Timestamp:    time.Now(),
		PrevHash:     prevHash,
		Transactions: transactions,
		ValidatorDID: validatorDID,
		Nonce:        c.rand.Uint64(),
	}
	if err := block.Sign(signer); err != nil {
		return types.Block{}, err
	}
	c.metrics.blocksAssembled.Inc()
	c.logger.Debug(
		"assembled block",
		"component", "consensus",
		"block_number", block.Number,
		"validator", validatorDID,
		"tx_count", len(transactions),
	)
	return block, nil
}

// ValidateBlock returns true only if the block signature verifies and
// the block's validator is currently registered
func (c *Consensus) ValidateBlock(
	block *types.Block,
	verifier keystore.Verifier,
) bool {
	if !c.IsValidator(block.ValidatorDID) {
		return false
	}
	return block.VerifySignature(verifier)
}
