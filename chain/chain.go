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

package chain

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/critterworks/critterchain/event"
	"github.com/critterworks/critterchain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ChainConfig struct {
	PromRegistry prometheus.Registerer
	Logger       *slog.Logger
	EventBus     *event.EventBus
}

// Chain is the in-memory hash-linked block store. Every appended block
// must link to the current tip by hash; the genesis block links to the
// all-zero sentinel
type Chain struct {
	mutex    sync.RWMutex
	eventBus *event.EventBus
	logger   *slog.Logger
	blocks   []types.Block
	tipHash  types.Hash
	metrics  struct {
		chainHeight prometheus.Gauge
	}
}

func NewChain(config ChainConfig) *Chain {
	c := &Chain{
		eventBus: config.EventBus,
		logger:   config.Logger,
		tipHash:  types.GenesisPrevHash,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	promautoFactory := promauto.With(config.PromRegistry)
	c.metrics.chainHeight = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "critterchain_chain_height",
		Help: "current number of blocks in the chain",
	})
	return c
}

// Height returns the number of blocks in the chain. This is also the
// number the next block must carry
func (c *Chain) Height() uint64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return uint64(len(c.blocks))
}

// TipHash returns the hash of the current tip block, or the genesis
// sentinel when the chain is empty
func (c *Chain) TipHash() types.Hash {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.tipHash
}

// Tip returns the current tip block, if any
func (c *Chain) Tip() (types.Block, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if len(c.blocks) == 0 {
		return types.Block{}, false
	}
	return c.blocks[len(c.blocks)-1], true
}

// BlockByNumber returns the block with the given number
func (c *Chain) BlockByNumber(number uint64) (types.Block, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if number >= uint64(len(c.blocks)) {
		return types.Block{}, ErrBlockNotFound
	}
	return c.blocks[number], nil
}

// Blocks returns a snapshot copy of the full chain
func (c *Chain) Blocks() []types.Block {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	ret := make([]types.Block, len(c.blocks))
	copy(ret, c.blocks)
	return ret
}

// AddBlock appends a block to the chain. The block must carry the next
// block number and link to the current tip hash; otherwise a typed
// error is returned and the chain is unchanged.
//
// A mismatch between the cached tip hash and the recomputed hash of the
// stored tip block means the in-memory chain itself is corrupted. That
// is the one unrecoverable condition, so it escalates to a panic rather
// than an error
func (c *Chain) AddBlock(block types.Block) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	// Verify cached tip linkage before extending the chain
	if len(c.blocks) > 0 {
		tipBlock := c.blocks[len(c.blocks)-1]
		tipHash, err := tipBlock.Hash()
		if err != nil {
			panic(fmt.Sprintf(
				"chain corrupted: cannot hash tip block %d: %v",
				tipBlock.Number,
				err,
			))
		}
		if tipHash != c.tipHash {
			panic(fmt.Sprintf(
				"chain corrupted: tip block %d hash %s does not match cached tip %s",
				tipBlock.Number,
				tipHash,
				c.tipHash,
			))
		}
	}
	if block.Number != uint64(len(c.blocks)) {
		return NewBlockNumberMismatchError(block.Number, uint64(len(c.blocks)))
	}
	blockHash, err := block.Hash()
	if err != nil {
		return fmt.Errorf("hash block %d: %w", block.Number, err)
	}
	if block.PrevHash != c.tipHash {
		return NewBlockNotFitChainTipError(
			blockHash.String(),
			block.PrevHash.String(),
			c.tipHash.String(),
		)
	}
	c.blocks = append(c.blocks, block)
	c.tipHash = blockHash
	c.metrics.chainHeight.Set(float64(len(c.blocks)))
	c.logger.Debug(
		"appended block",
		"component", "chain",
		"block_number", block.Number,
		"block_hash", blockHash.String(),
		"tx_count", len(block.Transactions),
	)
	if c.eventBus != nil {
		c.eventBus.Publish(
			ChainUpdateEventType,
			event.NewEvent(
				ChainUpdateEventType,
				ChainBlockEvent{
					Hash:  blockHash,
					Block: block,
				},
			),
		)
	}
	return nil
}
