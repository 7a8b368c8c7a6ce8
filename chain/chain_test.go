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
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/critterworks/critterchain/event"
	"github.com/critterworks/critterchain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T, eventBus *event.EventBus) *Chain {
	t.Helper()
	return NewChain(ChainConfig{
		PromRegistry: prometheus.NewRegistry(),
		Logger:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		EventBus:     eventBus,
	})
}

// buildBlock creates a block linked to the chain's current tip
func buildBlock(t *testing.T, c *Chain, txIds ...string) types.Block {
	t.Helper()
	txs := make([]types.Transaction, len(txIds))
	for i, txId := range txIds {
		txs[i] = types.Transaction{ID: txId}
	}
	return types.Block{
		Number:       c.Height(),
		Timestamp:    time.Now(),
		PrevHash:     c.TipHash(),
		Transactions: txs,
		ValidatorDID: "did:critter:validator",
		Nonce:        c.Height() + 1,
	}
}

func TestChainStartsAtGenesisSentinel(t *testing.T) {
	c := newTestChain(t, nil)
	assert.Equal(t, uint64(0), c.Height())
	assert.Equal(t, types.GenesisPrevHash, c.TipHash())
	_, ok := c.Tip()
	assert.False(t, ok)
}

func TestChainLinkage(t *testing.T) {
	c := newTestChain(t, nil)
	for i := 0; i < 5; i++ {
		block := buildBlock(t, c, "tx")
		require.NoError(t, c.AddBlock(block), "block %d", i)
	}
	require.Equal(t, uint64(5), c.Height())
	blocks := c.Blocks()
	require.Len(t, blocks, 5)
	// Genesis links to the all-zero sentinel
	assert.Equal(t, types.GenesisPrevHash, blocks[0].PrevHash)
	// Every later block links to its predecessor's hash
	for i := 1; i < len(blocks); i++ {
		prevHash, err := blocks[i-1].Hash()
		require.NoError(t, err)
		assert.Equal(t, prevHash, blocks[i].PrevHash, "block %d", i)
	}
	// Tip hash matches the last block
	tipHash, err := blocks[len(blocks)-1].Hash()
	require.NoError(t, err)
	assert.Equal(t, tipHash, c.TipHash())
}

func TestChainRejectsBadPrevHash(t *testing.T) {
	c := newTestChain(t, nil)
	require.NoError(t, c.AddBlock(buildBlock(t, c, "tx-1")))
	block := buildBlock(t, c, "tx-2")
	block.PrevHash = types.HashBytes([]byte("bogus"))
	err := c.AddBlock(block)
	require.Error(t, err)
	var notFitErr BlockNotFitChainTipError
	assert.ErrorAs(t, err, &notFitErr)
	// Chain unchanged after rejection
	assert.Equal(t, uint64(1), c.Height())
}

func TestChainRejectsBadNumber(t *testing.T) {
	c := newTestChain(t, nil)
	block := buildBlock(t, c, "tx-1")
	block.Number = 5
	err := c.AddBlock(block)
	require.Error(t, err)
	var mismatchErr BlockNumberMismatchError
	assert.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, uint64(0), c.Height())
}

func TestChainBlockByNumber(t *testing.T) {
	c := newTestChain(t, nil)
	require.NoError(t, c.AddBlock(buildBlock(t, c, "tx-1")))
	require.NoError(t, c.AddBlock(buildBlock(t, c, "tx-2")))
	block, err := c.BlockByNumber(1)
	require.NoError(t, err)
	assert.Equal(t, "tx-2", block.Transactions[0].ID)
	_, err = c.BlockByNumber(7)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestChainPublishesUpdateEvent(t *testing.T) {
	eventBus := event.NewEventBus(nil, nil)
	defer eventBus.Stop()
	c := newTestChain(t, eventBus)
	_, evtCh := eventBus.Subscribe(ChainUpdateEventType)
	block := buildBlock(t, c, "tx-1")
	require.NoError(t, c.AddBlock(block))
	select {
	case evt := <-evtCh:
		blockEvt, ok := evt.Data.(ChainBlockEvent)
		require.True(t, ok)
		assert.Equal(t, uint64(0), blockEvt.Block.Number)
		expectedHash, err := block.Hash()
		require.NoError(t, err)
		assert.Equal(t, expectedHash, blockEvt.Hash)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for chain update event")
	}
}

func TestChainCorruptionPanics(t *testing.T) {
	c := newTestChain(t, nil)
	require.NoError(t, c.AddBlock(buildBlock(t, c, "tx-1")))
	// Corrupt the stored tip block behind the chain's back
	c.mutex.Lock()
	c.blocks[0].Nonce = 9999
	c.mutex.Unlock()
	assert.Panics(t, func() {
		_ = c.AddBlock(buildBlock(t, c, "tx-2"))
	})
}
