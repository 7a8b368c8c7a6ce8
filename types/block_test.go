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

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlock(t *testing.T, txIds ...string) Block {
	t.Helper()
	txs := make([]Transaction, len(txIds))
	for i, txId := range txIds {
		txs[i] = Transaction{ID: txId}
	}
	return Block{
		Number:       1,
		Timestamp:    time.Unix(1700000000, 0),
		PrevHash:     HashBytes([]byte("prev")),
		Transactions: txs,
		ValidatorDID: "did:critter:validator",
		Nonce:        42,
	}
}

func TestMerkleRootOrderSensitive(t *testing.T) {
	blockA := testBlock(t, "tx-1", "tx-2", "tx-3")
	blockB := testBlock(t, "tx-2", "tx-1", "tx-3")
	assert.NotEqual(t, blockA.MerkleRoot(), blockB.MerkleRoot())
}

func TestMerkleRootMembershipSensitive(t *testing.T) {
	blockA := testBlock(t, "tx-1", "tx-2")
	blockB := testBlock(t, "tx-1", "tx-2", "tx-3")
	blockC := testBlock(t, "tx-1")
	assert.NotEqual(t, blockA.MerkleRoot(), blockB.MerkleRoot())
	assert.NotEqual(t, blockA.MerkleRoot(), blockC.MerkleRoot())
}

func TestMerkleRootEmpty(t *testing.T) {
	block := testBlock(t)
	assert.Equal(t, HashEmpty(), block.MerkleRoot())
}

func TestBlockHashPureFunction(t *testing.T) {
	block := testBlock(t, "tx-1")
	hash1, err := block.Hash()
	require.NoError(t, err)
	hash2, err := block.Hash()
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
	// Changing any header input changes the hash
	block.Nonce++
	hash3, err := block.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash3)
}

func TestBlockHashCoversTransactions(t *testing.T) {
	blockA := testBlock(t, "tx-1")
	blockB := testBlock(t, "tx-2")
	hashA, err := blockA.Hash()
	require.NoError(t, err)
	hashB, err := blockB.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashB)
}

func TestBlockSignVerify(t *testing.T) {
	signer := mockSigner{marker: 0x01}
	block := testBlock(t, "tx-1")
	require.NoError(t, block.Sign(signer))
	assert.True(t, block.VerifySignature(signer))
	assert.False(t, block.VerifySignature(mockSigner{marker: 0x02}))
	// Mutating a signed field invalidates the signature
	block.ValidatorDID = "did:critter:other"
	assert.False(t, block.VerifySignature(signer))
}

func TestGenesisPrevHashSentinel(t *testing.T) {
	assert.True(t, GenesisPrevHash.IsEmpty())
	assert.Equal(t, HashEmpty(), GenesisPrevHash)
}
