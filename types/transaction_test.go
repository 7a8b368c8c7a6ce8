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

// mockSigner signs by returning a fixed marker appended to a digest of
// the message, so signatures depend on message content without any
// real crypto
type mockSigner struct {
	marker byte
}

func (s mockSigner) Sign(message []byte) ([]byte, error) {
	digest := HashBytes(message)
	return append(digest.Bytes(), s.marker), nil
}

func (s mockSigner) Verify(message []byte, signature []byte) bool {
	expected, _ := s.Sign(message)
	return string(expected) == string(signature)
}

func testTransaction(t *testing.T) Transaction {
	t.Helper()
	return Transaction{
		ID:        "tx-1",
		Kind:      TxTokenTransfer,
		Timestamp: time.Unix(1700000000, 0),
		SenderDID: "did:critter:alice",
		Payload: map[string]any{
			"to_did": "did:critter:bob",
			"amount": uint64(25),
		},
	}
}

func TestTransactionSignVerifyRoundTrip(t *testing.T) {
	tx := testTransaction(t)
	signer := mockSigner{marker: 0x01}
	require.NoError(t, tx.Sign(signer))
	assert.True(t, tx.VerifySignature(signer))
}

func TestTransactionVerifyWrongKey(t *testing.T) {
	tx := testTransaction(t)
	require.NoError(t, tx.Sign(mockSigner{marker: 0x01}))
	assert.False(t, tx.VerifySignature(mockSigner{marker: 0x02}))
}

func TestTransactionVerifyUnsigned(t *testing.T) {
	tx := testTransaction(t)
	assert.False(t, tx.VerifySignature(mockSigner{marker: 0x01}))
}

func TestTransactionMutationInvalidatesSignature(t *testing.T) {
	signer := mockSigner{marker: 0x01}
	testDefs := []struct {
		name   string
		mutate func(tx *Transaction)
	}{
		{
			name:   "id",
			mutate: func(tx *Transaction) { tx.ID = "tx-2" },
		},
		{
			name:   "kind",
			mutate: func(tx *Transaction) { tx.Kind = TxStake },
		},
		{
			name: "timestamp",
			mutate: func(tx *Transaction) {
				tx.Timestamp = tx.Timestamp.Add(time.Second)
			},
		},
		{
			name:   "sender",
			mutate: func(tx *Transaction) { tx.SenderDID = "did:critter:mallory" },
		},
		{
			name: "payload value",
			mutate: func(tx *Transaction) {
				tx.Payload["amount"] = uint64(9999)
			},
		},
		{
			name: "payload field added",
			mutate: func(tx *Transaction) {
				tx.Payload["extra"] = "x"
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tx := testTransaction(t)
			require.NoError(t, tx.Sign(signer))
			require.True(t, tx.VerifySignature(signer))
			testDef.mutate(&tx)
			assert.False(
				t,
				tx.VerifySignature(signer),
				"mutated transaction should not verify",
			)
		})
	}
}

func TestTransactionSignableBytesDeterministic(t *testing.T) {
	tx1 := testTransaction(t)
	tx2 := testTransaction(t)
	data1, err := tx1.SignableBytes()
	require.NoError(t, err)
	data2, err := tx2.SignableBytes()
	require.NoError(t, err)
	assert.Equal(t, data1, data2)
}

func TestTransactionKindValid(t *testing.T) {
	for _, kind := range TransactionKinds {
		assert.True(t, kind.Valid(), "kind %s", kind)
	}
	assert.False(t, TransactionKind("bogus").Valid())
	assert.False(t, TransactionKind("").Valid())
}

func TestTransactionPayloadAccessors(t *testing.T) {
	tx := testTransaction(t)
	val, err := tx.PayloadString("to_did")
	require.NoError(t, err)
	assert.Equal(t, "did:critter:bob", val)
	amount, err := tx.PayloadUint64("amount")
	require.NoError(t, err)
	assert.Equal(t, uint64(25), amount)
	_, err = tx.PayloadString("missing")
	assert.ErrorIs(t, err, ErrPayloadFieldMissing)
	_, err = tx.PayloadUint64("to_did")
	assert.ErrorIs(t, err, ErrPayloadFieldType)
	tx.Payload["delta"] = int64(-5)
	delta, err := tx.PayloadInt64("delta")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), delta)
	_, err = tx.PayloadUint64("delta")
	assert.ErrorIs(t, err, ErrPayloadFieldType)
}
