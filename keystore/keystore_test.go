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

package keystore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestKeyPairSignVerify(t *testing.T) {
	keyPair, err := GenerateKeyPair()
	require.NoError(t, err)
	message := []byte("test message")
	sig, err := keyPair.Sign(message)
	require.NoError(t, err)
	assert.True(t, keyPair.Verify(message, sig))
	assert.False(t, keyPair.Verify([]byte("other message"), sig))
	assert.False(t, keyPair.Verify(message, []byte("short")))
}

func TestKeyPairFromSeedDeterministic(t *testing.T) {
	keyPair1, err := KeyPairFromSeed(testSeed(0x01))
	require.NoError(t, err)
	keyPair2, err := KeyPairFromSeed(testSeed(0x01))
	require.NoError(t, err)
	assert.True(
		t,
		bytes.Equal(keyPair1.PublicKey(), keyPair2.PublicKey()),
	)
	keyPair3, err := KeyPairFromSeed(testSeed(0x02))
	require.NoError(t, err)
	assert.False(
		t,
		bytes.Equal(keyPair1.PublicKey(), keyPair3.PublicKey()),
	)
}

func TestKeyPairFromSeedBadLength(t *testing.T) {
	_, err := KeyPairFromSeed([]byte("too short"))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestKeyStoreRegisterAndVerify(t *testing.T) {
	ks := NewKeyStore()
	keyPair, err := GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, ks.Register("did:critter:alice", keyPair.PublicKey()))
	assert.True(t, ks.Known("did:critter:alice"))
	verifier, err := ks.Verifier("did:critter:alice")
	require.NoError(t, err)
	message := []byte("payload")
	sig, err := keyPair.Sign(message)
	require.NoError(t, err)
	assert.True(t, verifier.Verify(message, sig))
}

func TestKeyStoreUnknownDID(t *testing.T) {
	ks := NewKeyStore()
	assert.False(t, ks.Known("did:critter:ghost"))
	_, err := ks.Verifier("did:critter:ghost")
	assert.ErrorIs(t, err, ErrUnknownDID)
}

func TestKeyStoreRejectsBadKeyLength(t *testing.T) {
	ks := NewKeyStore()
	err := ks.Register("did:critter:alice", []byte("not a key"))
	assert.Error(t, err)
}

func TestKeyStoreReplaceKey(t *testing.T) {
	ks := NewKeyStore()
	oldPair, err := GenerateKeyPair()
	require.NoError(t, err)
	newPair, err := GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, ks.Register("did:critter:alice", oldPair.PublicKey()))
	require.NoError(t, ks.Register("did:critter:alice", newPair.PublicKey()))
	verifier, err := ks.Verifier("did:critter:alice")
	require.NoError(t, err)
	message := []byte("payload")
	oldSig, err := oldPair.Sign(message)
	require.NoError(t, err)
	newSig, err := newPair.Sign(message)
	require.NoError(t, err)
	assert.False(t, verifier.Verify(message, oldSig))
	assert.True(t, verifier.Verify(message, newSig))
}
