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

// Package keystore provides the signing capability used by the ledger.
// Signing and verification are interfaces so the concrete algorithm is
// injected; the default implementation is ed25519.
package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/critterworks/critterchain/types"
)

var (
	ErrUnknownDID  = errors.New("no key registered for DID")
	ErrInvalidSeed = errors.New("seed must be 32 bytes")
)

// Signer produces a signature over a message
type Signer interface {
	Sign(message []byte) ([]byte, error)
}

// Verifier checks a signature over a message
type Verifier interface {
	Verify(message []byte, signature []byte) bool
}

// KeyPair is an ed25519 signing key with its verifier half
type KeyPair struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// GenerateKeyPair creates a new random key pair
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// KeyPairFromSeed derives a key pair deterministically from a 32-byte
// seed. Used by tests that need reproducible keys
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("unexpected public key type")
	}
	return &KeyPair{priv: priv, pub: pub}, nil
}

// Sign signs a message with the private key
func (k *KeyPair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, message), nil
}

// Verify checks a signature with the public key
func (k *KeyPair) Verify(message []byte, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(k.pub, message, signature)
}

// PublicKey returns a copy of the public key bytes
func (k *KeyPair) PublicKey() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

// publicVerifier verifies against a bare public key
type publicVerifier struct {
	pub ed25519.PublicKey
}

func (v publicVerifier) Verify(message []byte, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(v.pub, message, signature)
}

// KeyStore maps participant DIDs to their registered public keys. The
// ledger resolves a transaction's claimed sender through the keystore
// to obtain the verifier for signature checks
type KeyStore struct {
	mu   sync.RWMutex
	keys map[types.DID]ed25519.PublicKey
}

// NewKeyStore creates an empty keystore
func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[types.DID]ed25519.PublicKey),
	}
}

// Register records the public key for a DID, replacing any prior key
func (ks *KeyStore) Register(did types.DID, publicKey []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf(
			"public key for %s must be %d bytes, got %d",
			did,
			ed25519.PublicKeySize,
			len(publicKey),
		)
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()
	key := make(ed25519.PublicKey, len(publicKey))
	copy(key, publicKey)
	ks.keys[did] = key
	return nil
}

// Verifier returns the verifier for a registered DID
func (ks *KeyStore) Verifier(did types.DID) (Verifier, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	pub, ok := ks.keys[did]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDID, did)
	}
	return publicVerifier{pub: pub}, nil
}

// Known returns true if a key is registered for the DID
func (ks *KeyStore) Known(did types.DID) bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	_, ok := ks.keys[did]
	return ok
}
