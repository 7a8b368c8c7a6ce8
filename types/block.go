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
	"fmt"
	"time"
)

// GenesisPrevHash is the previous-hash sentinel carried by block 0
var GenesisPrevHash = HashEmpty()

// Block is a signed batch of transactions linked to its predecessor by
// hash. MerkleRoot and Hash are pure functions of the other fields and
// are recomputed on demand, never cached
type Block struct {
	Number       uint64
	Timestamp    time.Time
	PrevHash     Hash
	Transactions []Transaction
	ValidatorDID DID
	Signature    []byte
	Nonce        uint64
}

// signableBlock is the canonical signing/hashing view of a block header
type signableBlock struct {
	Number       uint64 `cbor:"1,keyasint"`
	Timestamp    int64  `cbor:"2,keyasint"`
	PrevHash     []byte `cbor:"3,keyasint"`
	MerkleRoot   []byte `cbor:"4,keyasint"`
	ValidatorDID DID    `cbor:"5,keyasint"`
	Nonce        uint64 `cbor:"6,keyasint"`
}

// MerkleRoot folds the ordered transaction id sequence into a single
// digest. The accumulator is sensitive to both membership and order:
// inserting, removing, or reordering any transaction changes the root
func (b *Block) MerkleRoot() Hash {
	root := HashEmpty()
	for _, tx := range b.Transactions {
		root = HashBytes(append(root.Bytes(), []byte(tx.ID)...))
	}
	return root
}

// SignableBytes returns the canonical header encoding covered by both
// the block hash and the validator signature
func (b *Block) SignableBytes() ([]byte, error) {
	root := b.MerkleRoot()
	return marshalSignable(signableBlock{
		Number:       b.Number,
		Timestamp:    b.Timestamp.UnixNano(),
		PrevHash:     b.PrevHash.Bytes(),
		MerkleRoot:   root.Bytes(),
		ValidatorDID: b.ValidatorDID,
		Nonce:        b.Nonce,
	})
}

// Hash computes the block hash over the canonical header encoding
func (b *Block) Hash() (Hash, error) {
	data, err := b.SignableBytes()
	if err != nil {
		return Hash{}, err
	}
	return HashBytes(data), nil
}

// Sign computes and attaches the validator signature over the block
// header
func (b *Block) Sign(signer TxSigner) error {
	data, err := b.SignableBytes()
	if err != nil {
		return fmt.Errorf("encode block %d for signing: %w", b.Number, err)
	}
	sig, err := signer.Sign(data)
	if err != nil {
		return fmt.Errorf("sign block %d: %w", b.Number, err)
	}
	b.Signature = sig
	return nil
}

// VerifySignature checks the attached validator signature against the
// recomputed header encoding
func (b *Block) VerifySignature(verifier TxVerifier) bool {
	if len(b.Signature) == 0 {
		return false
	}
	data, err := b.SignableBytes()
	if err != nil {
		return false
	}
	return verifier.Verify(data, b.Signature)
}
