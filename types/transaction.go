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
	"errors"
	"fmt"
	"time"
)

// TransactionKind is the closed set of transaction kinds the ledger
// understands. Dispatch on kind is exhaustive; an unknown kind is a
// validation failure, never a silent fall-through
type TransactionKind string

const (
	TxMintAsset        TransactionKind = "mint_asset"
	TxEvolveAsset      TransactionKind = "evolve_asset"
	TxTransferAsset    TransactionKind = "transfer_asset"
	TxVoteCast         TransactionKind = "vote_cast"
	TxReputationUpdate TransactionKind = "reputation_update"
	TxTokenTransfer    TransactionKind = "token_transfer"
	TxStake            TransactionKind = "stake"
	TxUnstake          TransactionKind = "unstake"
)

// TransactionKinds lists every known kind, in dispatch order
var TransactionKinds = []TransactionKind{
	TxMintAsset,
	TxEvolveAsset,
	TxTransferAsset,
	TxVoteCast,
	TxReputationUpdate,
	TxTokenTransfer,
	TxStake,
	TxUnstake,
}

// Valid returns true if the TransactionKind is a known kind
func (k TransactionKind) Valid() bool {
	switch k {
	case TxMintAsset, TxEvolveAsset, TxTransferAsset, TxVoteCast,
		TxReputationUpdate, TxTokenTransfer, TxStake, TxUnstake:
		return true
	default:
		return false
	}
}

var (
	ErrPayloadFieldMissing = errors.New("payload field missing")
	ErrPayloadFieldType    = errors.New("payload field has wrong type")
)

// Transaction is a signed envelope over a kind-specific payload. The
// signature covers the deterministic encoding of all fields except the
// signature itself, so any mutation to a signed field invalidates a
// prior signature
type Transaction struct {
	ID        string
	Kind      TransactionKind
	Timestamp time.Time
	SenderDID DID
	Payload   map[string]any
	Signature []byte
}

// signableTransaction is the canonical signing/hashing view of a
// transaction. Field names are fixed by the encoding; map keys within
// the payload are sorted by the deterministic encoder
type signableTransaction struct {
	ID        string          `cbor:"1,keyasint"`
	Kind      TransactionKind `cbor:"2,keyasint"`
	Timestamp int64           `cbor:"3,keyasint"`
	SenderDID DID             `cbor:"4,keyasint"`
	Payload   map[string]any  `cbor:"5,keyasint"`
}

// SignableBytes returns the canonical encoding covered by the
// transaction signature
func (t *Transaction) SignableBytes() ([]byte, error) {
	return marshalSignable(signableTransaction{
		ID:        t.ID,
		Kind:      t.Kind,
		Timestamp: t.Timestamp.UnixNano(),
		SenderDID: t.SenderDID,
		Payload:   t.Payload,
	})
}

// Hash computes the transaction hash over the signable encoding
func (t *Transaction) Hash() (Hash, error) {
	data, err := t.SignableBytes()
	if err != nil {
		return Hash{}, err
	}
	return HashBytes(data), nil
}

// TxSigner produces a signature over a message. The concrete signing
// algorithm is an injected capability; transactions never name one
type TxSigner interface {
	Sign(message []byte) ([]byte, error)
}

// TxVerifier checks a signature over a message
type TxVerifier interface {
	Verify(message []byte, signature []byte) bool
}

// Sign computes and attaches the transaction signature
func (t *Transaction) Sign(signer TxSigner) error {
	data, err := t.SignableBytes()
	if err != nil {
		return fmt.Errorf("encode transaction for signing: %w", err)
	}
	sig, err := signer.Sign(data)
	if err != nil {
		return fmt.Errorf("sign transaction %s: %w", t.ID, err)
	}
	t.Signature = sig
	return nil
}

// VerifySignature recomputes the signable encoding and checks the
// attached signature against it
func (t *Transaction) VerifySignature(verifier TxVerifier) bool {
	if len(t.Signature) == 0 {
		return false
	}
	data, err := t.SignableBytes()
	if err != nil {
		return false
	}
	return verifier.Verify(data, t.Signature)
}

// PayloadString returns a required string payload field
func (t *Transaction) PayloadString(key string) (string, error) {
	raw, ok := t.Payload[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPayloadFieldMissing, key)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPayloadFieldType, key)
	}
	return val, nil
}

// PayloadUint64 returns a required non-negative integer payload field
func (t *Transaction) PayloadUint64(key string) (uint64, error) {
	raw, ok := t.Payload[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPayloadFieldMissing, key)
	}
	switch val := raw.(type) {
	case uint64:
		return val, nil
	case int64:
		if val < 0 {
			return 0, fmt.Errorf("%w: %s is negative", ErrPayloadFieldType, key)
		}
		return uint64(val), nil
	case int:
		if val < 0 {
			return 0, fmt.Errorf("%w: %s is negative", ErrPayloadFieldType, key)
		}
		return uint64(val), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrPayloadFieldType, key)
	}
}

// PayloadInt64 returns a required signed integer payload field
func (t *Transaction) PayloadInt64(key string) (int64, error) {
	raw, ok := t.Payload[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrPayloadFieldMissing, key)
	}
	switch val := raw.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case uint64:
		return int64(val), nil //nolint:gosec
	default:
		return 0, fmt.Errorf("%w: %s", ErrPayloadFieldType, key)
	}
}
