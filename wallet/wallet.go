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

// Package wallet builds and signs transactions on behalf of a
// participant identity. The ledger never constructs unsigned
// transactions; every submission originates from a wallet (or an
// external subsystem doing the equivalent).
package wallet

import (
	"fmt"
	"time"

	"github.com/critterworks/critterchain/keystore"
	"github.com/critterworks/critterchain/types"
)

// Wallet holds a participant's DID and signing key
type Wallet struct {
	did     types.DID
	keyPair *keystore.KeyPair
}

// NewWallet creates a wallet for a DID and registers its public key
// with the keystore so the ledger can verify its transactions
func NewWallet(
	did types.DID,
	keyPair *keystore.KeyPair,
	ks *keystore.KeyStore,
) (*Wallet, error) {
	if err := ks.Register(did, keyPair.PublicKey()); err != nil {
		return nil, fmt.Errorf("register wallet key: %w", err)
	}
	return &Wallet{
		did:     did,
		keyPair: keyPair,
	}, nil
}

// DID returns the wallet's identity address
func (w *Wallet) DID() types.DID {
	return w.did
}

// Signer returns the wallet's signing capability, used when the wallet
// owner acts as a block-producing validator
func (w *Wallet) Signer() keystore.Signer {
	return w.keyPair
}

// buildTransaction assembles a transaction envelope, derives its id
// from the canonical encoding, and signs it
func (w *Wallet) buildTransaction(
	kind types.TransactionKind,
	payload map[string]any,
) (types.Transaction, error) {
	tx := types.Transaction{
		Kind:      kind,
		Timestamp: time.Now(),
		SenderDID: w.did,
		Payload:   payload,
	}
	idHash, err := tx.Hash()
	if err != nil {
		return types.Transaction{}, fmt.Errorf("derive transaction id: %w", err)
	}
	tx.ID = idHash.String()
	if err := tx.Sign(w.keyPair); err != nil {
		return types.Transaction{}, err
	}
	return tx, nil
}

// NewMintAssetTransaction builds a signed asset-mint transaction
func (w *Wallet) NewMintAssetTransaction(
	assetKind types.AssetKind,
	name string,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxMintAsset, map[string]any{
		"asset_kind": string(assetKind),
		"name":       name,
	})
}

// NewEvolveAssetTransaction builds a signed asset-evolution transaction
func (w *Wallet) NewEvolveAssetTransaction(
	tokenId string,
	note string,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxEvolveAsset, map[string]any{
		"token_id": tokenId,
		"note":     note,
	})
}

// NewTransferAssetTransaction builds a signed asset-transfer transaction
func (w *Wallet) NewTransferAssetTransaction(
	tokenId string,
	to types.DID,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxTransferAsset, map[string]any{
		"token_id": tokenId,
		"to_did":   string(to),
	})
}

// NewVoteTransaction builds a signed vote-cast transaction
func (w *Wallet) NewVoteTransaction(
	proposalId string,
	direction types.VoteDirection,
	weight uint64,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxVoteCast, map[string]any{
		"proposal_id": proposalId,
		"direction":   string(direction),
		"weight":      weight,
	})
}

// NewReputationUpdateTransaction builds a signed reputation-delta
// transaction targeting any identity
func (w *Wallet) NewReputationUpdateTransaction(
	target types.DID,
	delta int64,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxReputationUpdate, map[string]any{
		"target_did": string(target),
		"delta":      delta,
	})
}

// NewTokenTransferTransaction builds a signed balance-transfer
// transaction
func (w *Wallet) NewTokenTransferTransaction(
	to types.DID,
	amount uint64,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxTokenTransfer, map[string]any{
		"to_did": string(to),
		"amount": amount,
	})
}

// NewStakeTransaction builds a signed stake transaction
func (w *Wallet) NewStakeTransaction(
	amount uint64,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxStake, map[string]any{
		"amount": amount,
	})
}

// NewUnstakeTransaction builds a signed unstake transaction
func (w *Wallet) NewUnstakeTransaction(
	amount uint64,
) (types.Transaction, error) {
	return w.buildTransaction(types.TxUnstake, map[string]any{
		"amount": amount,
	})
}
