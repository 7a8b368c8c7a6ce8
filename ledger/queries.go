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

package ledger

import (
	"slices"

	"github.com/critterworks/critterchain/types"
)

// Read-only queries. Each takes the read lock and returns copies, so
// callers observe a consistent snapshot and can never see or cause a
// partially-applied transaction.

// Balance returns the free balance for a DID
func (l *Ledger) Balance(did types.DID) uint64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.balances.Balance(did)
}

// Staked returns the staked amount for a DID
func (l *Ledger) Staked(did types.DID) uint64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.balances.Staked(did)
}

// Identity returns a copy of the identity record for a DID
func (l *Ledger) Identity(did types.DID) (types.Identity, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	identity, ok := l.identities.Get(did)
	if !ok {
		return types.Identity{}, false
	}
	return *identity, true
}

// VotingPower returns the current derived voting power for a DID.
// Unseen DIDs report the power of a fresh identity
func (l *Ledger) VotingPower(did types.DID) uint64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.identityView(did).VotingPower()
}

// Asset returns a copy of the asset with the given token id
func (l *Ledger) Asset(tokenId string) (types.Asset, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	asset, ok := l.assets.Get(tokenId)
	if !ok {
		return types.Asset{}, false
	}
	return copyAsset(asset), true
}

// AssetsByOwner returns copies of every asset owned by a DID
func (l *Ledger) AssetsByOwner(did types.DID) []types.Asset {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	owned := l.assets.ByOwner(did)
	ret := make([]types.Asset, len(owned))
	for i, asset := range owned {
		ret[i] = copyAsset(asset)
	}
	return ret
}

// Proposal returns a copy of the proposal with the given id
func (l *Ledger) Proposal(proposalId string) (types.Proposal, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	proposal, ok := l.proposals.Get(proposalId)
	if !ok {
		return types.Proposal{}, false
	}
	return *proposal, true
}

// Proposals returns copies of every proposal, ordered by id
func (l *Ledger) Proposals() []types.Proposal {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	all := l.proposals.All()
	ret := make([]types.Proposal, len(all))
	for i, proposal := range all {
		ret[i] = *proposal
	}
	return ret
}

// VotesByProposal returns copies of all votes recorded for a proposal
func (l *Ledger) VotesByProposal(proposalId string) []types.Vote {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	votes := l.votes.ByProposal(proposalId)
	ret := make([]types.Vote, len(votes))
	for i, vote := range votes {
		ret[i] = *vote
	}
	return ret
}

// PendingTransactions returns a snapshot of the pending queue
func (l *Ledger) PendingTransactions() []types.Transaction {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.mempool.Transactions()
}

// ChainHeight returns the current number of appended blocks
func (l *Ledger) ChainHeight() uint64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.chain.Height()
}

func copyAsset(asset *types.Asset) types.Asset {
	ret := *asset
	ret.Evolutions = slices.Clone(asset.Evolutions)
	return ret
}
